package domain

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/freightpress/freightpress/internal/platform/timeouts"
	"github.com/freightpress/freightpress/internal/snapshot"
	"github.com/freightpress/freightpress/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// DatabaseConfigEntry represents one stored connection descriptor in
// tool results and resource payloads.
type DatabaseConfigEntry struct {
	ID         int64  `json:"id" jsonschema:"config identifier"`
	Name       string `json:"name" jsonschema:"unique config name"`
	DSN        string `json:"dsn" jsonschema:"connection descriptor"`
	Active     bool   `json:"active" jsonschema:"whether this config is the active selection"`
	Notes      string `json:"notes,omitempty" jsonschema:"free-form operator notes"`
	CreatedAt  string `json:"created_at" jsonschema:"creation time (RFC 3339)"`
	LastUsedAt string `json:"last_used_at,omitempty" jsonschema:"last activation time (RFC 3339)"`
}

// DBConfigCreateInput represents the MCP tool input for config creation.
type DBConfigCreateInput struct {
	Name   string `json:"name" jsonschema:"unique config name"`
	DSN    string `json:"dsn" jsonschema:"connection descriptor"`
	Active bool   `json:"active,omitempty" jsonschema:"activate this config, deactivating every other"`
	Notes  string `json:"notes,omitempty" jsonschema:"free-form operator notes"`
}

// DBConfigListInput represents the MCP tool input for config listings.
type DBConfigListInput struct{}

// DBConfigListResult represents the MCP tool output for config listings.
type DBConfigListResult struct {
	Configs []DatabaseConfigEntry `json:"configs" jsonschema:"stored configs in insertion order"`
}

// DBConfigActiveInput represents the MCP tool input for the active-config read.
type DBConfigActiveInput struct{}

// DBConfigActiveResult represents the MCP tool output for the active-config read.
type DBConfigActiveResult struct {
	Found  bool                 `json:"found" jsonschema:"whether an active config exists"`
	Config *DatabaseConfigEntry `json:"config,omitempty" jsonschema:"the active config when found"`
}

// DBConfigUpdateInput represents the MCP tool input for config updates.
// Omitted fields keep their stored values.
type DBConfigUpdateInput struct {
	ID     int64   `json:"id" jsonschema:"config identifier"`
	Name   *string `json:"name,omitempty" jsonschema:"replacement name"`
	DSN    *string `json:"dsn,omitempty" jsonschema:"replacement connection descriptor"`
	Active *bool   `json:"active,omitempty" jsonschema:"replacement active flag"`
	Notes  *string `json:"notes,omitempty" jsonschema:"replacement notes"`
}

// DBConfigUpdateResult represents the MCP tool output for config updates.
type DBConfigUpdateResult struct {
	Found  bool                 `json:"found" jsonschema:"whether the config exists"`
	Config *DatabaseConfigEntry `json:"config,omitempty" jsonschema:"the updated config when found"`
}

// DBConfigActivateInput represents the MCP tool input for config activation.
type DBConfigActivateInput struct {
	ID int64 `json:"id" jsonschema:"config identifier"`
}

// DBConfigActivateResult represents the MCP tool output for config activation.
type DBConfigActivateResult struct {
	Activated bool `json:"activated" jsonschema:"whether the config was activated"`
}

// DBConfigDeleteInput represents the MCP tool input for config deletion.
type DBConfigDeleteInput struct {
	ID int64 `json:"id" jsonschema:"config identifier"`
}

// DBConfigDeleteResult represents the MCP tool output for config deletion.
type DBConfigDeleteResult struct {
	Deleted bool `json:"deleted" jsonschema:"whether a config was removed"`
}

// DBConfigCreateTool defines the MCP tool schema for creating configs.
func DBConfigCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "db_config_create",
		Description: "Creates a named backing-store connection descriptor",
	}
}

// DBConfigListTool defines the MCP tool schema for listing configs.
func DBConfigListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "db_config_list",
		Description: "Lists every stored connection descriptor in insertion order",
	}
}

// DBConfigActiveTool defines the MCP tool schema for the active-config read.
func DBConfigActiveTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "db_config_active",
		Description: "Reads the at-most-one active connection descriptor",
	}
}

// DBConfigUpdateTool defines the MCP tool schema for updating configs.
func DBConfigUpdateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "db_config_update",
		Description: "Updates the supplied fields of a connection descriptor, leaving the rest unchanged",
	}
}

// DBConfigActivateTool defines the MCP tool schema for activating configs.
func DBConfigActivateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "db_config_activate",
		Description: "Marks one connection descriptor active and deactivates every other",
	}
}

// DBConfigDeleteTool defines the MCP tool schema for deleting configs.
func DBConfigDeleteTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "db_config_delete",
		Description: "Deletes an inactive connection descriptor; deleting the active one is refused",
	}
}

// DBConfigListResource defines the MCP resource for config listings.
// Resource payloads mask credentials in connection descriptors.
func DBConfigListResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "db_config_list",
		Title:       "Database Configs",
		Description: "Readable listing of connection descriptors with masked credentials",
		MIMEType:    "application/json",
		URI:         "freightpress://configs",
	}
}

// ConfigListPayload represents the MCP resource payload for config listings.
type ConfigListPayload struct {
	Configs []DatabaseConfigEntry `json:"configs"`
}

// DBConfigCreateHandler executes a config creation request.
func DBConfigCreateHandler(store storage.DatabaseConfigStore) mcp.ToolHandlerFor[DBConfigCreateInput, DatabaseConfigEntry] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DBConfigCreateInput) (*mcp.CallToolResult, DatabaseConfigEntry, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		config, err := store.CreateDatabaseConfig(runCtx, storage.NewDatabaseConfig{
			Name:   input.Name,
			DSN:    input.DSN,
			Active: input.Active,
			Notes:  input.Notes,
		})
		if err != nil {
			return nil, DatabaseConfigEntry{}, fmt.Errorf("db config create failed: %w", err)
		}
		return nil, databaseConfigEntry(config), nil
	}
}

// DBConfigListHandler executes a config listing request.
func DBConfigListHandler(store storage.DatabaseConfigStore) mcp.ToolHandlerFor[DBConfigListInput, DBConfigListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ DBConfigListInput) (*mcp.CallToolResult, DBConfigListResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		configs, err := store.DatabaseConfigs(runCtx)
		if err != nil {
			return nil, DBConfigListResult{}, fmt.Errorf("db config list failed: %w", err)
		}
		result := DBConfigListResult{Configs: make([]DatabaseConfigEntry, 0, len(configs))}
		for _, config := range configs {
			result.Configs = append(result.Configs, databaseConfigEntry(config))
		}
		return nil, result, nil
	}
}

// DBConfigActiveHandler executes an active-config read request. A store
// with no active selection reports found=false rather than a tool error.
func DBConfigActiveHandler(store storage.DatabaseConfigStore) mcp.ToolHandlerFor[DBConfigActiveInput, DBConfigActiveResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ DBConfigActiveInput) (*mcp.CallToolResult, DBConfigActiveResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		config, found, err := store.ActiveDatabaseConfig(runCtx)
		if err != nil {
			return nil, DBConfigActiveResult{}, fmt.Errorf("db config read failed: %w", err)
		}
		if !found {
			return nil, DBConfigActiveResult{}, nil
		}
		entry := databaseConfigEntry(config)
		return nil, DBConfigActiveResult{Found: true, Config: &entry}, nil
	}
}

// DBConfigUpdateHandler executes a config update request. Missing
// identifiers report found=false rather than a tool error.
func DBConfigUpdateHandler(store storage.DatabaseConfigStore) mcp.ToolHandlerFor[DBConfigUpdateInput, DBConfigUpdateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DBConfigUpdateInput) (*mcp.CallToolResult, DBConfigUpdateResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		config, found, err := store.UpdateDatabaseConfig(runCtx, input.ID, storage.DatabaseConfigPatch{
			Name:   input.Name,
			DSN:    input.DSN,
			Active: input.Active,
			Notes:  input.Notes,
		})
		if err != nil {
			return nil, DBConfigUpdateResult{}, fmt.Errorf("db config update failed: %w", err)
		}
		if !found {
			return nil, DBConfigUpdateResult{}, nil
		}
		entry := databaseConfigEntry(config)
		return nil, DBConfigUpdateResult{Found: true, Config: &entry}, nil
	}
}

// DBConfigActivateHandler executes a config activation request.
func DBConfigActivateHandler(store storage.DatabaseConfigStore) mcp.ToolHandlerFor[DBConfigActivateInput, DBConfigActivateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DBConfigActivateInput) (*mcp.CallToolResult, DBConfigActivateResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		activated, err := store.ActivateDatabaseConfig(runCtx, input.ID)
		if err != nil {
			return nil, DBConfigActivateResult{}, fmt.Errorf("db config activate failed: %w", err)
		}
		return nil, DBConfigActivateResult{Activated: activated}, nil
	}
}

// DBConfigDeleteHandler executes a config deletion request. Deleting the
// active config surfaces the store conflict as a tool error.
func DBConfigDeleteHandler(store storage.DatabaseConfigStore) mcp.ToolHandlerFor[DBConfigDeleteInput, DBConfigDeleteResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DBConfigDeleteInput) (*mcp.CallToolResult, DBConfigDeleteResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		deleted, err := store.DeleteDatabaseConfig(runCtx, input.ID)
		if err != nil {
			return nil, DBConfigDeleteResult{}, fmt.Errorf("db config delete failed: %w", err)
		}
		return nil, DBConfigDeleteResult{Deleted: deleted}, nil
	}
}

// DBConfigListResourceHandler returns a readable config listing resource
// with masked connection credentials.
func DBConfigListResourceHandler(store storage.DatabaseConfigStore) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if store == nil {
			return nil, fmt.Errorf("config store is not configured")
		}

		uri := DBConfigListResource().URI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}

		runCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		configs, err := store.DatabaseConfigs(runCtx)
		if err != nil {
			return nil, fmt.Errorf("db config list failed: %w", err)
		}

		payload := ConfigListPayload{}
		for _, config := range configs {
			entry := databaseConfigEntry(config)
			entry.DSN = snapshot.MaskDSN(entry.DSN)
			payload.Configs = append(payload.Configs, entry)
		}

		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal db config list: %w", err)
		}

		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      uri,
					MIMEType: "application/json",
					Text:     string(data),
				},
			},
		}, nil
	}
}

func databaseConfigEntry(config storage.DatabaseConfig) DatabaseConfigEntry {
	return DatabaseConfigEntry{
		ID:         config.ID,
		Name:       config.Name,
		DSN:        config.DSN,
		Active:     config.Active,
		Notes:      config.Notes,
		CreatedAt:  formatTime(config.CreatedAt),
		LastUsedAt: formatTime(config.LastUsedAt),
	}
}
