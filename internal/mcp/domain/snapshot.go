package domain

import (
	"context"
	"fmt"

	"github.com/freightpress/freightpress/internal/platform/timeouts"
	"github.com/freightpress/freightpress/internal/snapshot"
	"github.com/freightpress/freightpress/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SnapshotExportInput represents the MCP tool input for snapshot export.
type SnapshotExportInput struct{}

// SnapshotImportInput represents the MCP tool input for snapshot import.
type SnapshotImportInput struct {
	Source  string `json:"source" jsonschema:"snapshot source label (native for freightpress exports)"`
	Payload string `json:"payload" jsonschema:"snapshot document as JSON text"`
}

// SnapshotImportResult represents the MCP tool output for snapshot import.
type SnapshotImportResult struct {
	Imported bool `json:"imported" jsonschema:"whether the snapshot was applied"`
}

// SnapshotMigrateInput represents the MCP tool input for store migration.
type SnapshotMigrateInput struct {
	SourceDSN string `json:"source_dsn" jsonschema:"connection descriptor of the store to copy from"`
	TargetDSN string `json:"target_dsn" jsonschema:"connection descriptor of the store to copy into"`
}

// SnapshotMigrateResult represents the MCP tool output for store migration.
type SnapshotMigrateResult struct {
	Accepted bool `json:"accepted" jsonschema:"whether the migration request was accepted"`
}

// SnapshotExportTool defines the MCP tool schema for snapshot export.
func SnapshotExportTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "snapshot_export",
		Description: "Exports every stored record as one portable snapshot document",
	}
}

// SnapshotImportTool defines the MCP tool schema for snapshot import.
func SnapshotImportTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "snapshot_import",
		Description: "Imports a snapshot document into the store through a registered source adapter",
	}
}

// SnapshotMigrateTool defines the MCP tool schema for store migration.
func SnapshotMigrateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "snapshot_migrate",
		Description: "Requests a record copy between two backing stores",
	}
}

// SnapshotExportHandler executes a snapshot export request. Sections
// that fail to read are reported inside the snapshot rather than
// failing the export.
func SnapshotExportHandler(store storage.Store) mcp.ToolHandlerFor[SnapshotExportInput, snapshot.Snapshot] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ SnapshotExportInput) (*mcp.CallToolResult, snapshot.Snapshot, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.Snapshot)
		defer cancel()

		return nil, snapshot.Export(runCtx, store), nil
	}
}

// SnapshotImportHandler executes a snapshot import request.
func SnapshotImportHandler(importer *snapshot.Importer, store storage.Store) mcp.ToolHandlerFor[SnapshotImportInput, SnapshotImportResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SnapshotImportInput) (*mcp.CallToolResult, SnapshotImportResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.Snapshot)
		defer cancel()

		imported, err := importer.Import(runCtx, store, input.Source, []byte(input.Payload))
		if err != nil {
			return nil, SnapshotImportResult{}, fmt.Errorf("snapshot import failed: %w", err)
		}
		return nil, SnapshotImportResult{Imported: imported}, nil
	}
}

// SnapshotMigrateHandler executes a store migration request.
func SnapshotMigrateHandler() mcp.ToolHandlerFor[SnapshotMigrateInput, SnapshotMigrateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SnapshotMigrateInput) (*mcp.CallToolResult, SnapshotMigrateResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.Snapshot)
		defer cancel()

		accepted, err := snapshot.Migrate(runCtx, input.SourceDSN, input.TargetDSN)
		if err != nil {
			return nil, SnapshotMigrateResult{}, fmt.Errorf("snapshot migrate failed: %w", err)
		}
		return nil, SnapshotMigrateResult{Accepted: accepted}, nil
	}
}
