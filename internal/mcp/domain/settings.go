package domain

import (
	"context"
	"fmt"

	"github.com/freightpress/freightpress/internal/platform/timeouts"
	"github.com/freightpress/freightpress/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SettingsGetInput represents the MCP tool input for reading settings.
type SettingsGetInput struct{}

// SettingsSaveInput represents the MCP tool input for replacing settings.
type SettingsSaveInput struct {
	OpenAIAPIKey string `json:"openai_api_key" jsonschema:"OpenAI API key for text generation"`
	DeepLAPIKey  string `json:"deepl_api_key" jsonschema:"DeepL API key for translations"`
	PexelsAPIKey string `json:"pexels_api_key" jsonschema:"Pexels API key for image search"`
	AhrefsAPIKey string `json:"ahrefs_api_key" jsonschema:"Ahrefs API key for keyword research"`
	BufferAPIKey string `json:"buffer_api_key" jsonschema:"Buffer API key for post scheduling"`
}

// SettingsResult represents the MCP tool output for the settings singleton.
type SettingsResult struct {
	OpenAIAPIKey string `json:"openai_api_key" jsonschema:"OpenAI API key"`
	DeepLAPIKey  string `json:"deepl_api_key" jsonschema:"DeepL API key"`
	PexelsAPIKey string `json:"pexels_api_key" jsonschema:"Pexels API key"`
	AhrefsAPIKey string `json:"ahrefs_api_key" jsonschema:"Ahrefs API key"`
	BufferAPIKey string `json:"buffer_api_key" jsonschema:"Buffer API key"`
	UpdatedAt    string `json:"updated_at" jsonschema:"last save time (RFC 3339)"`
}

// SettingsGetTool defines the MCP tool schema for reading settings.
func SettingsGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "settings_get",
		Description: "Reads the stored external-service credential set",
	}
}

// SettingsSaveTool defines the MCP tool schema for replacing settings.
func SettingsSaveTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "settings_save",
		Description: "Replaces the stored external-service credential set wholesale",
	}
}

// SettingsGetHandler executes a settings read request.
func SettingsGetHandler(store storage.SettingsStore) mcp.ToolHandlerFor[SettingsGetInput, SettingsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ SettingsGetInput) (*mcp.CallToolResult, SettingsResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		settings, err := store.Settings(runCtx)
		if err != nil {
			return nil, SettingsResult{}, fmt.Errorf("settings read failed: %w", err)
		}
		return nil, settingsResult(settings), nil
	}
}

// SettingsSaveHandler executes a settings replacement request.
func SettingsSaveHandler(store storage.SettingsStore) mcp.ToolHandlerFor[SettingsSaveInput, SettingsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SettingsSaveInput) (*mcp.CallToolResult, SettingsResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		err := store.SaveSettings(runCtx, storage.Settings{
			OpenAIAPIKey: input.OpenAIAPIKey,
			DeepLAPIKey:  input.DeepLAPIKey,
			PexelsAPIKey: input.PexelsAPIKey,
			AhrefsAPIKey: input.AhrefsAPIKey,
			BufferAPIKey: input.BufferAPIKey,
		})
		if err != nil {
			return nil, SettingsResult{}, fmt.Errorf("settings save failed: %w", err)
		}

		saved, err := store.Settings(runCtx)
		if err != nil {
			return nil, SettingsResult{}, fmt.Errorf("settings read failed: %w", err)
		}
		return nil, settingsResult(saved), nil
	}
}

func settingsResult(settings storage.Settings) SettingsResult {
	return SettingsResult{
		OpenAIAPIKey: settings.OpenAIAPIKey,
		DeepLAPIKey:  settings.DeepLAPIKey,
		PexelsAPIKey: settings.PexelsAPIKey,
		AhrefsAPIKey: settings.AhrefsAPIKey,
		BufferAPIKey: settings.BufferAPIKey,
		UpdatedAt:    formatTime(settings.UpdatedAt),
	}
}
