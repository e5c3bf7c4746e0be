package domain

import (
	"context"
	"fmt"

	"github.com/freightpress/freightpress/internal/platform/timeouts"
	"github.com/freightpress/freightpress/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// PreferencesGetInput represents the MCP tool input for reading preferences.
type PreferencesGetInput struct{}

// PreferencesSaveInput represents the MCP tool input for replacing preferences.
type PreferencesSaveInput struct {
	ArticleLength       string   `json:"article_length" jsonschema:"article length preset (short, medium, long)"`
	ArticleStyle        string   `json:"article_style" jsonschema:"article style preset (informative, conversational, technical)"`
	AutoPublishArticles bool     `json:"auto_publish_articles" jsonschema:"publish composed articles immediately"`
	AutoPublishSocial   bool     `json:"auto_publish_social" jsonschema:"publish composed social posts immediately"`
	DefaultHashtags     []string `json:"default_hashtags,omitempty" jsonschema:"hashtags appended to social posts"`
	TargetLanguages     []string `json:"target_languages,omitempty" jsonschema:"authoring language followed by translation targets"`
}

// PreferencesResult represents the MCP tool output for the preference singleton.
type PreferencesResult struct {
	ArticleLength       string   `json:"article_length" jsonschema:"article length preset"`
	ArticleStyle        string   `json:"article_style" jsonschema:"article style preset"`
	AutoPublishArticles bool     `json:"auto_publish_articles" jsonschema:"publish composed articles immediately"`
	AutoPublishSocial   bool     `json:"auto_publish_social" jsonschema:"publish composed social posts immediately"`
	DefaultHashtags     []string `json:"default_hashtags,omitempty" jsonschema:"hashtags appended to social posts"`
	TargetLanguages     []string `json:"target_languages,omitempty" jsonschema:"authoring language followed by translation targets"`
	UpdatedAt           string   `json:"updated_at" jsonschema:"last save time (RFC 3339)"`
}

// PreferencesGetTool defines the MCP tool schema for reading preferences.
func PreferencesGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "preferences_get",
		Description: "Reads the stored content-generation preference set",
	}
}

// PreferencesSaveTool defines the MCP tool schema for replacing preferences.
func PreferencesSaveTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "preferences_save",
		Description: "Replaces the stored content-generation preference set wholesale",
	}
}

// PreferencesGetHandler executes a preferences read request.
func PreferencesGetHandler(store storage.PreferencesStore) mcp.ToolHandlerFor[PreferencesGetInput, PreferencesResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ PreferencesGetInput) (*mcp.CallToolResult, PreferencesResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		prefs, err := store.Preferences(runCtx)
		if err != nil {
			return nil, PreferencesResult{}, fmt.Errorf("preferences read failed: %w", err)
		}
		return nil, preferencesResult(prefs), nil
	}
}

// PreferencesSaveHandler executes a preferences replacement request.
func PreferencesSaveHandler(store storage.PreferencesStore) mcp.ToolHandlerFor[PreferencesSaveInput, PreferencesResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PreferencesSaveInput) (*mcp.CallToolResult, PreferencesResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		err := store.SavePreferences(runCtx, storage.Preferences{
			ArticleLength:       storage.ArticleLength(input.ArticleLength),
			ArticleStyle:        storage.ArticleStyle(input.ArticleStyle),
			AutoPublishArticles: input.AutoPublishArticles,
			AutoPublishSocial:   input.AutoPublishSocial,
			DefaultHashtags:     input.DefaultHashtags,
			TargetLanguages:     input.TargetLanguages,
		})
		if err != nil {
			return nil, PreferencesResult{}, fmt.Errorf("preferences save failed: %w", err)
		}

		saved, err := store.Preferences(runCtx)
		if err != nil {
			return nil, PreferencesResult{}, fmt.Errorf("preferences read failed: %w", err)
		}
		return nil, preferencesResult(saved), nil
	}
}

func preferencesResult(prefs storage.Preferences) PreferencesResult {
	return PreferencesResult{
		ArticleLength:       string(prefs.ArticleLength),
		ArticleStyle:        string(prefs.ArticleStyle),
		AutoPublishArticles: prefs.AutoPublishArticles,
		AutoPublishSocial:   prefs.AutoPublishSocial,
		DefaultHashtags:     prefs.DefaultHashtags,
		TargetLanguages:     prefs.TargetLanguages,
		UpdatedAt:           formatTime(prefs.UpdatedAt),
	}
}
