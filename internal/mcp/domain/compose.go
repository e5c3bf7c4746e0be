package domain

import (
	"context"
	"fmt"

	"github.com/freightpress/freightpress/internal/platform/timeouts"
	"github.com/freightpress/freightpress/internal/storage"
	"github.com/freightpress/freightpress/internal/studio"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ComposeArticleInput represents the MCP tool input for article composition.
type ComposeArticleInput struct{}

// ComposeSocialPostInput represents the MCP tool input for social post composition.
type ComposeSocialPostInput struct {
	Platform string `json:"platform" jsonschema:"target platform (linkedin, x, instagram)"`
}

// ComposeResult represents the MCP tool output for composition requests.
type ComposeResult struct {
	Item         ContentItemEntry   `json:"item" jsonschema:"the stored content item"`
	Translations []ContentItemEntry `json:"translations,omitempty" jsonschema:"stored translated copies, one per extra target language"`
}

// ComposeArticleTool defines the MCP tool schema for article composition.
func ComposeArticleTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "compose_article",
		Description: "Generates and stores an article from the saved research parameters and preferences",
	}
}

// ComposeSocialPostTool defines the MCP tool schema for social post composition.
func ComposeSocialPostTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "compose_social_post",
		Description: "Generates and stores a social post for one platform, with default hashtags appended",
	}
}

// ComposeArticleHandler executes an article composition request.
func ComposeArticleHandler(composer *studio.Studio) mcp.ToolHandlerFor[ComposeArticleInput, ComposeResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ ComposeArticleInput) (*mcp.CallToolResult, ComposeResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.Compose)
		defer cancel()

		result, err := composer.ComposeArticle(runCtx)
		if err != nil {
			return nil, ComposeResult{}, fmt.Errorf("compose article failed: %w", err)
		}
		return nil, composeResult(result), nil
	}
}

// ComposeSocialPostHandler executes a social post composition request.
func ComposeSocialPostHandler(composer *studio.Studio) mcp.ToolHandlerFor[ComposeSocialPostInput, ComposeResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ComposeSocialPostInput) (*mcp.CallToolResult, ComposeResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.Compose)
		defer cancel()

		result, err := composer.ComposeSocialPost(runCtx, storage.Platform(input.Platform))
		if err != nil {
			return nil, ComposeResult{}, fmt.Errorf("compose social post failed: %w", err)
		}
		return nil, composeResult(result), nil
	}
}

func composeResult(result studio.ComposeResult) ComposeResult {
	out := ComposeResult{Item: contentItemEntry(result.Item)}
	for _, item := range result.Translations {
		out.Translations = append(out.Translations, contentItemEntry(item))
	}
	return out
}
