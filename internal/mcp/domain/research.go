package domain

import (
	"context"
	"fmt"

	"github.com/freightpress/freightpress/internal/platform/timeouts"
	"github.com/freightpress/freightpress/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ResearchParamsGetInput represents the MCP tool input for reading research parameters.
type ResearchParamsGetInput struct{}

// ResearchParamsSaveInput represents the MCP tool input for replacing research parameters.
type ResearchParamsSaveInput struct {
	Topic    string   `json:"topic" jsonschema:"research topic"`
	Focus    string   `json:"focus" jsonschema:"research focus within the topic"`
	Keywords []string `json:"keywords,omitempty" jsonschema:"keywords to weave into generated content"`
	Depth    string   `json:"depth" jsonschema:"research depth (quick, standard, deep)"`
	GeoFocus string   `json:"geo_focus" jsonschema:"geographic focus for the research"`
}

// ResearchParamsResult represents the MCP tool output for the research singleton.
type ResearchParamsResult struct {
	Topic     string   `json:"topic" jsonschema:"research topic"`
	Focus     string   `json:"focus" jsonschema:"research focus"`
	Keywords  []string `json:"keywords,omitempty" jsonschema:"research keywords"`
	Depth     string   `json:"depth" jsonschema:"research depth"`
	GeoFocus  string   `json:"geo_focus" jsonschema:"geographic focus"`
	UpdatedAt string   `json:"updated_at" jsonschema:"last save time (RFC 3339)"`
}

// ResearchParamsGetTool defines the MCP tool schema for reading research parameters.
func ResearchParamsGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "research_params_get",
		Description: "Reads the stored topic-research parameter set",
	}
}

// ResearchParamsSaveTool defines the MCP tool schema for replacing research parameters.
func ResearchParamsSaveTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "research_params_save",
		Description: "Replaces the stored topic-research parameter set wholesale",
	}
}

// ResearchParamsGetHandler executes a research parameter read request.
func ResearchParamsGetHandler(store storage.ResearchParamsStore) mcp.ToolHandlerFor[ResearchParamsGetInput, ResearchParamsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ ResearchParamsGetInput) (*mcp.CallToolResult, ResearchParamsResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		params, err := store.ResearchParams(runCtx)
		if err != nil {
			return nil, ResearchParamsResult{}, fmt.Errorf("research params read failed: %w", err)
		}
		return nil, researchParamsResult(params), nil
	}
}

// ResearchParamsSaveHandler executes a research parameter replacement request.
func ResearchParamsSaveHandler(store storage.ResearchParamsStore) mcp.ToolHandlerFor[ResearchParamsSaveInput, ResearchParamsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ResearchParamsSaveInput) (*mcp.CallToolResult, ResearchParamsResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		err := store.SaveResearchParams(runCtx, storage.ResearchParams{
			Topic:    input.Topic,
			Focus:    input.Focus,
			Keywords: input.Keywords,
			Depth:    storage.ResearchDepth(input.Depth),
			GeoFocus: input.GeoFocus,
		})
		if err != nil {
			return nil, ResearchParamsResult{}, fmt.Errorf("research params save failed: %w", err)
		}

		saved, err := store.ResearchParams(runCtx)
		if err != nil {
			return nil, ResearchParamsResult{}, fmt.Errorf("research params read failed: %w", err)
		}
		return nil, researchParamsResult(saved), nil
	}
}

func researchParamsResult(params storage.ResearchParams) ResearchParamsResult {
	return ResearchParamsResult{
		Topic:     params.Topic,
		Focus:     params.Focus,
		Keywords:  params.Keywords,
		Depth:     string(params.Depth),
		GeoFocus:  params.GeoFocus,
		UpdatedAt: formatTime(params.UpdatedAt),
	}
}
