//go:build conformance

// Package conformance registers fixed MCP fixtures used by protocol
// conformance suites. Nothing here touches the content store.
package conformance

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	plainTextBody      = "Fixed text payload for conformance checks."
	errorContentBody   = "Fixed error payload for conformance checks."
	alwaysErrorBody    = "This tool always reports a tool error."
	promptMessageBody  = "Fixed prompt message for conformance checks."
	staticResourceBody = "Fixed resource body for conformance checks."
	staticResourceURI  = "test://static-text"
)

// Register adds the conformance-only tools, prompt, and resource.
func Register(mcpServer *mcp.Server) {
	if mcpServer == nil {
		return
	}

	mcp.AddTool(mcpServer, plainTextTool(), plainTextHandler())
	mcp.AddTool(mcpServer, errorContentTool(), errorContentHandler())
	mcp.AddTool(mcpServer, alwaysErrorTool(), alwaysErrorHandler())
	mcpServer.AddPrompt(fixedPrompt(), fixedPromptHandler())
	mcpServer.AddResource(staticTextResource(), staticTextResourceHandler())
}

func plainTextTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "test_simple_text",
		Description: "Conformance tool that returns a fixed text response.",
	}
}

func plainTextHandler() mcp.ToolHandlerFor[struct{}, any] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: plainTextBody},
			},
		}, nil, nil
	}
}

func errorContentTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "test_error_content",
		Description: "Conformance tool that returns an error-flagged response.",
	}
}

func errorContentHandler() mcp.ToolHandlerFor[struct{}, any] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: errorContentBody},
			},
		}, nil, nil
	}
}

func alwaysErrorTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "test_error_handling",
		Description: "Conformance tool that always reports a tool error.",
	}
}

func alwaysErrorHandler() mcp.ToolHandlerFor[struct{}, any] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: alwaysErrorBody},
			},
		}, nil, nil
	}
}

func fixedPrompt() *mcp.Prompt {
	return &mcp.Prompt{
		Name:        "test_simple_prompt",
		Description: "Conformance prompt that returns a fixed text message.",
	}
}

func fixedPromptHandler() mcp.PromptHandler {
	return func(_ context.Context, _ *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		return &mcp.GetPromptResult{
			Messages: []*mcp.PromptMessage{
				{
					Role:    "user",
					Content: &mcp.TextContent{Text: promptMessageBody},
				},
			},
		}, nil
	}
}

func staticTextResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "test_static_text",
		Description: "Conformance resource with a fixed text body.",
		MIMEType:    "text/plain",
		URI:         staticResourceURI,
	}
}

func staticTextResourceHandler() mcp.ResourceHandler {
	return func(_ context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      staticResourceURI,
					MIMEType: "text/plain",
					Text:     staticResourceBody,
				},
			},
		}, nil
	}
}
