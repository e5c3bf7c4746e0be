package domain

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/freightpress/freightpress/internal/platform/timeouts"
	"github.com/freightpress/freightpress/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ContentCreateInput represents the MCP tool input for content creation.
type ContentCreateInput struct {
	Title  string   `json:"title" jsonschema:"content title"`
	Type   string   `json:"type" jsonschema:"content type (article, linkedin_post, x_post, instagram_post)"`
	Body   string   `json:"body" jsonschema:"content body"`
	Images []string `json:"images,omitempty" jsonschema:"optional image URLs"`
	Status string   `json:"status,omitempty" jsonschema:"initial status (draft, scheduled, published); defaults to draft"`
}

// ContentListInput represents the MCP tool input for content listings.
type ContentListInput struct{}

// ContentListResult represents the MCP tool output for content listings.
type ContentListResult struct {
	Items []ContentItemEntry `json:"items" jsonschema:"stored content items in insertion order"`
}

// ContentGetInput represents the MCP tool input for reading one content item.
type ContentGetInput struct {
	ID int64 `json:"id" jsonschema:"content item identifier"`
}

// ContentGetResult represents the MCP tool output for reading one content item.
type ContentGetResult struct {
	Found bool              `json:"found" jsonschema:"whether the item exists"`
	Item  *ContentItemEntry `json:"item,omitempty" jsonschema:"the stored item when found"`
}

// ContentUpdateInput represents the MCP tool input for content updates.
// Omitted fields keep their stored values.
type ContentUpdateInput struct {
	ID     int64     `json:"id" jsonschema:"content item identifier"`
	Title  *string   `json:"title,omitempty" jsonschema:"replacement title"`
	Type   *string   `json:"type,omitempty" jsonschema:"replacement content type"`
	Body   *string   `json:"body,omitempty" jsonschema:"replacement body"`
	Images *[]string `json:"images,omitempty" jsonschema:"replacement image URL list"`
	Status *string   `json:"status,omitempty" jsonschema:"replacement status"`
}

// ContentUpdateResult represents the MCP tool output for content updates.
type ContentUpdateResult struct {
	Found bool              `json:"found" jsonschema:"whether the item exists"`
	Item  *ContentItemEntry `json:"item,omitempty" jsonschema:"the updated item when found"`
}

// ContentDeleteInput represents the MCP tool input for content deletion.
type ContentDeleteInput struct {
	ID int64 `json:"id" jsonschema:"content item identifier"`
}

// ContentDeleteResult represents the MCP tool output for content deletion.
type ContentDeleteResult struct {
	Deleted bool `json:"deleted" jsonschema:"whether an item was removed"`
}

// ContentCreateTool defines the MCP tool schema for creating content items.
func ContentCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "content_create",
		Description: "Creates a content item with duplicate detection against stored fingerprints",
	}
}

// ContentListTool defines the MCP tool schema for listing content items.
func ContentListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "content_list",
		Description: "Lists every stored content item in insertion order",
	}
}

// ContentGetTool defines the MCP tool schema for reading one content item.
func ContentGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "content_get",
		Description: "Reads one content item by identifier",
	}
}

// ContentUpdateTool defines the MCP tool schema for updating content items.
func ContentUpdateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "content_update",
		Description: "Updates the supplied fields of a content item, leaving the rest unchanged",
	}
}

// ContentDeleteTool defines the MCP tool schema for deleting content items.
func ContentDeleteTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "content_delete",
		Description: "Deletes a content item and its duplicate-detection fingerprint",
	}
}

// ContentListResource defines the MCP resource for content listings.
func ContentListResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "content_list",
		Title:       "Content Items",
		Description: "Readable listing of generated articles and social posts",
		MIMEType:    "application/json",
		URI:         "freightpress://content",
	}
}

// ContentListPayload represents the MCP resource payload for content listings.
type ContentListPayload struct {
	Items []ContentItemEntry `json:"items"`
}

// ContentCreateHandler executes a content creation request.
func ContentCreateHandler(store storage.ContentItemStore) mcp.ToolHandlerFor[ContentCreateInput, ContentItemEntry] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ContentCreateInput) (*mcp.CallToolResult, ContentItemEntry, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		item, err := store.CreateContentItem(runCtx, storage.NewContentItem{
			Title:  input.Title,
			Type:   storage.ContentType(input.Type),
			Body:   input.Body,
			Images: input.Images,
			Status: storage.ContentStatus(input.Status),
		})
		if err != nil {
			return nil, ContentItemEntry{}, fmt.Errorf("content create failed: %w", err)
		}
		return nil, contentItemEntry(item), nil
	}
}

// ContentListHandler executes a content listing request.
func ContentListHandler(store storage.ContentItemStore) mcp.ToolHandlerFor[ContentListInput, ContentListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ ContentListInput) (*mcp.CallToolResult, ContentListResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		items, err := store.ContentItems(runCtx)
		if err != nil {
			return nil, ContentListResult{}, fmt.Errorf("content list failed: %w", err)
		}
		result := ContentListResult{Items: make([]ContentItemEntry, 0, len(items))}
		for _, item := range items {
			result.Items = append(result.Items, contentItemEntry(item))
		}
		return nil, result, nil
	}
}

// ContentGetHandler executes a single content read request. Missing
// identifiers report found=false rather than a tool error.
func ContentGetHandler(store storage.ContentItemStore) mcp.ToolHandlerFor[ContentGetInput, ContentGetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ContentGetInput) (*mcp.CallToolResult, ContentGetResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		item, found, err := store.ContentItemByID(runCtx, input.ID)
		if err != nil {
			return nil, ContentGetResult{}, fmt.Errorf("content read failed: %w", err)
		}
		if !found {
			return nil, ContentGetResult{}, nil
		}
		entry := contentItemEntry(item)
		return nil, ContentGetResult{Found: true, Item: &entry}, nil
	}
}

// ContentUpdateHandler executes a content update request. Missing
// identifiers report found=false rather than a tool error.
func ContentUpdateHandler(store storage.ContentItemStore) mcp.ToolHandlerFor[ContentUpdateInput, ContentUpdateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ContentUpdateInput) (*mcp.CallToolResult, ContentUpdateResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		patch := storage.ContentItemPatch{
			Title:  input.Title,
			Body:   input.Body,
			Images: input.Images,
		}
		if input.Type != nil {
			converted := storage.ContentType(*input.Type)
			patch.Type = &converted
		}
		if input.Status != nil {
			converted := storage.ContentStatus(*input.Status)
			patch.Status = &converted
		}

		item, found, err := store.UpdateContentItem(runCtx, input.ID, patch)
		if err != nil {
			return nil, ContentUpdateResult{}, fmt.Errorf("content update failed: %w", err)
		}
		if !found {
			return nil, ContentUpdateResult{}, nil
		}
		entry := contentItemEntry(item)
		return nil, ContentUpdateResult{Found: true, Item: &entry}, nil
	}
}

// ContentDeleteHandler executes a content deletion request.
func ContentDeleteHandler(store storage.ContentItemStore) mcp.ToolHandlerFor[ContentDeleteInput, ContentDeleteResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ContentDeleteInput) (*mcp.CallToolResult, ContentDeleteResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		deleted, err := store.DeleteContentItem(runCtx, input.ID)
		if err != nil {
			return nil, ContentDeleteResult{}, fmt.Errorf("content delete failed: %w", err)
		}
		return nil, ContentDeleteResult{Deleted: deleted}, nil
	}
}

// ContentListResourceHandler returns a readable content listing resource.
func ContentListResourceHandler(store storage.ContentItemStore) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if store == nil {
			return nil, fmt.Errorf("content store is not configured")
		}

		uri := ContentListResource().URI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}

		runCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		items, err := store.ContentItems(runCtx)
		if err != nil {
			return nil, fmt.Errorf("content list failed: %w", err)
		}

		payload := ContentListPayload{}
		for _, item := range items {
			payload.Items = append(payload.Items, contentItemEntry(item))
		}

		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal content list: %w", err)
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
