package domain

import (
	"context"
	"fmt"

	"github.com/freightpress/freightpress/internal/platform/timeouts"
	"github.com/freightpress/freightpress/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ContentHashEntry represents one stored duplicate-detection
// fingerprint in tool results.
type ContentHashEntry struct {
	ID          int64  `json:"id" jsonschema:"hash identifier"`
	Fingerprint string `json:"fingerprint" jsonschema:"content fingerprint"`
	Source      string `json:"source,omitempty" jsonschema:"where the fingerprinted content came from"`
	SourceURL   string `json:"source_url,omitempty" jsonschema:"source URL"`
	SourceTitle string `json:"source_title,omitempty" jsonschema:"source title"`
	CreatedAt   string `json:"created_at" jsonschema:"creation time (RFC 3339)"`
	UpdatedAt   string `json:"updated_at" jsonschema:"last change time (RFC 3339)"`
}

// ContentHashCreateInput represents the MCP tool input for hash creation.
type ContentHashCreateInput struct {
	Fingerprint string `json:"fingerprint" jsonschema:"content fingerprint"`
	Source      string `json:"source,omitempty" jsonschema:"where the fingerprinted content came from"`
	SourceURL   string `json:"source_url,omitempty" jsonschema:"source URL"`
	SourceTitle string `json:"source_title,omitempty" jsonschema:"source title"`
}

// ContentHashListInput represents the MCP tool input for hash listings.
type ContentHashListInput struct{}

// ContentHashListResult represents the MCP tool output for hash listings.
type ContentHashListResult struct {
	Hashes []ContentHashEntry `json:"hashes" jsonschema:"stored fingerprints in insertion order"`
}

// ContentHashGetInput represents the MCP tool input for a fingerprint lookup.
type ContentHashGetInput struct {
	Fingerprint string `json:"fingerprint" jsonschema:"content fingerprint"`
}

// ContentHashGetResult represents the MCP tool output for a fingerprint lookup.
type ContentHashGetResult struct {
	Found bool              `json:"found" jsonschema:"whether the fingerprint exists"`
	Hash  *ContentHashEntry `json:"hash,omitempty" jsonschema:"the stored hash when found"`
}

// ContentHashDeleteInput represents the MCP tool input for hash deletion.
type ContentHashDeleteInput struct {
	Fingerprint string `json:"fingerprint" jsonschema:"content fingerprint"`
}

// ContentHashDeleteResult represents the MCP tool output for hash deletion.
type ContentHashDeleteResult struct {
	Deleted bool `json:"deleted" jsonschema:"whether a hash was removed"`
}

// ContentHashCreateTool defines the MCP tool schema for creating hashes.
func ContentHashCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "content_hash_create",
		Description: "Registers a content fingerprint for duplicate detection",
	}
}

// ContentHashListTool defines the MCP tool schema for listing hashes.
func ContentHashListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "content_hash_list",
		Description: "Lists every stored content fingerprint in insertion order",
	}
}

// ContentHashGetTool defines the MCP tool schema for fingerprint lookups.
func ContentHashGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "content_hash_get",
		Description: "Looks up one content fingerprint",
	}
}

// ContentHashDeleteTool defines the MCP tool schema for deleting hashes.
func ContentHashDeleteTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "content_hash_delete",
		Description: "Deletes a content fingerprint so matching content can be stored again",
	}
}

// ContentHashCreateHandler executes a hash creation request.
func ContentHashCreateHandler(store storage.ContentHashStore) mcp.ToolHandlerFor[ContentHashCreateInput, ContentHashEntry] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ContentHashCreateInput) (*mcp.CallToolResult, ContentHashEntry, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		hash, err := store.CreateContentHash(runCtx, storage.NewContentHash{
			Fingerprint: input.Fingerprint,
			Source:      input.Source,
			SourceURL:   input.SourceURL,
			SourceTitle: input.SourceTitle,
		})
		if err != nil {
			return nil, ContentHashEntry{}, fmt.Errorf("content hash create failed: %w", err)
		}
		return nil, contentHashEntry(hash), nil
	}
}

// ContentHashListHandler executes a hash listing request.
func ContentHashListHandler(store storage.ContentHashStore) mcp.ToolHandlerFor[ContentHashListInput, ContentHashListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ ContentHashListInput) (*mcp.CallToolResult, ContentHashListResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		hashes, err := store.ContentHashes(runCtx)
		if err != nil {
			return nil, ContentHashListResult{}, fmt.Errorf("content hash list failed: %w", err)
		}
		result := ContentHashListResult{Hashes: make([]ContentHashEntry, 0, len(hashes))}
		for _, hash := range hashes {
			result.Hashes = append(result.Hashes, contentHashEntry(hash))
		}
		return nil, result, nil
	}
}

// ContentHashGetHandler executes a fingerprint lookup request. Missing
// fingerprints report found=false rather than a tool error.
func ContentHashGetHandler(store storage.ContentHashStore) mcp.ToolHandlerFor[ContentHashGetInput, ContentHashGetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ContentHashGetInput) (*mcp.CallToolResult, ContentHashGetResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		hash, found, err := store.ContentHashByFingerprint(runCtx, input.Fingerprint)
		if err != nil {
			return nil, ContentHashGetResult{}, fmt.Errorf("content hash read failed: %w", err)
		}
		if !found {
			return nil, ContentHashGetResult{}, nil
		}
		entry := contentHashEntry(hash)
		return nil, ContentHashGetResult{Found: true, Hash: &entry}, nil
	}
}

// ContentHashDeleteHandler executes a hash deletion request.
func ContentHashDeleteHandler(store storage.ContentHashStore) mcp.ToolHandlerFor[ContentHashDeleteInput, ContentHashDeleteResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ContentHashDeleteInput) (*mcp.CallToolResult, ContentHashDeleteResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		deleted, err := store.DeleteContentHashByFingerprint(runCtx, input.Fingerprint)
		if err != nil {
			return nil, ContentHashDeleteResult{}, fmt.Errorf("content hash delete failed: %w", err)
		}
		return nil, ContentHashDeleteResult{Deleted: deleted}, nil
	}
}

func contentHashEntry(hash storage.ContentHash) ContentHashEntry {
	return ContentHashEntry{
		ID:          hash.ID,
		Fingerprint: hash.Fingerprint,
		Source:      hash.Source,
		SourceURL:   hash.SourceURL,
		SourceTitle: hash.SourceTitle,
		CreatedAt:   formatTime(hash.CreatedAt),
		UpdatedAt:   formatTime(hash.UpdatedAt),
	}
}
