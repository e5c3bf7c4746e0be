// Package domain defines MCP tool inputs, outputs, and handlers for the
// content operations surface. Handlers close over the narrowest store
// interface they need so tests can drive them with any backend.
package domain

import (
	"time"

	"github.com/freightpress/freightpress/internal/storage"
)

// ContentItemEntry represents one stored content item in tool results
// and resource payloads.
type ContentItemEntry struct {
	ID          int64    `json:"id" jsonschema:"content item identifier"`
	Title       string   `json:"title" jsonschema:"content title"`
	Type        string   `json:"type" jsonschema:"content type (article, linkedin_post, x_post, instagram_post)"`
	Body        string   `json:"body" jsonschema:"content body"`
	Images      []string `json:"images,omitempty" jsonschema:"attached image URLs"`
	Status      string   `json:"status" jsonschema:"publishing status (draft, scheduled, published)"`
	Fingerprint string   `json:"fingerprint" jsonschema:"duplicate-detection fingerprint"`
	CreatedAt   string   `json:"created_at" jsonschema:"creation time (RFC 3339)"`
	PublishedAt *string  `json:"published_at,omitempty" jsonschema:"publish time (RFC 3339)"`
}

func contentItemEntry(item storage.ContentItem) ContentItemEntry {
	return ContentItemEntry{
		ID:          item.ID,
		Title:       item.Title,
		Type:        string(item.Type),
		Body:        item.Body,
		Images:      item.Images,
		Status:      string(item.Status),
		Fingerprint: item.Fingerprint,
		CreatedAt:   formatTime(item.CreatedAt),
		PublishedAt: formatTimeRef(item.PublishedAt),
	}
}

// formatTime returns an RFC3339 timestamp or empty string.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func formatTimeRef(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(time.RFC3339)
	return &formatted
}
