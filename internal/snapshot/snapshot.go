// Package snapshot assembles and restores aggregate exports of every
// record kind. Export never fails outright; Import resolves a
// registered adapter by source tag; cross-store migration is a defined
// contract whose copy algorithm is specified separately.
package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/freightpress/freightpress/internal/storage"
)

// FormatVersion tags the export envelope shape.
const FormatVersion = 1

// Snapshot is the aggregate export of every record kind. Errors lists
// sections that could not be read; a clean export has none.
type Snapshot struct {
	FormatVersion   int              `json:"format_version"`
	ExportedAt      time.Time        `json:"exported_at"`
	Settings        Settings         `json:"settings"`
	Preferences     Preferences      `json:"preferences"`
	ResearchParams  ResearchParams   `json:"research_params"`
	ContentItems    []ContentItem    `json:"content_items"`
	DatabaseConfigs []DatabaseConfig `json:"database_configs"`
	ContentHashes   []ContentHash    `json:"content_hashes"`
	SEORules        []SEORule        `json:"seo_rules"`
	Errors          []string         `json:"errors,omitempty"`
}

// Settings mirrors the credential singleton in the export shape.
type Settings struct {
	OpenAIAPIKey string    `json:"openai_api_key"`
	DeepLAPIKey  string    `json:"deepl_api_key"`
	PexelsAPIKey string    `json:"pexels_api_key"`
	AhrefsAPIKey string    `json:"ahrefs_api_key"`
	BufferAPIKey string    `json:"buffer_api_key"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Preferences mirrors the generation-preference singleton.
type Preferences struct {
	ArticleLength       storage.ArticleLength `json:"article_length"`
	ArticleStyle        storage.ArticleStyle  `json:"article_style"`
	AutoPublishArticles bool                  `json:"auto_publish_articles"`
	AutoPublishSocial   bool                  `json:"auto_publish_social"`
	DefaultHashtags     []string              `json:"default_hashtags"`
	TargetLanguages     []string              `json:"target_languages"`
	UpdatedAt           time.Time             `json:"updated_at"`
}

// ResearchParams mirrors the research-parameter singleton.
type ResearchParams struct {
	Topic     string                `json:"topic"`
	Focus     string                `json:"focus"`
	Keywords  []string              `json:"keywords"`
	Depth     storage.ResearchDepth `json:"depth"`
	GeoFocus  string                `json:"geo_focus"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// ContentItem mirrors one stored content record.
type ContentItem struct {
	ID          int64                 `json:"id"`
	Title       string                `json:"title"`
	Type        storage.ContentType   `json:"type"`
	Body        string                `json:"body"`
	Images      []string              `json:"images"`
	Status      storage.ContentStatus `json:"status"`
	Fingerprint string                `json:"fingerprint"`
	CreatedAt   time.Time             `json:"created_at"`
	PublishedAt *time.Time            `json:"published_at,omitempty"`
}

// DatabaseConfig mirrors one connection descriptor record.
type DatabaseConfig struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	DSN        string    `json:"dsn"`
	Active     bool      `json:"active"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
	LastUsedAt time.Time `json:"last_used_at"`
}

// ContentHash mirrors one fingerprint record.
type ContentHash struct {
	ID          int64     `json:"id"`
	Fingerprint string    `json:"fingerprint"`
	Source      string    `json:"source"`
	SourceURL   string    `json:"source_url"`
	SourceTitle string    `json:"source_title"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SEORule mirrors one optimization-rule record.
type SEORule struct {
	ID         int64            `json:"id"`
	Platform   storage.Platform `json:"platform"`
	Name       string           `json:"name"`
	Rule       string           `json:"rule"`
	Importance int              `json:"importance"`
	Category   string           `json:"category"`
	Active     bool             `json:"active"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// Export assembles the aggregate snapshot. Sections that cannot be read
// stay empty and contribute one marker to Errors, so callers can tell a
// clean export from a degraded one without handling an error.
func Export(ctx context.Context, store storage.Store) Snapshot {
	snap := Snapshot{
		FormatVersion:   FormatVersion,
		ExportedAt:      time.Now().UTC(),
		ContentItems:    []ContentItem{},
		DatabaseConfigs: []DatabaseConfig{},
		ContentHashes:   []ContentHash{},
		SEORules:        []SEORule{},
	}

	settings, err := store.Settings(ctx)
	if err != nil {
		snap.Errors = append(snap.Errors, sectionError("settings", err))
	} else {
		snap.Settings = toSnapshotSettings(settings)
	}

	prefs, err := store.Preferences(ctx)
	if err != nil {
		snap.Errors = append(snap.Errors, sectionError("preferences", err))
	} else {
		snap.Preferences = toSnapshotPreferences(prefs)
	}

	params, err := store.ResearchParams(ctx)
	if err != nil {
		snap.Errors = append(snap.Errors, sectionError("research_params", err))
	} else {
		snap.ResearchParams = toSnapshotResearchParams(params)
	}

	items, err := store.ContentItems(ctx)
	if err != nil {
		snap.Errors = append(snap.Errors, sectionError("content_items", err))
	} else {
		for _, item := range items {
			snap.ContentItems = append(snap.ContentItems, toSnapshotContentItem(item))
		}
	}

	configs, err := store.DatabaseConfigs(ctx)
	if err != nil {
		snap.Errors = append(snap.Errors, sectionError("database_configs", err))
	} else {
		for _, config := range configs {
			snap.DatabaseConfigs = append(snap.DatabaseConfigs, toSnapshotDatabaseConfig(config))
		}
	}

	hashes, err := store.ContentHashes(ctx)
	if err != nil {
		snap.Errors = append(snap.Errors, sectionError("content_hashes", err))
	} else {
		for _, hash := range hashes {
			snap.ContentHashes = append(snap.ContentHashes, toSnapshotContentHash(hash))
		}
	}

	rules, err := store.SEORules(ctx)
	if err != nil {
		snap.Errors = append(snap.Errors, sectionError("seo_rules", err))
	} else {
		for _, rule := range rules {
			snap.SEORules = append(snap.SEORules, toSnapshotSEORule(rule))
		}
	}

	return snap
}

func sectionError(section string, err error) string {
	return fmt.Sprintf("%s: %v", section, err)
}

func toSnapshotSettings(record storage.Settings) Settings {
	return Settings{
		OpenAIAPIKey: record.OpenAIAPIKey,
		DeepLAPIKey:  record.DeepLAPIKey,
		PexelsAPIKey: record.PexelsAPIKey,
		AhrefsAPIKey: record.AhrefsAPIKey,
		BufferAPIKey: record.BufferAPIKey,
		UpdatedAt:    record.UpdatedAt,
	}
}

func toSnapshotPreferences(record storage.Preferences) Preferences {
	return Preferences{
		ArticleLength:       record.ArticleLength,
		ArticleStyle:        record.ArticleStyle,
		AutoPublishArticles: record.AutoPublishArticles,
		AutoPublishSocial:   record.AutoPublishSocial,
		DefaultHashtags:     record.DefaultHashtags,
		TargetLanguages:     record.TargetLanguages,
		UpdatedAt:           record.UpdatedAt,
	}
}

func toSnapshotResearchParams(record storage.ResearchParams) ResearchParams {
	return ResearchParams{
		Topic:     record.Topic,
		Focus:     record.Focus,
		Keywords:  record.Keywords,
		Depth:     record.Depth,
		GeoFocus:  record.GeoFocus,
		UpdatedAt: record.UpdatedAt,
	}
}

func toSnapshotContentItem(record storage.ContentItem) ContentItem {
	return ContentItem{
		ID:          record.ID,
		Title:       record.Title,
		Type:        record.Type,
		Body:        record.Body,
		Images:      record.Images,
		Status:      record.Status,
		Fingerprint: record.Fingerprint,
		CreatedAt:   record.CreatedAt,
		PublishedAt: record.PublishedAt,
	}
}

func toSnapshotDatabaseConfig(record storage.DatabaseConfig) DatabaseConfig {
	return DatabaseConfig{
		ID:         record.ID,
		Name:       record.Name,
		DSN:        record.DSN,
		Active:     record.Active,
		Notes:      record.Notes,
		CreatedAt:  record.CreatedAt,
		LastUsedAt: record.LastUsedAt,
	}
}

func toSnapshotContentHash(record storage.ContentHash) ContentHash {
	return ContentHash{
		ID:          record.ID,
		Fingerprint: record.Fingerprint,
		Source:      record.Source,
		SourceURL:   record.SourceURL,
		SourceTitle: record.SourceTitle,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

func toSnapshotSEORule(record storage.SEORule) SEORule {
	return SEORule{
		ID:         record.ID,
		Platform:   record.Platform,
		Name:       record.Name,
		Rule:       record.Rule,
		Importance: record.Importance,
		Category:   record.Category,
		Active:     record.Active,
		UpdatedAt:  record.UpdatedAt,
	}
}
