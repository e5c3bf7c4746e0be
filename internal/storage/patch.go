package storage

import (
	"fmt"
	"strings"
	"time"
)

// ApplyContentItemPatch merges set patch fields into an existing item.
// PublishedAt is stamped with now on the first transition to published.
// Fingerprint handling is left to the caller.
func ApplyContentItemPatch(item ContentItem, patch ContentItemPatch, now time.Time) (ContentItem, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return ContentItem{}, fmt.Errorf("content title is required")
		}
		item.Title = title
	}
	if patch.Type != nil {
		if !patch.Type.Valid() {
			return ContentItem{}, fmt.Errorf("unsupported content type %q", *patch.Type)
		}
		item.Type = *patch.Type
	}
	if patch.Body != nil {
		item.Body = strings.TrimSpace(*patch.Body)
	}
	if patch.Images != nil {
		item.Images = trimStrings(*patch.Images)
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return ContentItem{}, fmt.Errorf("unsupported content status %q", *patch.Status)
		}
		if *patch.Status == ContentStatusPublished && item.Status != ContentStatusPublished {
			publishedAt := now.UTC()
			item.PublishedAt = &publishedAt
		}
		item.Status = *patch.Status
	}
	return item, nil
}

// ApplyDatabaseConfigPatch merges set patch fields into an existing
// config. LastUsedAt is refreshed with now when the patch activates the
// config. Name uniqueness is left to the caller.
func ApplyDatabaseConfigPatch(config DatabaseConfig, patch DatabaseConfigPatch, now time.Time) (DatabaseConfig, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return DatabaseConfig{}, fmt.Errorf("config name is required")
		}
		config.Name = name
	}
	if patch.DSN != nil {
		dsn := strings.TrimSpace(*patch.DSN)
		if dsn == "" {
			return DatabaseConfig{}, fmt.Errorf("config connection descriptor is required")
		}
		config.DSN = dsn
	}
	if patch.Notes != nil {
		config.Notes = strings.TrimSpace(*patch.Notes)
	}
	if patch.Active != nil {
		config.Active = *patch.Active
		if config.Active {
			config.LastUsedAt = now.UTC()
		}
	}
	return config, nil
}

// ApplySEORulePatch merges set patch fields into an existing rule.
func ApplySEORulePatch(rule SEORule, patch SEORulePatch) (SEORule, error) {
	if patch.Platform != nil {
		if !patch.Platform.Valid() {
			return SEORule{}, fmt.Errorf("unsupported rule platform %q", *patch.Platform)
		}
		rule.Platform = *patch.Platform
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return SEORule{}, fmt.Errorf("rule name is required")
		}
		rule.Name = name
	}
	if patch.Rule != nil {
		text := strings.TrimSpace(*patch.Rule)
		if text == "" {
			return SEORule{}, fmt.Errorf("rule text is required")
		}
		rule.Rule = text
	}
	if patch.Importance != nil {
		rule.Importance = *patch.Importance
	}
	if patch.Category != nil {
		rule.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.Active != nil {
		rule.Active = *patch.Active
	}
	return rule, nil
}
