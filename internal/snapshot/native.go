package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/freightpress/freightpress/internal/storage"
)

// SourceNative identifies payloads in the export envelope shape.
const SourceNative = "native"

// nativeAdapter restores an export payload through the store. Content
// items are recreated before explicit hash rows so the duplicate guard
// populates its own fingerprints first; hash rows it already recreated
// are skipped on conflict.
type nativeAdapter struct{}

func (nativeAdapter) Import(ctx context.Context, store storage.Store, payload []byte) (bool, error) {
	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return false, fmt.Errorf("decode native payload: %w", err)
	}
	if snap.FormatVersion != FormatVersion {
		return false, fmt.Errorf("unsupported native payload format version %d", snap.FormatVersion)
	}

	if err := store.SaveSettings(ctx, storage.Settings{
		OpenAIAPIKey: snap.Settings.OpenAIAPIKey,
		DeepLAPIKey:  snap.Settings.DeepLAPIKey,
		PexelsAPIKey: snap.Settings.PexelsAPIKey,
		AhrefsAPIKey: snap.Settings.AhrefsAPIKey,
		BufferAPIKey: snap.Settings.BufferAPIKey,
	}); err != nil {
		return false, fmt.Errorf("import settings: %w", err)
	}
	if err := store.SavePreferences(ctx, storage.Preferences{
		ArticleLength:       snap.Preferences.ArticleLength,
		ArticleStyle:        snap.Preferences.ArticleStyle,
		AutoPublishArticles: snap.Preferences.AutoPublishArticles,
		AutoPublishSocial:   snap.Preferences.AutoPublishSocial,
		DefaultHashtags:     snap.Preferences.DefaultHashtags,
		TargetLanguages:     snap.Preferences.TargetLanguages,
	}); err != nil {
		return false, fmt.Errorf("import preferences: %w", err)
	}
	if err := store.SaveResearchParams(ctx, storage.ResearchParams{
		Topic:    snap.ResearchParams.Topic,
		Focus:    snap.ResearchParams.Focus,
		Keywords: snap.ResearchParams.Keywords,
		Depth:    snap.ResearchParams.Depth,
		GeoFocus: snap.ResearchParams.GeoFocus,
	}); err != nil {
		return false, fmt.Errorf("import research params: %w", err)
	}

	for _, item := range snap.ContentItems {
		if _, err := store.CreateContentItem(ctx, storage.NewContentItem{
			Title:  item.Title,
			Type:   item.Type,
			Body:   item.Body,
			Images: item.Images,
			Status: item.Status,
		}); err != nil {
			return false, fmt.Errorf("import content item %q: %w", item.Title, err)
		}
	}

	for _, config := range snap.DatabaseConfigs {
		if _, err := store.CreateDatabaseConfig(ctx, storage.NewDatabaseConfig{
			Name:   config.Name,
			DSN:    config.DSN,
			Active: config.Active,
			Notes:  config.Notes,
		}); err != nil {
			return false, fmt.Errorf("import database config %q: %w", config.Name, err)
		}
	}

	for _, hash := range snap.ContentHashes {
		_, err := store.CreateContentHash(ctx, storage.NewContentHash{
			Fingerprint: hash.Fingerprint,
			Source:      hash.Source,
			SourceURL:   hash.SourceURL,
			SourceTitle: hash.SourceTitle,
		})
		if err != nil && !errors.Is(err, storage.ErrConflict) {
			return false, fmt.Errorf("import content hash %q: %w", hash.Fingerprint, err)
		}
	}

	for _, rule := range snap.SEORules {
		if _, err := store.CreateSEORule(ctx, storage.NewSEORule{
			Platform:   rule.Platform,
			Name:       rule.Name,
			Rule:       rule.Rule,
			Importance: rule.Importance,
			Category:   rule.Category,
			Active:     rule.Active,
		}); err != nil {
			return false, fmt.Errorf("import seo rule %q: %w", rule.Name, err)
		}
	}

	return true, nil
}
