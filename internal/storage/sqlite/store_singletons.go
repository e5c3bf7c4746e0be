package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/freightpress/freightpress/internal/storage"
)

// Settings returns the live credential singleton. Read faults degrade to
// the seeded defaults.
func (s *Store) Settings(ctx context.Context) (storage.Settings, error) {
	if err := ctx.Err(); err != nil {
		return storage.Settings{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Settings{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT openai_api_key, deepl_api_key, pexels_api_key, ahrefs_api_key, buffer_api_key, updated_at
FROM settings
WHERE id = 1
`)
	var settings storage.Settings
	var updatedAt int64
	if err := row.Scan(
		&settings.OpenAIAPIKey,
		&settings.DeepLAPIKey,
		&settings.PexelsAPIKey,
		&settings.AhrefsAPIKey,
		&settings.BufferAPIKey,
		&updatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.DefaultSettings(), nil
		}
		return storage.DefaultSettings(), readFailure("get settings", err)
	}
	settings.UpdatedAt = fromMillis(updatedAt)
	return settings, nil
}

// SaveSettings replaces the credential singleton wholesale.
func (s *Store) SaveSettings(ctx context.Context, settings storage.Settings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	settings = storage.NormalizeSettings(settings)

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO settings (id, openai_api_key, deepl_api_key, pexels_api_key, ahrefs_api_key, buffer_api_key, updated_at)
VALUES (1, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	openai_api_key = excluded.openai_api_key,
	deepl_api_key = excluded.deepl_api_key,
	pexels_api_key = excluded.pexels_api_key,
	ahrefs_api_key = excluded.ahrefs_api_key,
	buffer_api_key = excluded.buffer_api_key,
	updated_at = excluded.updated_at
`,
		settings.OpenAIAPIKey,
		settings.DeepLAPIKey,
		settings.PexelsAPIKey,
		settings.AhrefsAPIKey,
		settings.BufferAPIKey,
		toMillis(time.Now().UTC()),
	)
	if err != nil {
		return writeFailure("save settings", err)
	}
	return nil
}

// Preferences returns the live generation-preference singleton. Read
// faults degrade to the seeded defaults.
func (s *Store) Preferences(ctx context.Context) (storage.Preferences, error) {
	if err := ctx.Err(); err != nil {
		return storage.Preferences{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Preferences{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT article_length, article_style, auto_publish_articles, auto_publish_social, default_hashtags, target_languages, updated_at
FROM preferences
WHERE id = 1
`)
	var prefs storage.Preferences
	var hashtags string
	var languages string
	var updatedAt int64
	if err := row.Scan(
		&prefs.ArticleLength,
		&prefs.ArticleStyle,
		&prefs.AutoPublishArticles,
		&prefs.AutoPublishSocial,
		&hashtags,
		&languages,
		&updatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.DefaultPreferences(), nil
		}
		return storage.DefaultPreferences(), readFailure("get preferences", err)
	}
	decodedHashtags, err := decodeStringList(hashtags)
	if err != nil {
		return storage.DefaultPreferences(), readFailure("decode preference hashtags", err)
	}
	decodedLanguages, err := decodeStringList(languages)
	if err != nil {
		return storage.DefaultPreferences(), readFailure("decode preference languages", err)
	}
	prefs.DefaultHashtags = decodedHashtags
	prefs.TargetLanguages = decodedLanguages
	prefs.UpdatedAt = fromMillis(updatedAt)
	return prefs, nil
}

// SavePreferences replaces the generation-preference singleton wholesale.
func (s *Store) SavePreferences(ctx context.Context, prefs storage.Preferences) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	prefs, err := storage.NormalizePreferences(prefs)
	if err != nil {
		return err
	}
	hashtags, err := encodeStringList(prefs.DefaultHashtags)
	if err != nil {
		return err
	}
	languages, err := encodeStringList(prefs.TargetLanguages)
	if err != nil {
		return err
	}

	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO preferences (id, article_length, article_style, auto_publish_articles, auto_publish_social, default_hashtags, target_languages, updated_at)
VALUES (1, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	article_length = excluded.article_length,
	article_style = excluded.article_style,
	auto_publish_articles = excluded.auto_publish_articles,
	auto_publish_social = excluded.auto_publish_social,
	default_hashtags = excluded.default_hashtags,
	target_languages = excluded.target_languages,
	updated_at = excluded.updated_at
`,
		prefs.ArticleLength,
		prefs.ArticleStyle,
		prefs.AutoPublishArticles,
		prefs.AutoPublishSocial,
		hashtags,
		languages,
		toMillis(time.Now().UTC()),
	)
	if err != nil {
		return writeFailure("save preferences", err)
	}
	return nil
}

// ResearchParams returns the live research-parameter singleton. Read
// faults degrade to the seeded defaults.
func (s *Store) ResearchParams(ctx context.Context) (storage.ResearchParams, error) {
	if err := ctx.Err(); err != nil {
		return storage.ResearchParams{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.ResearchParams{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT topic, focus, keywords, depth, geo_focus, updated_at
FROM research_params
WHERE id = 1
`)
	var params storage.ResearchParams
	var keywords string
	var updatedAt int64
	if err := row.Scan(
		&params.Topic,
		&params.Focus,
		&keywords,
		&params.Depth,
		&params.GeoFocus,
		&updatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.DefaultResearchParams(), nil
		}
		return storage.DefaultResearchParams(), readFailure("get research params", err)
	}
	decodedKeywords, err := decodeStringList(keywords)
	if err != nil {
		return storage.DefaultResearchParams(), readFailure("decode research keywords", err)
	}
	params.Keywords = decodedKeywords
	params.UpdatedAt = fromMillis(updatedAt)
	return params, nil
}

// SaveResearchParams replaces the research-parameter singleton wholesale.
func (s *Store) SaveResearchParams(ctx context.Context, params storage.ResearchParams) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	params, err := storage.NormalizeResearchParams(params)
	if err != nil {
		return err
	}
	keywords, err := encodeStringList(params.Keywords)
	if err != nil {
		return err
	}

	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO research_params (id, topic, focus, keywords, depth, geo_focus, updated_at)
VALUES (1, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	topic = excluded.topic,
	focus = excluded.focus,
	keywords = excluded.keywords,
	depth = excluded.depth,
	geo_focus = excluded.geo_focus,
	updated_at = excluded.updated_at
`,
		params.Topic,
		params.Focus,
		keywords,
		params.Depth,
		params.GeoFocus,
		toMillis(time.Now().UTC()),
	)
	if err != nil {
		return writeFailure("save research params", err)
	}
	return nil
}
