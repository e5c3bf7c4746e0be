package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/freightpress/freightpress/internal/platform/storage/sqlitemigrate"
	"github.com/freightpress/freightpress/internal/storage"
	"github.com/freightpress/freightpress/internal/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed persistence for the full record catalog.
type Store struct {
	sqlDB *sql.DB
}

var _ storage.Store = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the SQLite store at the provided path, creating the file,
// schema, and seeded singleton rows when missing.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_pragma=foreign_keys(ON)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := ensureForeignKeysEnabled(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	store := &Store{sqlDB: sqlDB}
	if err := store.runMigrations(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	if err := store.seedSingletons(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("seed singletons: %w", err)
	}
	return store, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) runMigrations() error {
	return sqlitemigrate.Apply(s.sqlDB, migrations.FS)
}

func ensureForeignKeysEnabled(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("sqlite db is required")
	}
	var enabled int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled); err != nil {
		return fmt.Errorf("check sqlite foreign key pragma: %w", err)
	}
	if enabled != 1 {
		return fmt.Errorf("sqlite foreign keys are disabled")
	}
	return nil
}

// seedSingletons inserts the default singleton rows. Rows that survived a
// previous run are left untouched.
func (s *Store) seedSingletons() error {
	now := toMillis(time.Now().UTC())

	settings := storage.DefaultSettings()
	if _, err := s.sqlDB.Exec(`
INSERT OR IGNORE INTO settings (id, openai_api_key, deepl_api_key, pexels_api_key, ahrefs_api_key, buffer_api_key, updated_at)
VALUES (1, ?, ?, ?, ?, ?, ?)
`, settings.OpenAIAPIKey, settings.DeepLAPIKey, settings.PexelsAPIKey, settings.AhrefsAPIKey, settings.BufferAPIKey, now); err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}

	prefs := storage.DefaultPreferences()
	hashtags, err := encodeStringList(prefs.DefaultHashtags)
	if err != nil {
		return fmt.Errorf("seed preferences: %w", err)
	}
	languages, err := encodeStringList(prefs.TargetLanguages)
	if err != nil {
		return fmt.Errorf("seed preferences: %w", err)
	}
	if _, err := s.sqlDB.Exec(`
INSERT OR IGNORE INTO preferences (id, article_length, article_style, auto_publish_articles, auto_publish_social, default_hashtags, target_languages, updated_at)
VALUES (1, ?, ?, ?, ?, ?, ?, ?)
`, prefs.ArticleLength, prefs.ArticleStyle, prefs.AutoPublishArticles, prefs.AutoPublishSocial, hashtags, languages, now); err != nil {
		return fmt.Errorf("seed preferences: %w", err)
	}

	params := storage.DefaultResearchParams()
	keywords, err := encodeStringList(params.Keywords)
	if err != nil {
		return fmt.Errorf("seed research params: %w", err)
	}
	if _, err := s.sqlDB.Exec(`
INSERT OR IGNORE INTO research_params (id, topic, focus, keywords, depth, geo_focus, updated_at)
VALUES (1, ?, ?, ?, ?, ?, ?)
`, params.Topic, params.Focus, keywords, params.Depth, params.GeoFocus, now); err != nil {
		return fmt.Errorf("seed research params: %w", err)
	}
	return nil
}

type scanner func(dest ...any) error

type sqlExecer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type sqlQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// readFailure applies the degraded-read policy: context cancellation
// propagates to the caller, every other read fault is logged and absorbed
// so the caller reports an absent result instead of failing.
func readFailure(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	log.Printf("sqlite read failed, returning empty result: %s: %v", op, err)
	return nil
}

// writeFailure classifies write faults: context cancellation propagates,
// uniqueness violations surface as ErrConflict, and everything else is
// reported as ErrUnavailable so raw driver errors never cross the
// storage boundary.
func writeFailure(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if isUniqueConstraintError(err) {
		return storage.ErrConflict
	}
	return fmt.Errorf("%s: %w: %v", op, storage.ErrUnavailable, err)
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	value := strings.ToLower(err.Error())
	return strings.Contains(value, "unique constraint failed")
}

func encodeStringList(values []string) (string, error) {
	if len(values) == 0 {
		return "[]", nil
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("encode string list: %w", err)
	}
	return string(encoded), nil
}

func decodeStringList(encoded string) ([]string, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" || encoded == "[]" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(encoded), &values); err != nil {
		return nil, fmt.Errorf("decode string list: %w", err)
	}
	if len(values) == 0 {
		return nil, nil
	}
	return values, nil
}
