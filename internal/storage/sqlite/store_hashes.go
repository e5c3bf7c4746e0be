package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/freightpress/freightpress/internal/storage"
)

// ContentHashes lists stored fingerprints in insertion order.
func (s *Store) ContentHashes(ctx context.Context) ([]storage.ContentHash, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, fingerprint, source, source_url, source_title, created_at, updated_at
FROM content_hashes
ORDER BY id ASC
`)
	if err != nil {
		return nil, readFailure("list content hashes", err)
	}
	defer rows.Close()

	var hashes []storage.ContentHash
	for rows.Next() {
		hash, scanErr := scanContentHash(rows.Scan)
		if scanErr != nil {
			return nil, readFailure("scan content hash row", scanErr)
		}
		hashes = append(hashes, hash)
	}
	if err := rows.Err(); err != nil {
		return nil, readFailure("iterate content hash rows", err)
	}
	return hashes, nil
}

// ContentHashByFingerprint loads one hash row by fingerprint value.
func (s *Store) ContentHashByFingerprint(ctx context.Context, fingerprint string) (storage.ContentHash, bool, error) {
	if err := ctx.Err(); err != nil {
		return storage.ContentHash{}, false, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.ContentHash{}, false, fmt.Errorf("storage is not configured")
	}
	hash, found, err := hashByFingerprintQuery(ctx, s.sqlDB, fingerprint)
	if err != nil {
		return storage.ContentHash{}, false, readFailure("get content hash", err)
	}
	return hash, found, nil
}

// CreateContentHash persists one fingerprint row. A fingerprint already
// on record fails with ErrConflict.
func (s *Store) CreateContentHash(ctx context.Context, input storage.NewContentHash) (storage.ContentHash, error) {
	if err := ctx.Err(); err != nil {
		return storage.ContentHash{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.ContentHash{}, fmt.Errorf("storage is not configured")
	}
	input, err := storage.NormalizeNewContentHash(input)
	if err != nil {
		return storage.ContentHash{}, err
	}

	now := time.Now().UTC()
	result, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO content_hashes (fingerprint, source, source_url, source_title, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
`, input.Fingerprint, input.Source, input.SourceURL, input.SourceTitle, toMillis(now), toMillis(now))
	if err != nil {
		return storage.ContentHash{}, writeFailure("insert content hash", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return storage.ContentHash{}, writeFailure("read content hash id", err)
	}
	return storage.ContentHash{
		ID:          id,
		Fingerprint: input.Fingerprint,
		Source:      input.Source,
		SourceURL:   input.SourceURL,
		SourceTitle: input.SourceTitle,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// DeleteContentHashByFingerprint removes one fingerprint row.
func (s *Store) DeleteContentHashByFingerprint(ctx context.Context, fingerprint string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if s == nil || s.sqlDB == nil {
		return false, fmt.Errorf("storage is not configured")
	}

	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM content_hashes WHERE fingerprint = ?`, fingerprint)
	if err != nil {
		return false, writeFailure("delete content hash", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, writeFailure("delete content hash rows affected", err)
	}
	return affected > 0, nil
}

func hashByFingerprintQuery(ctx context.Context, querier sqlQuerier, fingerprint string) (storage.ContentHash, bool, error) {
	row := querier.QueryRowContext(ctx, `
SELECT id, fingerprint, source, source_url, source_title, created_at, updated_at
FROM content_hashes
WHERE fingerprint = ?
`, fingerprint)
	hash, err := scanContentHash(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ContentHash{}, false, nil
		}
		return storage.ContentHash{}, false, err
	}
	return hash, true, nil
}

// insertHashExec records one guard-driven fingerprint row. INSERT OR
// IGNORE keeps a concurrent writer of the same fingerprint from failing
// the surrounding transaction.
func insertHashExec(ctx context.Context, execer sqlExecer, input storage.NewContentHash, now time.Time) error {
	_, err := execer.ExecContext(ctx, `
INSERT OR IGNORE INTO content_hashes (fingerprint, source, source_url, source_title, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
`, input.Fingerprint, input.Source, input.SourceURL, input.SourceTitle, toMillis(now), toMillis(now))
	return err
}

func scanContentHash(scan scanner) (storage.ContentHash, error) {
	var hash storage.ContentHash
	var createdAt int64
	var updatedAt int64
	if err := scan(
		&hash.ID,
		&hash.Fingerprint,
		&hash.Source,
		&hash.SourceURL,
		&hash.SourceTitle,
		&createdAt,
		&updatedAt,
	); err != nil {
		return storage.ContentHash{}, err
	}
	hash.CreatedAt = fromMillis(createdAt)
	hash.UpdatedAt = fromMillis(updatedAt)
	return hash, nil
}
