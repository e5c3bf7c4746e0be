package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/freightpress/freightpress/internal/storage"
)

// ContentItems lists stored content in insertion order.
func (s *Store) ContentItems(ctx context.Context) ([]storage.ContentItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, title, content_type, body, images, status, fingerprint, created_at, published_at
FROM content_items
ORDER BY id ASC
`)
	if err != nil {
		return nil, readFailure("list content items", err)
	}
	defer rows.Close()

	var items []storage.ContentItem
	for rows.Next() {
		item, scanErr := scanContentItem(rows.Scan)
		if scanErr != nil {
			return nil, readFailure("scan content item row", scanErr)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, readFailure("iterate content item rows", err)
	}
	return items, nil
}

// ContentItemByID loads one content item by identity.
func (s *Store) ContentItemByID(ctx context.Context, id int64) (storage.ContentItem, bool, error) {
	if err := ctx.Err(); err != nil {
		return storage.ContentItem{}, false, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.ContentItem{}, false, fmt.Errorf("storage is not configured")
	}
	item, found, err := contentItemByIDQuery(ctx, s.sqlDB, id)
	if err != nil {
		return storage.ContentItem{}, false, readFailure("get content item", err)
	}
	return item, found, nil
}

// CreateContentItem persists one content item, marking the title when its
// fingerprint matches an already-recorded content hash. The item row and
// any new hash row commit in one transaction.
func (s *Store) CreateContentItem(ctx context.Context, input storage.NewContentItem) (storage.ContentItem, error) {
	if err := ctx.Err(); err != nil {
		return storage.ContentItem{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.ContentItem{}, fmt.Errorf("storage is not configured")
	}
	input, err := storage.NormalizeNewContentItem(input)
	if err != nil {
		return storage.ContentItem{}, err
	}

	now := time.Now().UTC()
	fingerprint := storage.Fingerprint(input.Title, input.Body)

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return storage.ContentItem{}, writeFailure("begin content create", err)
	}
	rollbackWith := func(cause error) error {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("%w: rollback content create: %v", cause, rollbackErr)
		}
		return cause
	}

	_, duplicate, err := hashByFingerprintQuery(ctx, tx, fingerprint)
	if err != nil {
		return storage.ContentItem{}, rollbackWith(writeFailure("check content fingerprint", err))
	}

	item := storage.ContentItem{
		Title:       input.Title,
		Type:        input.Type,
		Body:        input.Body,
		Images:      input.Images,
		Status:      input.Status,
		Fingerprint: fingerprint,
		CreatedAt:   now,
	}
	if duplicate {
		item.Title = storage.MarkDuplicateTitle(item.Title)
	}
	if item.Status == storage.ContentStatusPublished {
		publishedAt := now
		item.PublishedAt = &publishedAt
	}

	images, err := encodeStringList(item.Images)
	if err != nil {
		return storage.ContentItem{}, rollbackWith(err)
	}
	var publishedAt sql.NullInt64
	if item.PublishedAt != nil {
		publishedAt = sql.NullInt64{Int64: toMillis(*item.PublishedAt), Valid: true}
	}

	result, err := tx.ExecContext(ctx, `
INSERT INTO content_items (title, content_type, body, images, status, fingerprint, created_at, published_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, item.Title, item.Type, item.Body, images, item.Status, item.Fingerprint, toMillis(item.CreatedAt), publishedAt)
	if err != nil {
		return storage.ContentItem{}, rollbackWith(writeFailure("insert content item", err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return storage.ContentItem{}, rollbackWith(writeFailure("read content item id", err))
	}
	item.ID = id

	if !duplicate {
		if err := insertHashExec(ctx, tx, storage.NewContentHash{
			Fingerprint: fingerprint,
			Source:      string(item.Type),
			SourceTitle: item.Title,
		}, now); err != nil {
			return storage.ContentItem{}, rollbackWith(writeFailure("record content fingerprint", err))
		}
	}

	if err := tx.Commit(); err != nil {
		return storage.ContentItem{}, writeFailure("commit content create", err)
	}
	return item, nil
}

// UpdateContentItem overwrites the patched fields of one content item,
// re-running duplicate detection when title or body changed.
func (s *Store) UpdateContentItem(ctx context.Context, id int64, patch storage.ContentItemPatch) (storage.ContentItem, bool, error) {
	if err := ctx.Err(); err != nil {
		return storage.ContentItem{}, false, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.ContentItem{}, false, fmt.Errorf("storage is not configured")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return storage.ContentItem{}, false, writeFailure("begin content update", err)
	}
	rollbackWith := func(cause error) error {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("%w: rollback content update: %v", cause, rollbackErr)
		}
		return cause
	}

	existing, found, err := contentItemByIDQuery(ctx, tx, id)
	if err != nil {
		return storage.ContentItem{}, false, rollbackWith(writeFailure("load content item", err))
	}
	if !found {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return storage.ContentItem{}, false, writeFailure("rollback content update", rollbackErr)
		}
		return storage.ContentItem{}, false, nil
	}

	updated, err := storage.ApplyContentItemPatch(existing, patch, time.Now().UTC())
	if err != nil {
		return storage.ContentItem{}, false, rollbackWith(err)
	}

	if patch.Title != nil || patch.Body != nil {
		fingerprint := storage.Fingerprint(updated.Title, updated.Body)
		if fingerprint != existing.Fingerprint {
			_, duplicate, dupErr := hashByFingerprintQuery(ctx, tx, fingerprint)
			if dupErr != nil {
				return storage.ContentItem{}, false, rollbackWith(writeFailure("check content fingerprint", dupErr))
			}
			if duplicate {
				// Existing hash row and stored fingerprint stay untouched.
				if patch.Title != nil {
					updated.Title = storage.MarkDuplicateTitle(updated.Title)
				}
			} else {
				updated.Fingerprint = fingerprint
				if err := insertHashExec(ctx, tx, storage.NewContentHash{
					Fingerprint: fingerprint,
					Source:      string(updated.Type),
					SourceTitle: updated.Title,
				}, time.Now().UTC()); err != nil {
					return storage.ContentItem{}, false, rollbackWith(writeFailure("record content fingerprint", err))
				}
			}
		}
	}

	images, err := encodeStringList(updated.Images)
	if err != nil {
		return storage.ContentItem{}, false, rollbackWith(err)
	}
	var publishedAt sql.NullInt64
	if updated.PublishedAt != nil {
		publishedAt = sql.NullInt64{Int64: toMillis(*updated.PublishedAt), Valid: true}
	}

	if _, err := tx.ExecContext(ctx, `
UPDATE content_items
SET title = ?, content_type = ?, body = ?, images = ?, status = ?, fingerprint = ?, published_at = ?
WHERE id = ?
`, updated.Title, updated.Type, updated.Body, images, updated.Status, updated.Fingerprint, publishedAt, id); err != nil {
		return storage.ContentItem{}, false, rollbackWith(writeFailure("update content item", err))
	}

	if err := tx.Commit(); err != nil {
		return storage.ContentItem{}, false, writeFailure("commit content update", err)
	}
	return updated, true, nil
}

// DeleteContentItem removes one content item and its fingerprint row.
func (s *Store) DeleteContentItem(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if s == nil || s.sqlDB == nil {
		return false, fmt.Errorf("storage is not configured")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return false, writeFailure("begin content delete", err)
	}
	rollbackWith := func(cause error) error {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("%w: rollback content delete: %v", cause, rollbackErr)
		}
		return cause
	}

	existing, found, err := contentItemByIDQuery(ctx, tx, id)
	if err != nil {
		return false, rollbackWith(writeFailure("load content item", err))
	}
	if !found {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return false, writeFailure("rollback content delete", rollbackErr)
		}
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM content_items WHERE id = ?`, id); err != nil {
		return false, rollbackWith(writeFailure("delete content item", err))
	}
	if existing.Fingerprint != "" {
		if _, err := tx.ExecContext(ctx, `DELETE FROM content_hashes WHERE fingerprint = ?`, existing.Fingerprint); err != nil {
			return false, rollbackWith(writeFailure("delete content fingerprint", err))
		}
	}

	if err := tx.Commit(); err != nil {
		return false, writeFailure("commit content delete", err)
	}
	return true, nil
}

func contentItemByIDQuery(ctx context.Context, querier sqlQuerier, id int64) (storage.ContentItem, bool, error) {
	row := querier.QueryRowContext(ctx, `
SELECT id, title, content_type, body, images, status, fingerprint, created_at, published_at
FROM content_items
WHERE id = ?
`, id)
	item, err := scanContentItem(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ContentItem{}, false, nil
		}
		return storage.ContentItem{}, false, err
	}
	return item, true, nil
}

func scanContentItem(scan scanner) (storage.ContentItem, error) {
	var item storage.ContentItem
	var images string
	var createdAt int64
	var publishedAt sql.NullInt64
	if err := scan(
		&item.ID,
		&item.Title,
		&item.Type,
		&item.Body,
		&images,
		&item.Status,
		&item.Fingerprint,
		&createdAt,
		&publishedAt,
	); err != nil {
		return storage.ContentItem{}, err
	}
	decoded, err := decodeStringList(images)
	if err != nil {
		return storage.ContentItem{}, err
	}
	item.Images = decoded
	item.CreatedAt = fromMillis(createdAt)
	if publishedAt.Valid {
		value := fromMillis(publishedAt.Int64)
		item.PublishedAt = &value
	}
	return item, nil
}
