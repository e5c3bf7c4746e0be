package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/freightpress/freightpress/internal/storage"
)

// SEORules lists stored rules in insertion order.
func (s *Store) SEORules(ctx context.Context) ([]storage.SEORule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, platform, name, rule, importance, category, active, updated_at
FROM seo_rules
ORDER BY id ASC
`)
	if err != nil {
		return nil, readFailure("list seo rules", err)
	}
	defer rows.Close()
	return collectSEORules(rows)
}

// ActiveSEORules lists active rules for one platform, most important first.
func (s *Store) ActiveSEORules(ctx context.Context, platform storage.Platform) ([]storage.SEORule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, platform, name, rule, importance, category, active, updated_at
FROM seo_rules
WHERE platform = ? AND active = 1
ORDER BY importance DESC, name ASC
`, platform)
	if err != nil {
		return nil, readFailure("list active seo rules", err)
	}
	defer rows.Close()
	return collectSEORules(rows)
}

// CreateSEORule persists one optimization rule.
func (s *Store) CreateSEORule(ctx context.Context, input storage.NewSEORule) (storage.SEORule, error) {
	if err := ctx.Err(); err != nil {
		return storage.SEORule{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.SEORule{}, fmt.Errorf("storage is not configured")
	}
	input, err := storage.NormalizeNewSEORule(input)
	if err != nil {
		return storage.SEORule{}, err
	}

	now := time.Now().UTC()
	result, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO seo_rules (platform, name, rule, importance, category, active, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, input.Platform, input.Name, input.Rule, input.Importance, input.Category, input.Active, toMillis(now))
	if err != nil {
		return storage.SEORule{}, writeFailure("insert seo rule", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return storage.SEORule{}, writeFailure("read seo rule id", err)
	}
	return storage.SEORule{
		ID:         id,
		Platform:   input.Platform,
		Name:       input.Name,
		Rule:       input.Rule,
		Importance: input.Importance,
		Category:   input.Category,
		Active:     input.Active,
		UpdatedAt:  now,
	}, nil
}

// UpdateSEORule overwrites the patched fields of one rule.
func (s *Store) UpdateSEORule(ctx context.Context, id int64, patch storage.SEORulePatch) (storage.SEORule, bool, error) {
	if err := ctx.Err(); err != nil {
		return storage.SEORule{}, false, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.SEORule{}, false, fmt.Errorf("storage is not configured")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return storage.SEORule{}, false, writeFailure("begin seo rule update", err)
	}
	rollbackWith := func(cause error) error {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("%w: rollback seo rule update: %v", cause, rollbackErr)
		}
		return cause
	}

	row := tx.QueryRowContext(ctx, `
SELECT id, platform, name, rule, importance, category, active, updated_at
FROM seo_rules
WHERE id = ?
`, id)
	existing, err := scanSEORule(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				return storage.SEORule{}, false, writeFailure("rollback seo rule update", rollbackErr)
			}
			return storage.SEORule{}, false, nil
		}
		return storage.SEORule{}, false, rollbackWith(writeFailure("load seo rule", err))
	}

	updated, err := storage.ApplySEORulePatch(existing, patch)
	if err != nil {
		return storage.SEORule{}, false, rollbackWith(err)
	}
	updated.UpdatedAt = time.Now().UTC()

	if _, err := tx.ExecContext(ctx, `
UPDATE seo_rules
SET platform = ?, name = ?, rule = ?, importance = ?, category = ?, active = ?, updated_at = ?
WHERE id = ?
`, updated.Platform, updated.Name, updated.Rule, updated.Importance, updated.Category, updated.Active, toMillis(updated.UpdatedAt), id); err != nil {
		return storage.SEORule{}, false, rollbackWith(writeFailure("update seo rule", err))
	}

	if err := tx.Commit(); err != nil {
		return storage.SEORule{}, false, writeFailure("commit seo rule update", err)
	}
	return updated, true, nil
}

// DeleteSEORule removes one rule.
func (s *Store) DeleteSEORule(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if s == nil || s.sqlDB == nil {
		return false, fmt.Errorf("storage is not configured")
	}

	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM seo_rules WHERE id = ?`, id)
	if err != nil {
		return false, writeFailure("delete seo rule", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, writeFailure("delete seo rule rows affected", err)
	}
	return affected > 0, nil
}

func collectSEORules(rows *sql.Rows) ([]storage.SEORule, error) {
	var rules []storage.SEORule
	for rows.Next() {
		rule, err := scanSEORule(rows.Scan)
		if err != nil {
			return nil, readFailure("scan seo rule row", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, readFailure("iterate seo rule rows", err)
	}
	return rules, nil
}

func scanSEORule(scan scanner) (storage.SEORule, error) {
	var rule storage.SEORule
	var updatedAt int64
	if err := scan(
		&rule.ID,
		&rule.Platform,
		&rule.Name,
		&rule.Rule,
		&rule.Importance,
		&rule.Category,
		&rule.Active,
		&updatedAt,
	); err != nil {
		return storage.SEORule{}, err
	}
	rule.UpdatedAt = fromMillis(updatedAt)
	return rule, nil
}
