package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/freightpress/freightpress/internal/storage"
)

// DatabaseConfigs lists stored configs in insertion order.
func (s *Store) DatabaseConfigs(ctx context.Context) ([]storage.DatabaseConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, name, dsn, active, notes, created_at, last_used_at
FROM database_configs
ORDER BY id ASC
`)
	if err != nil {
		return nil, readFailure("list database configs", err)
	}
	defer rows.Close()

	var configs []storage.DatabaseConfig
	for rows.Next() {
		config, scanErr := scanDatabaseConfig(rows.Scan)
		if scanErr != nil {
			return nil, readFailure("scan database config row", scanErr)
		}
		configs = append(configs, config)
	}
	if err := rows.Err(); err != nil {
		return nil, readFailure("iterate database config rows", err)
	}
	return configs, nil
}

// ActiveDatabaseConfig loads the at-most-one active config.
func (s *Store) ActiveDatabaseConfig(ctx context.Context) (storage.DatabaseConfig, bool, error) {
	if err := ctx.Err(); err != nil {
		return storage.DatabaseConfig{}, false, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.DatabaseConfig{}, false, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, name, dsn, active, notes, created_at, last_used_at
FROM database_configs
WHERE active = 1
`)
	config, err := scanDatabaseConfig(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.DatabaseConfig{}, false, nil
		}
		return storage.DatabaseConfig{}, false, readFailure("get active database config", err)
	}
	return config, true, nil
}

// CreateDatabaseConfig persists one config, deactivating every other
// config in the same transaction when the new one is requested active.
// Duplicate names fail with ErrConflict.
func (s *Store) CreateDatabaseConfig(ctx context.Context, input storage.NewDatabaseConfig) (storage.DatabaseConfig, error) {
	if err := ctx.Err(); err != nil {
		return storage.DatabaseConfig{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.DatabaseConfig{}, fmt.Errorf("storage is not configured")
	}
	input, err := storage.NormalizeNewDatabaseConfig(input)
	if err != nil {
		return storage.DatabaseConfig{}, err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return storage.DatabaseConfig{}, writeFailure("begin config create", err)
	}
	rollbackWith := func(cause error) error {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("%w: rollback config create: %v", cause, rollbackErr)
		}
		return cause
	}

	// The single-active index requires deactivation before the insert.
	if input.Active {
		if _, err := tx.ExecContext(ctx, `UPDATE database_configs SET active = 0 WHERE active = 1`); err != nil {
			return storage.DatabaseConfig{}, rollbackWith(writeFailure("deactivate database configs", err))
		}
	}

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx, `
INSERT INTO database_configs (name, dsn, active, notes, created_at, last_used_at)
VALUES (?, ?, ?, ?, ?, ?)
`, input.Name, input.DSN, input.Active, input.Notes, toMillis(now), toMillis(now))
	if err != nil {
		return storage.DatabaseConfig{}, rollbackWith(writeFailure("insert database config", err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return storage.DatabaseConfig{}, rollbackWith(writeFailure("read database config id", err))
	}

	if err := tx.Commit(); err != nil {
		return storage.DatabaseConfig{}, writeFailure("commit config create", err)
	}
	return storage.DatabaseConfig{
		ID:         id,
		Name:       input.Name,
		DSN:        input.DSN,
		Active:     input.Active,
		Notes:      input.Notes,
		CreatedAt:  now,
		LastUsedAt: now,
	}, nil
}

// UpdateDatabaseConfig overwrites the patched fields of one config,
// flipping every other config inactive when active is set.
func (s *Store) UpdateDatabaseConfig(ctx context.Context, id int64, patch storage.DatabaseConfigPatch) (storage.DatabaseConfig, bool, error) {
	if err := ctx.Err(); err != nil {
		return storage.DatabaseConfig{}, false, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.DatabaseConfig{}, false, fmt.Errorf("storage is not configured")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return storage.DatabaseConfig{}, false, writeFailure("begin config update", err)
	}
	rollbackWith := func(cause error) error {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("%w: rollback config update: %v", cause, rollbackErr)
		}
		return cause
	}

	existing, found, err := configByIDQuery(ctx, tx, id)
	if err != nil {
		return storage.DatabaseConfig{}, false, rollbackWith(writeFailure("load database config", err))
	}
	if !found {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return storage.DatabaseConfig{}, false, writeFailure("rollback config update", rollbackErr)
		}
		return storage.DatabaseConfig{}, false, nil
	}

	config, err := storage.ApplyDatabaseConfigPatch(existing, patch, time.Now().UTC())
	if err != nil {
		return storage.DatabaseConfig{}, false, rollbackWith(err)
	}

	if config.Active {
		if _, err := tx.ExecContext(ctx, `UPDATE database_configs SET active = 0 WHERE active = 1 AND id != ?`, id); err != nil {
			return storage.DatabaseConfig{}, false, rollbackWith(writeFailure("deactivate database configs", err))
		}
	}

	if _, err := tx.ExecContext(ctx, `
UPDATE database_configs
SET name = ?, dsn = ?, active = ?, notes = ?, last_used_at = ?
WHERE id = ?
`, config.Name, config.DSN, config.Active, config.Notes, toMillis(config.LastUsedAt), id); err != nil {
		return storage.DatabaseConfig{}, false, rollbackWith(writeFailure("update database config", err))
	}

	if err := tx.Commit(); err != nil {
		return storage.DatabaseConfig{}, false, writeFailure("commit config update", err)
	}
	return config, true, nil
}

// ActivateDatabaseConfig marks one config active and the rest inactive.
func (s *Store) ActivateDatabaseConfig(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if s == nil || s.sqlDB == nil {
		return false, fmt.Errorf("storage is not configured")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return false, writeFailure("begin config activate", err)
	}
	rollbackWith := func(cause error) error {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("%w: rollback config activate: %v", cause, rollbackErr)
		}
		return cause
	}

	_, found, err := configByIDQuery(ctx, tx, id)
	if err != nil {
		return false, rollbackWith(writeFailure("load database config", err))
	}
	if !found {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return false, writeFailure("rollback config activate", rollbackErr)
		}
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, `UPDATE database_configs SET active = 0 WHERE active = 1 AND id != ?`, id); err != nil {
		return false, rollbackWith(writeFailure("deactivate database configs", err))
	}
	if _, err := tx.ExecContext(ctx, `
UPDATE database_configs
SET active = 1, last_used_at = ?
WHERE id = ?
`, toMillis(time.Now().UTC()), id); err != nil {
		return false, rollbackWith(writeFailure("activate database config", err))
	}

	if err := tx.Commit(); err != nil {
		return false, writeFailure("commit config activate", err)
	}
	return true, nil
}

// DeleteDatabaseConfig removes one config unless it is active.
func (s *Store) DeleteDatabaseConfig(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if s == nil || s.sqlDB == nil {
		return false, fmt.Errorf("storage is not configured")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return false, writeFailure("begin config delete", err)
	}
	rollbackWith := func(cause error) error {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("%w: rollback config delete: %v", cause, rollbackErr)
		}
		return cause
	}

	existing, found, err := configByIDQuery(ctx, tx, id)
	if err != nil {
		return false, rollbackWith(writeFailure("load database config", err))
	}
	if !found {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return false, writeFailure("rollback config delete", rollbackErr)
		}
		return false, nil
	}
	if existing.Active {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return false, writeFailure("rollback config delete", rollbackErr)
		}
		return false, storage.ErrConflict
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM database_configs WHERE id = ?`, id); err != nil {
		return false, rollbackWith(writeFailure("delete database config", err))
	}

	if err := tx.Commit(); err != nil {
		return false, writeFailure("commit config delete", err)
	}
	return true, nil
}

func configByIDQuery(ctx context.Context, querier sqlQuerier, id int64) (storage.DatabaseConfig, bool, error) {
	row := querier.QueryRowContext(ctx, `
SELECT id, name, dsn, active, notes, created_at, last_used_at
FROM database_configs
WHERE id = ?
`, id)
	config, err := scanDatabaseConfig(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.DatabaseConfig{}, false, nil
		}
		return storage.DatabaseConfig{}, false, err
	}
	return config, true, nil
}

func scanDatabaseConfig(scan scanner) (storage.DatabaseConfig, error) {
	var config storage.DatabaseConfig
	var createdAt int64
	var lastUsedAt int64
	if err := scan(
		&config.ID,
		&config.Name,
		&config.DSN,
		&config.Active,
		&config.Notes,
		&createdAt,
		&lastUsedAt,
	); err != nil {
		return storage.DatabaseConfig{}, err
	}
	config.CreatedAt = fromMillis(createdAt)
	config.LastUsedAt = fromMillis(lastUsedAt)
	return config, nil
}
