package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	// import db drivers
	_ "github.com/lib/pq"
)

type postgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a Store backed by the review_assignees table.
func NewPostgresStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

func (s *postgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT assignees FROM review_assignees WHERE review_key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read record: %w", err)
	}
	return value, true, nil
}

func (s *postgresStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO review_assignees (review_key, assignees, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (review_key) DO UPDATE SET assignees = EXCLUDED.assignees, updated_at = now()`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

// Delete removes a record. Deleting an absent key is a no-op, not an error.
func (s *postgresStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM review_assignees WHERE review_key = $1`, key)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// Update performs an atomic read-modify-write for one key. A transaction-
// scoped advisory lock on the key serializes concurrent updates for the same
// review, including the creation race where no row exists yet and a plain
// SELECT ... FOR UPDATE would lock nothing. Different reviews hash to
// different locks and never conflict.
func (s *postgresStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("failed to lock record: %w", err)
	}

	var current string
	exists := true
	err = tx.QueryRowContext(ctx,
		`SELECT assignees FROM review_assignees WHERE review_key = $1`, key).Scan(&current)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to read record: %w", err)
		}
		exists = false
	}

	next, write, err := fn(current, exists)
	if err != nil {
		return err
	}
	if !write {
		return tx.Commit()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO review_assignees (review_key, assignees, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (review_key) DO UPDATE SET assignees = EXCLUDED.assignees, updated_at = now()`,
		key, next)
	if err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return tx.Commit()
}

func (s *postgresStore) All(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT review_key, assignees FROM review_assignees`)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	records := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return records, nil
}
