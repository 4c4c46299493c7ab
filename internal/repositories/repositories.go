package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/vidup/internal/shared"
)

// Credential is a single row of the credentials table.
type Credential struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// CredentialRepository reads and writes key/value rows in the credentials table.
type CredentialRepository struct {
	db *sql.DB
}

// NewCredentialRepository creates a new [CredentialRepository] with the given database connection
func NewCredentialRepository(db *sql.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// Get returns the row stored under key, or [sql.ErrNoRows] wrapped when absent.
func (r *CredentialRepository) Get(ctx context.Context, key string) (*Credential, error) {
	query := `SELECT key, value, updated_at FROM credentials WHERE key = ?`

	var c Credential
	err := r.db.QueryRowContext(ctx, query, key).Scan(&c.Key, &c.Value, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("credential not found: %s: %w", key, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query credential: %v", shared.ErrTokenStore, err)
	}

	return &c, nil
}

// Put inserts or replaces the value stored under key.
func (r *CredentialRepository) Put(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO credentials (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("%w: failed to store credential: %v", shared.ErrTokenStore, err)
	}
	return nil
}

// Delete removes the row stored under key. Deleting a missing key is not an error.
func (r *CredentialRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM credentials WHERE key = ?`, key); err != nil {
		return fmt.Errorf("%w: failed to delete credential: %v", shared.ErrTokenStore, err)
	}
	return nil
}
