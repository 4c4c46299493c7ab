package repositories

import (
	"context"
	"database/sql"
	"errors"
)

// TokenKey is the credentials row holding the bearer token.
const TokenKey = "auth_token"

// TokenRepository persists the single bearer token.
type TokenRepository struct {
	creds *CredentialRepository
}

// NewTokenRepository creates a new [TokenRepository] with the given database connection
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{creds: NewCredentialRepository(db)}
}

// Get returns the stored token, or "" when none is stored.
func (r *TokenRepository) Get(ctx context.Context) (string, error) {
	c, err := r.creds.Get(ctx, TokenKey)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return c.Value, nil
}

// Set stores token, replacing any previous value. An empty token clears the store.
func (r *TokenRepository) Set(ctx context.Context, token string) error {
	if token == "" {
		return r.Clear(ctx)
	}
	return r.creds.Put(ctx, TokenKey, token)
}

// Clear removes the stored token.
func (r *TokenRepository) Clear(ctx context.Context) error {
	return r.creds.Delete(ctx, TokenKey)
}
