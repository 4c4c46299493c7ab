package services

import (
	"context"
)

// TokenStore persists the single bearer credential.
//
// Get returns "" when no credential is stored.
type TokenStore interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// SessionInvalidated is emitted by [Gateway] when a 401 evicts a stored credential.
type SessionInvalidated struct {
	Endpoint string
	Status   int
}
