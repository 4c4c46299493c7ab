// Package repositories implements SQLite persistence for the client's local state.
//
// The only durable state the client owns is the bearer credential returned by the API.
// It lives in the credentials key/value table created by the embedded migrations.
//
// Key Implementations:
//   - [CredentialRepository] : key/value rows with upsert semantics
//   - [TokenRepository] : the single bearer token, satisfying services.TokenStore
package repositories
