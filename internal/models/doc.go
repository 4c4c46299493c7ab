// Package models defines the domain entities exchanged with the video publishing API.
//
// The package contains three groups of types:
//
// 1. Identity
//   - [User] : account record returned by /user, /login and /register
//   - [LoginCredentials], [Registration], [AuthResponse] : auth request and response payloads
//
// 2. Videos
//   - [Video] : a stored upload with its YouTube publishing state
//   - [YTUploadStatus] : the per-video publishing state machine
//
// 3. Pagination
//   - [VideoPage] : one page of the video collection with [PageLinks] and [PageMeta]
//
// Models are plain JSON DTOs. Nothing here is persisted client-side; the only durable client state
// is the bearer token held by the token store.
package models
