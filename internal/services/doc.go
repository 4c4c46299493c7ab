// Package services implements the clients for the video publishing REST API.
//
// # Gateway
//
// [Gateway] is the single point of HTTP contact. Every call reads the bearer credential from a [TokenStore],
// attaches it, and classifies the response:
//   - 204 : [APIResponse.NoContent]
//   - application/json : [APIResponse.IsJSON] with the decoded payload
//   - anything else : raw text
//
// Non-2xx responses become [*APIError], carrying the server message and per-field validation errors.
//
// # Session Eviction
//
// A 401 observed while a credential is stored clears the credential and delivers [SessionInvalidated]
// to every subscriber before the error is returned. With no credential stored, nothing is emitted,
// so a failed login or a burst of 401s produces at most one event.
//
// # Endpoint Clients
//
//   - [AuthService] : /login, /register, /logout, /user
//   - [VideoService] : /videos, /videos/{id}/initiate-youtube-upload
//
// # Error Handling
//
// [*APIError] unwraps to typed errors from the shared package:
//   - [shared.ErrNotAuthenticated] : 401
//   - [shared.ErrValidation] : 422
//   - [shared.ErrAPIRequest] : any other non-2xx status
package services
