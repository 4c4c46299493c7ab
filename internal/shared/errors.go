package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Session errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrInvalidSession   = fmt.Errorf("invalid session")
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrTokenStore       = fmt.Errorf("token store failure")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrValidation         = fmt.Errorf("validation failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrVideoNotFound      = fmt.Errorf("video not found")

	// Publishing errors
	ErrInvalidTransition   = fmt.Errorf("invalid upload status transition")
	ErrChannelNotConnected = fmt.Errorf("youtube channel not connected")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
