package models

import (
	"strings"
)

// User is the account record owned by the session manager.
//
// It is replaced wholesale on every successful login or fetch and cleared on logout.
type User struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	Username           string  `json:"username"`
	Email              string  `json:"email"`
	IsYouTubeConnected bool    `json:"is_youtube_connected"`
	YouTubeChannelName *string `json:"youtube_channel_name,omitempty"`
	CreatedAt          string  `json:"created_at"`
	UpdatedAt          string  `json:"updated_at"`
}

// Valid reports whether u is a well-formed user payload.
func (u *User) Valid() bool {
	return u != nil && u.ID != 0
}

// ChannelName returns the linked channel name or "" when none is linked.
func (u *User) ChannelName() string {
	if u == nil || u.YouTubeChannelName == nil {
		return ""
	}
	return *u.YouTubeChannelName
}

// LoginCredentials holds a login identifier (email or username) and password.
type LoginCredentials struct {
	Identifier string
	Password   string
}

// IsEmail reports whether the identifier should be sent as an email address.
func (c LoginCredentials) IsEmail() bool {
	return strings.Contains(c.Identifier, "@")
}

// Payload builds the request body for POST /login.
func (c LoginCredentials) Payload() map[string]string {
	if c.IsEmail() {
		return map[string]string{"email": c.Identifier, "password": c.Password}
	}
	return map[string]string{"username": c.Identifier, "password": c.Password}
}

// Registration is the request body for POST /register.
type Registration struct {
	Name                 string `json:"name"`
	Username             string `json:"username"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// AuthResponse is returned by /login and /register.
//
// Register may answer with only a message (e.g. pending email verification), in which case User is nil and Token is empty.
type AuthResponse struct {
	User    *User  `json:"user,omitempty"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
}

// Authenticated reports whether the response carries a usable session.
func (r *AuthResponse) Authenticated() bool {
	return r != nil && r.Token != "" && r.User.Valid()
}
