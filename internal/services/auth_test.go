package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/vidup/internal/models"
	"github.com/desertthunder/vidup/internal/shared"
	tu "github.com/desertthunder/vidup/internal/testing"
)

func jsonHandler(t *testing.T, method, path string, status int, body any) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			t.Errorf("expected %s method, got %s", method, r.Method)
		}
		if r.URL.Path != path {
			t.Errorf("expected path %s, got %s", path, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}
}

func TestAuthService(t *testing.T) {
	ctx := context.Background()

	t.Run("Login", func(t *testing.T) {
		t.Run("Email Identifier", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var body map[string]string
				json.NewDecoder(r.Body).Decode(&body)
				if body["email"] != "a@x.io" || body["password"] != "pw" {
					t.Errorf("unexpected login body %v", body)
				}
				if _, ok := body["username"]; ok {
					t.Error("username should not be sent for email identifiers")
				}
				jsonHandler(t, http.MethodPost, "/login", http.StatusOK, map[string]any{
					"user": tu.UserFixture(1), "token": "abc",
				})(w, r)
			}))
			defer server.Close()

			svc := NewAuthService(newTestGateway(server.URL, tu.NewMemoryTokenStore("")))
			resp, err := svc.Login(ctx, models.LoginCredentials{Identifier: "a@x.io", Password: "pw"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.User.ID != 1 || resp.Token != "abc" {
				t.Errorf("unexpected response %+v", resp)
			}
		})

		t.Run("Username Identifier", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var body map[string]string
				json.NewDecoder(r.Body).Decode(&body)
				if body["username"] != "alice" {
					t.Errorf("expected username alice, got %v", body)
				}
				jsonHandler(t, http.MethodPost, "/login", http.StatusOK, map[string]any{
					"user": tu.UserFixture(1), "token": "abc",
				})(w, r)
			}))
			defer server.Close()

			svc := NewAuthService(newTestGateway(server.URL, tu.NewMemoryTokenStore("")))
			if _, err := svc.Login(ctx, models.LoginCredentials{Identifier: "alice", Password: "pw"}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})

		t.Run("Missing Token", func(t *testing.T) {
			server := httptest.NewServer(jsonHandler(t, http.MethodPost, "/login", http.StatusOK, map[string]any{
				"user": tu.UserFixture(1),
			}))
			defer server.Close()

			svc := NewAuthService(newTestGateway(server.URL, tu.NewMemoryTokenStore("")))
			_, err := svc.Login(ctx, models.LoginCredentials{Identifier: "alice", Password: "pw"})
			if !errors.Is(err, shared.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", err)
			}
		})

		t.Run("Bad Credentials", func(t *testing.T) {
			server := httptest.NewServer(jsonHandler(t, http.MethodPost, "/login", http.StatusUnauthorized, map[string]any{
				"message": "Invalid credentials",
			}))
			defer server.Close()

			svc := NewAuthService(newTestGateway(server.URL, tu.NewMemoryTokenStore("")))
			_, err := svc.Login(ctx, models.LoginCredentials{Identifier: "alice", Password: "bad"})
			if err == nil || err.Error() != "Invalid credentials" {
				t.Errorf("expected server message, got %v", err)
			}
		})

		t.Run("Bad Credentials Keep Existing Session", func(t *testing.T) {
			server := httptest.NewServer(jsonHandler(t, http.MethodPost, "/login", http.StatusUnauthorized, map[string]any{
				"message": "Invalid credentials",
			}))
			defer server.Close()

			store := tu.NewMemoryTokenStore("live-token")
			gw := newTestGateway(server.URL, store)
			events := 0
			gw.Subscribe(func(SessionInvalidated) { events++ })

			_, err := NewAuthService(gw).Login(ctx, models.LoginCredentials{Identifier: "alice", Password: "bad"})
			if err == nil || err.Error() != "Invalid credentials" {
				t.Errorf("expected server message, got %v", err)
			}
			if store.Token() != "live-token" || store.Clears() != 0 {
				t.Errorf("failed login must not touch the stored token, got %q (%d clears)", store.Token(), store.Clears())
			}
			if events != 0 {
				t.Errorf("expected no session invalidated events, got %d", events)
			}
		})
	})

	t.Run("Register", func(t *testing.T) {
		t.Run("Session", func(t *testing.T) {
			server := httptest.NewServer(jsonHandler(t, http.MethodPost, "/register", http.StatusCreated, map[string]any{
				"user": tu.UserFixture(2), "token": "tok",
			}))
			defer server.Close()

			svc := NewAuthService(newTestGateway(server.URL, tu.NewMemoryTokenStore("")))
			resp, err := svc.Register(ctx, models.Registration{Name: "n", Username: "u", Email: "e@x.io", Password: "p", PasswordConfirmation: "p"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !resp.Authenticated() {
				t.Error("expected authenticated response")
			}
		})

		t.Run("Message Only", func(t *testing.T) {
			server := httptest.NewServer(jsonHandler(t, http.MethodPost, "/register", http.StatusOK, map[string]any{
				"message": "Check your email",
			}))
			defer server.Close()

			svc := NewAuthService(newTestGateway(server.URL, tu.NewMemoryTokenStore("")))
			resp, err := svc.Register(ctx, models.Registration{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.Authenticated() || resp.Message != "Check your email" {
				t.Errorf("unexpected response %+v", resp)
			}
		})

		t.Run("Empty Response", func(t *testing.T) {
			server := httptest.NewServer(jsonHandler(t, http.MethodPost, "/register", http.StatusOK, map[string]any{}))
			defer server.Close()

			svc := NewAuthService(newTestGateway(server.URL, tu.NewMemoryTokenStore("")))
			if _, err := svc.Register(ctx, models.Registration{}); !errors.Is(err, shared.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", err)
			}
		})
	})

	t.Run("Logout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/logout" {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		svc := NewAuthService(newTestGateway(server.URL, tu.NewMemoryTokenStore("abc")))
		if err := svc.Logout(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("CurrentUser", func(t *testing.T) {
		t.Run("Valid", func(t *testing.T) {
			server := httptest.NewServer(jsonHandler(t, http.MethodGet, "/user", http.StatusOK, tu.ConnectedUserFixture(1, "Chan")))
			defer server.Close()

			svc := NewAuthService(newTestGateway(server.URL, tu.NewMemoryTokenStore("abc")))
			user, err := svc.CurrentUser(ctx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user.ChannelName() != "Chan" {
				t.Errorf("expected channel Chan, got %q", user.ChannelName())
			}
		})

		t.Run("Malformed", func(t *testing.T) {
			server := httptest.NewServer(jsonHandler(t, http.MethodGet, "/user", http.StatusOK, map[string]any{"name": "no id"}))
			defer server.Close()

			svc := NewAuthService(newTestGateway(server.URL, tu.NewMemoryTokenStore("abc")))
			if _, err := svc.CurrentUser(ctx); !errors.Is(err, shared.ErrInvalidSession) {
				t.Errorf("expected ErrInvalidSession, got %v", err)
			}
		})

		t.Run("Empty", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			}))
			defer server.Close()

			svc := NewAuthService(newTestGateway(server.URL, tu.NewMemoryTokenStore("abc")))
			if _, err := svc.CurrentUser(ctx); !errors.Is(err, shared.ErrInvalidSession) {
				t.Errorf("expected ErrInvalidSession, got %v", err)
			}
		})
	})
}
