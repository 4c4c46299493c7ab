package session

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/vidup/internal/models"
	"github.com/desertthunder/vidup/internal/services"
	"github.com/desertthunder/vidup/internal/shared"
)

// AuthClient is the subset of services.AuthService the manager depends on.
type AuthClient interface {
	CurrentUser(ctx context.Context) (*models.User, error)
	Logout(ctx context.Context) error
}

// EventSource delivers session invalidation events, e.g. services.Gateway.
type EventSource interface {
	Subscribe(fn func(services.SessionInvalidated)) func()
}

// Snapshot is a consistent copy of the session state.
type Snapshot struct {
	User          *models.User
	Loading       bool
	Authenticated bool
}

// Manager holds the current user and token.
type Manager struct {
	store  services.TokenStore
	client AuthClient
	logger *log.Logger

	mu         sync.Mutex
	user       *models.User
	token      string
	loading    bool
	generation uint64
	loggingOut bool

	nextListener int
	listeners    map[int]func(services.SessionInvalidated)
}

// NewManager creates a [Manager] seeded with the persisted token. It starts in the loading state
// until the first [Manager.Restore] or [Manager.FetchUser] settles.
func NewManager(ctx context.Context, store services.TokenStore, client AuthClient, logger *log.Logger) (*Manager, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	token, err := store.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load token: %w", err)
	}

	return &Manager{
		store:     store,
		client:    client,
		logger:    logger,
		token:     token,
		loading:   true,
		listeners: make(map[int]func(services.SessionInvalidated)),
	}, nil
}

// Attach subscribes the manager to src and returns the unsubscribe function.
func (m *Manager) Attach(src EventSource) func() {
	return src.Subscribe(m.HandleSessionInvalidated)
}

// Restore performs the initial load of the user for a persisted token.
func (m *Manager) Restore(ctx context.Context) error {
	return m.FetchUser(ctx, false)
}

// Login persists token and installs user as the current session.
func (m *Manager) Login(ctx context.Context, user *models.User, token string) error {
	if !user.Valid() || token == "" {
		return fmt.Errorf("%w: login requires a user and a token", shared.ErrInvalidSession)
	}

	if err := m.store.Set(ctx, token); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}

	u := *user

	m.mu.Lock()
	defer m.mu.Unlock()

	m.generation++
	m.token = token
	m.user = &u
	m.loading = false

	m.logger.Info("logged in", "user", u.Username)
	return nil
}

// Logout ends the session. The server call is best effort: its failure is logged and local state is cleared regardless.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	token := m.token
	m.loggingOut = true
	m.mu.Unlock()

	if token != "" {
		if err := m.client.Logout(ctx); err != nil {
			m.logger.Warn("logout request failed", "error", err)
		}
	}

	if err := m.store.Clear(ctx); err != nil {
		m.logger.Error("failed to clear token", "error", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.generation++
	m.token = ""
	m.user = nil
	m.loading = false
	m.loggingOut = false
}

// FetchUser loads the user for the current token.
//
// Without a token the user is cleared. With a loaded user and force unset no request is made.
// A failed or malformed fetch clears the session (memory and store) and returns the error.
// Responses overtaken by a newer fetch, login, logout or invalidation are discarded.
func (m *Manager) FetchUser(ctx context.Context, force bool) error {
	m.mu.Lock()
	if m.token == "" {
		m.user = nil
		m.loading = false
		m.mu.Unlock()
		return nil
	}
	if m.user != nil && !force {
		m.loading = false
		m.mu.Unlock()
		return nil
	}

	m.generation++
	gen := m.generation
	m.loading = true
	m.mu.Unlock()

	user, err := m.client.CurrentUser(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() {
		if gen == m.generation {
			m.loading = false
		}
	}()

	if gen != m.generation {
		m.logger.Debug("discarding stale user fetch", "generation", gen, "current", m.generation)
		return err
	}

	if err == nil && !user.Valid() {
		err = fmt.Errorf("%w: malformed user payload", shared.ErrInvalidSession)
	}

	if err != nil {
		m.logger.Warn("failed to fetch user, clearing session", "error", err)
		m.user = nil
		m.token = ""
		if cerr := m.store.Clear(ctx); cerr != nil {
			m.logger.Error("failed to clear token", "error", cerr)
		}
		return err
	}

	u := *user
	m.user = &u
	return nil
}

// HandleSessionInvalidated clears the in-memory session and notifies [Manager.OnInvalidated] listeners.
// The gateway has already removed the persisted token.
func (m *Manager) HandleSessionInvalidated(ev services.SessionInvalidated) {
	m.mu.Lock()
	m.generation++
	m.user = nil
	m.token = ""
	m.loading = false
	quiet := m.loggingOut
	fns := m.snapshotListeners()
	m.mu.Unlock()

	if quiet {
		return
	}

	m.logger.Warn("session expired", "endpoint", ev.Endpoint)
	for _, fn := range fns {
		fn(ev)
	}
}

// OnInvalidated registers fn to run after a session is invalidated and returns a function that removes it.
func (m *Manager) OnInvalidated(fn func(services.SessionInvalidated)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextListener
	m.nextListener++
	m.listeners[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

func (m *Manager) snapshotListeners() []func(services.SessionInvalidated) {
	ids := make([]int, 0, len(m.listeners))
	for id := range m.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	fns := make([]func(services.SessionInvalidated), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, m.listeners[id])
	}
	return fns
}

// User returns a copy of the current user, or nil.
func (m *Manager) User() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Token returns the in-memory token.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Loading reports whether a user fetch is outstanding.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Authenticated reports whether a user is loaded.
func (m *Manager) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user != nil
}

// IsYouTubeConnected projects the current user's channel link flag.
func (m *Manager) IsYouTubeConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user != nil && m.user.IsYouTubeConnected
}

// YouTubeChannelName projects the current user's channel name, or "".
func (m *Manager) YouTubeChannelName() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user.ChannelName()
}

// Snapshot returns the session state as one consistent value.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Snapshot{Loading: m.loading, Authenticated: m.user != nil}
	if m.user != nil {
		u := *m.user
		s.User = &u
	}
	return s
}

// RequireUser restores the session and returns the user, or [shared.ErrNotAuthenticated].
func (m *Manager) RequireUser(ctx context.Context) (*models.User, error) {
	if err := m.Restore(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrNotAuthenticated, err)
	}

	user := m.User()
	if user == nil {
		return nil, shared.ErrNotAuthenticated
	}
	return user, nil
}
