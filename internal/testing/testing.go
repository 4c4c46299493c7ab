// Package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/vidup/internal/models"
)

// MemoryTokenStore is an in-memory [services.TokenStore].
type MemoryTokenStore struct {
	mu     sync.Mutex
	token  string
	clears int

	// GetErr, SetErr and ClearErr are returned by the matching methods when set.
	GetErr   error
	SetErr   error
	ClearErr error
}

func NewMemoryTokenStore(token string) *MemoryTokenStore {
	return &MemoryTokenStore{token: token}
}

func (m *MemoryTokenStore) Get(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return "", m.GetErr
	}
	return m.token, nil
}

func (m *MemoryTokenStore) Set(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.token = token
	return nil
}

func (m *MemoryTokenStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.token = ""
	m.clears++
	return nil
}

// Token returns the stored token without going through the interface.
func (m *MemoryTokenStore) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Clears counts successful Clear calls.
func (m *MemoryTokenStore) Clears() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clears
}

// UserFixture returns a valid user with the given id.
func UserFixture(id int64) *models.User {
	return &models.User{
		ID:        id,
		Name:      "Test User",
		Username:  fmt.Sprintf("user%d", id),
		Email:     fmt.Sprintf("user%d@example.com", id),
		CreatedAt: "2025-01-01T00:00:00.000000Z",
		UpdatedAt: "2025-01-01T00:00:00.000000Z",
	}
}

// ConnectedUserFixture returns a valid user with a linked channel.
func ConnectedUserFixture(id int64, channel string) *models.User {
	u := UserFixture(id)
	u.IsYouTubeConnected = true
	u.YouTubeChannelName = &channel
	return u
}

// VideoFixture returns a video with the given id and status.
func VideoFixture(id string, status models.YTUploadStatus) models.Video {
	return models.Video{
		ID:               id,
		UserID:           1,
		Title:            "Video " + id,
		OriginalFileName: id + ".mp4",
		FilePath:         "videos/" + id + ".mp4",
		Status:           status,
		UploadedAtApp:    "2025-01-01T00:00:00.000000Z",
		CreatedAt:        "2025-01-01T00:00:00.000000Z",
		UpdatedAt:        "2025-01-01T00:00:00.000000Z",
	}
}

// PageFixture wraps videos in a page with the given position.
func PageFixture(current, last int, videos ...models.Video) *models.VideoPage {
	return &models.VideoPage{
		Data: videos,
		Meta: models.PageMeta{
			CurrentPage: current,
			LastPage:    last,
			Path:        "http://yt.lc/api/videos",
			PerPage:     10,
			Total:       last * 10,
		},
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
