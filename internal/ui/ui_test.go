package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidup/internal/models"
	"github.com/desertthunder/vidup/internal/services"
	"github.com/desertthunder/vidup/internal/shared"
	"github.com/desertthunder/vidup/internal/tasks"
	tu "github.com/desertthunder/vidup/internal/testing"
)

type fakeClient struct {
	mu       sync.Mutex
	pages    map[int]*models.VideoPage
	listErr  error
	initErr  error
	initiate int
}

func (f *fakeClient) List(_ context.Context, page int) (*models.VideoPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	p, ok := f.pages[page]
	if !ok {
		return nil, fmt.Errorf("no page %d", page)
	}
	return p, nil
}

func (f *fakeClient) InitiateYouTubeUpload(_ context.Context, id string) (*models.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initiate++
	if f.initErr != nil {
		return nil, f.initErr
	}
	v := tu.VideoFixture(id, models.Uploading)
	return &v, nil
}

type fakeSession struct {
	user     *models.User
	listener func(services.SessionInvalidated)
}

func (s *fakeSession) User() *models.User { return s.user }

func (s *fakeSession) OnInvalidated(fn func(services.SessionInvalidated)) func() {
	s.listener = fn
	return func() { s.listener = nil }
}

func newTestModel(t *testing.T, client *fakeClient) (*Model, *fakeSession) {
	t.Helper()
	sess := &fakeSession{user: tu.ConnectedUserFixture(1, "My Channel")}
	logger := log.New(io.Discard)
	m := NewModel(context.Background(), sess, tasks.NewListController(client), tasks.NewTracker(client, logger), time.Second)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	t.Cleanup(m.Close)
	return m, sess
}

func twoPages() *fakeClient {
	return &fakeClient{pages: map[int]*models.VideoPage{
		1: tu.PageFixture(1, 2, tu.VideoFixture("a", models.NotUploaded), tu.VideoFixture("b", models.Uploaded)),
		2: tu.PageFixture(2, 2, tu.VideoFixture("c", models.Failed)),
	}}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// exec runs cmd and feeds its message back into the model.
func exec(t *testing.T, m *Model, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	_, next := m.Update(cmd())
	return next
}

func TestModel(t *testing.T) {
	t.Run("Starts Loading", func(t *testing.T) {
		m, _ := newTestModel(t, twoPages())
		if m.view != LoadingView {
			t.Errorf("expected LoadingView, got %v", m.view)
		}
		if !strings.Contains(m.View(), "Loading videos") {
			t.Errorf("unexpected view: %q", m.View())
		}
	})

	t.Run("Page Load Shows Dashboard", func(t *testing.T) {
		m, _ := newTestModel(t, twoPages())
		exec(t, m, m.refresh())

		if m.view != DashboardView {
			t.Fatalf("expected DashboardView, got %v", m.view)
		}
		if got := len(m.list.Items()); got != 2 {
			t.Errorf("expected 2 items, got %d", got)
		}

		view := m.View()
		for _, want := range []string{"Signed in as", "YouTube: My Channel", "Page 1 of 2"} {
			if !strings.Contains(view, want) {
				t.Errorf("view missing %q", want)
			}
		}
	})

	t.Run("Next Page", func(t *testing.T) {
		m, _ := newTestModel(t, twoPages())
		exec(t, m, m.refresh())

		_, cmd := m.Update(runes("l"))
		exec(t, m, cmd)

		if m.videos.CurrentPage() != 2 {
			t.Errorf("expected page 2, got %d", m.videos.CurrentPage())
		}
		item := m.list.Items()[0].(videoItem)
		if item.video.ID != "c" {
			t.Errorf("expected video c, got %s", item.video.ID)
		}
	})

	t.Run("Next Past Last Page", func(t *testing.T) {
		m, _ := newTestModel(t, twoPages())
		exec(t, m, m.refresh())
		_, cmd := m.Update(runes("l"))
		exec(t, m, cmd)

		_, cmd = m.Update(runes("l"))
		exec(t, m, cmd)

		if m.videos.CurrentPage() != 2 {
			t.Errorf("expected to stay on page 2, got %d", m.videos.CurrentPage())
		}
		if !strings.Contains(m.status, "No more pages") {
			t.Errorf("unexpected status: %q", m.status)
		}
	})

	t.Run("Publish Selected", func(t *testing.T) {
		client := twoPages()
		m, _ := newTestModel(t, client)
		exec(t, m, m.refresh())

		_, cmd := m.Update(runes("p"))
		if !m.publishing["a"] {
			t.Error("expected video a to be marked as publishing")
		}
		next := exec(t, m, cmd)

		v, ok := m.videos.Find("a")
		if !ok || v.Status != models.Uploading {
			t.Errorf("expected a to be uploading, got %+v", v)
		}
		if m.publishing["a"] {
			t.Error("expected publishing mark to be cleared")
		}
		if !strings.Contains(m.status, "Publishing") {
			t.Errorf("unexpected status: %q", m.status)
		}
		if next == nil {
			t.Error("expected a poll tick while uploads are in flight")
		}
		if client.initiate != 1 {
			t.Errorf("expected 1 initiate call, got %d", client.initiate)
		}
	})

	t.Run("Publish Not Publishable", func(t *testing.T) {
		client := twoPages()
		m, _ := newTestModel(t, client)
		exec(t, m, m.refresh())

		m.Update(runes("j"))
		_, cmd := m.Update(runes("p"))
		if cmd != nil {
			t.Error("expected no command for an uploaded video")
		}
		if client.initiate != 0 {
			t.Errorf("expected no initiate call, got %d", client.initiate)
		}
	})

	t.Run("Publish Channel Not Connected", func(t *testing.T) {
		client := twoPages()
		client.initErr = &services.APIError{Status: 400, Endpoint: "/videos/a/initiate-youtube-upload", Message: "YouTube not connected"}
		m, _ := newTestModel(t, client)
		exec(t, m, m.refresh())

		_, cmd := m.Update(runes("p"))
		exec(t, m, cmd)

		if !strings.Contains(m.status, "YouTube account not connected") || !strings.Contains(m.status, "vidup youtube connect") {
			t.Errorf("unexpected status: %q", m.status)
		}
		v, _ := m.videos.Find("a")
		if v.Status != models.NotUploaded {
			t.Errorf("expected local copy untouched, got %s", v.Status)
		}
	})

	t.Run("Load Error", func(t *testing.T) {
		client := twoPages()
		client.listErr = errors.New("boom")
		m, _ := newTestModel(t, client)
		exec(t, m, m.refresh())

		if m.view != ErrorView {
			t.Fatalf("expected ErrorView, got %v", m.view)
		}

		client.listErr = nil
		_, cmd := m.Update(runes("r"))
		exec(t, m, cmd)
		if m.view != DashboardView {
			t.Errorf("expected DashboardView after retry, got %v", m.view)
		}
	})

	t.Run("Load Unauthorized", func(t *testing.T) {
		client := twoPages()
		client.listErr = fmt.Errorf("%w: unauthenticated", shared.ErrNotAuthenticated)
		m, _ := newTestModel(t, client)
		exec(t, m, m.refresh())

		if m.view != ExpiredView {
			t.Errorf("expected ExpiredView, got %v", m.view)
		}
	})

	t.Run("Session Invalidated", func(t *testing.T) {
		m, sess := newTestModel(t, twoPages())
		exec(t, m, m.refresh())

		sess.listener(services.SessionInvalidated{Endpoint: "/videos", Status: 401})
		exec(t, m, m.waitForExpiry())

		if m.view != ExpiredView {
			t.Fatalf("expected ExpiredView, got %v", m.view)
		}
		if !strings.Contains(m.View(), "vidup auth login") {
			t.Errorf("unexpected view: %q", m.View())
		}
	})

	t.Run("Close Unsubscribes", func(t *testing.T) {
		m, sess := newTestModel(t, twoPages())
		m.Close()
		if sess.listener != nil {
			t.Error("expected listener to be removed")
		}
	})

	t.Run("Quit", func(t *testing.T) {
		m, _ := newTestModel(t, twoPages())
		_, cmd := m.Update(runes("q"))
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})
}

func TestVideoItem(t *testing.T) {
	t.Run("Uploaded Shows URL", func(t *testing.T) {
		v := tu.VideoFixture("a", models.Uploaded)
		url := "https://youtube.com/watch?v=abc"
		v.YouTubeURL = &url

		item := videoItem{video: v}
		if !strings.Contains(item.Description(), url) {
			t.Errorf("expected URL in description, got %q", item.Description())
		}
		if item.Title() != "Video a" || item.FilterValue() != "Video a" {
			t.Errorf("unexpected title %q", item.Title())
		}
	})

	t.Run("Publishing", func(t *testing.T) {
		item := videoItem{video: tu.VideoFixture("a", models.NotUploaded), publishing: true}
		if item.Description() != "Starting upload..." {
			t.Errorf("unexpected description %q", item.Description())
		}
	})
}

func TestPaletteBadge(t *testing.T) {
	for _, s := range []models.YTUploadStatus{models.NotUploaded, models.Uploading, models.Uploaded, models.Failed} {
		if got := styles.Badge(s); !strings.Contains(got, s.Label()) {
			t.Errorf("badge for %s = %q", s, got)
		}
	}
}
