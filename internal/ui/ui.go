package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/vidup/internal/formatter"
	"github.com/desertthunder/vidup/internal/models"
	"github.com/desertthunder/vidup/internal/services"
	"github.com/desertthunder/vidup/internal/shared"
	"github.com/desertthunder/vidup/internal/tasks"
)

const refreshing = "Refreshing..."

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	DashboardView
	ErrorView
	ExpiredView
)

// Session is the part of the session manager the dashboard reads.
type Session interface {
	User() *models.User
	OnInvalidated(fn func(services.SessionInvalidated)) func()
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	session      Session
	videos       *tasks.ListController
	tracker      *tasks.Tracker
	pollInterval time.Duration
	polling      bool
	width        int
	height       int
	list         list.Model
	spinner      spinner.Model
	help         help.Model
	keys         keyMap
	publishing   map[string]bool
	status       string
	err          error
	events       chan services.SessionInvalidated
	unsubscribe  func()
}

// NewModel creates a new TUI model with the provided dependencies.
//
// The model subscribes to session invalidation immediately; call [Model.Close] once the program exits.
func NewModel(ctx context.Context, sess Session, videos *tasks.ListController, tracker *tasks.Tracker, pollInterval time.Duration) *Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Your Videos"
	l.SetShowHelp(false)
	l.KeyMap.NextPage.SetEnabled(false)
	l.KeyMap.PrevPage.SetEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.title.UnsetMarginBottom()

	m := &Model{
		ctx:          ctx,
		view:         LoadingView,
		session:      sess,
		videos:       videos,
		tracker:      tracker,
		pollInterval: pollInterval,
		list:         l,
		spinner:      s,
		help:         help.New(),
		keys:         newKeyMap(),
		publishing:   make(map[string]bool),
		events:       make(chan services.SessionInvalidated, 1),
	}

	m.unsubscribe = sess.OnInvalidated(func(ev services.SessionInvalidated) {
		select {
		case m.events <- ev:
		default:
		}
	})
	return m
}

// Close removes the session listener.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Init loads the current page and starts listening for session expiry.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refresh(), m.waitForExpiry())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		return m.handleMsg(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LoadingView:
		return fmt.Sprintf("\n  %s Loading videos...\n", m.spinner.View())
	case ErrorView:
		return m.renderError()
	case ExpiredView:
		return m.renderExpired()
	case DashboardView:
		return m.renderDashboard()
	default:
		return ""
	}
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.view == DashboardView && m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	if key.Matches(msg, m.keys.quit) {
		return m, tea.Quit
	}

	switch m.view {
	case ErrorView:
		if key.Matches(msg, m.keys.refresh) {
			m.view = LoadingView
			m.err = nil
			return m, m.refresh()
		}
		return m, nil
	case DashboardView:
	default:
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.next):
		return m, m.changePage(1)
	case key.Matches(msg, m.keys.prev):
		return m, m.changePage(-1)
	case key.Matches(msg, m.keys.refresh):
		m.setStatus(styles.help, refreshing)
		return m, m.refresh()
	case key.Matches(msg, m.keys.publish):
		return m, m.publishSelected()
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgPageLoaded:
		data := msg.data.(pageLoaded)
		return m, m.pageLoaded(data)

	case MsgPublished:
		data := msg.data.(published)
		return m, m.published(data)

	case MsgSessionExpired:
		m.view = ExpiredView
		return m, nil

	case MsgPollTick:
		m.polling = false
		if m.view == DashboardView && m.uploading() > 0 {
			return m, m.refresh()
		}
	}
	return m, nil
}

func (m *Model) pageLoaded(data pageLoaded) tea.Cmd {
	if data.err != nil {
		switch {
		case errors.Is(data.err, shared.ErrNotAuthenticated):
			m.view = ExpiredView
		case !m.videos.Loaded():
			m.view = ErrorView
			m.err = data.err
		default:
			m.setStatus(styles.err, fmt.Sprintf("Could not load videos: %v", data.err))
		}
		return nil
	}

	m.view = DashboardView
	m.syncItems()
	switch {
	case !data.changed:
		m.setStatus(styles.help, "No more pages.")
	case m.status == styles.help.Render(refreshing):
		m.status = ""
	}
	return m.schedulePoll()
}

func (m *Model) published(data published) tea.Cmd {
	delete(m.publishing, data.id)

	if data.err != nil {
		var uploadErr *tasks.UploadError
		switch {
		case errors.Is(data.err, shared.ErrNotAuthenticated):
			m.view = ExpiredView
			return nil
		case errors.Is(data.err, shared.ErrInvalidTransition):
			m.setStatus(styles.warn, "That video is already on its way to YouTube.")
		case tasks.IsChannelNotConnected(data.err) && errors.As(data.err, &uploadErr):
			m.setStatus(styles.err, uploadErr.Message+" Run `vidup youtube connect`.")
		case errors.As(data.err, &uploadErr):
			m.setStatus(styles.err, uploadErr.Message)
		default:
			m.setStatus(styles.err, data.err.Error())
		}
		m.syncItems()
		return nil
	}

	m.videos.Apply(*data.video)
	m.syncItems()
	m.setStatus(styles.ok, fmt.Sprintf("Publishing %q to YouTube.", data.video.Title))
	return m.schedulePoll()
}

func (m *Model) publishSelected() tea.Cmd {
	item, ok := m.list.SelectedItem().(videoItem)
	if !ok {
		return nil
	}
	if m.publishing[item.video.ID] {
		return nil
	}
	if !item.video.Publishable() {
		m.setStatus(styles.warn, fmt.Sprintf("%q is %s.", item.video.Title, strings.ToLower(item.video.Status.Label())))
		return nil
	}

	m.publishing[item.video.ID] = true
	m.syncItems()
	return m.publish(item.video)
}

func (m *Model) syncItems() {
	m.list.SetItems(videoItems(m.videos.Videos(), m.publishing))
}

func (m *Model) setStatus(style lipgloss.Style, text string) {
	m.status = style.Render(text)
}

func (m *Model) uploading() int {
	return tasks.CountStatus(m.videos.Videos(), models.Uploading)
}

func (m *Model) refresh() tea.Cmd {
	return func() tea.Msg {
		return pageLoadedMsg(true, m.videos.Refresh(m.ctx))
	}
}

func (m *Model) changePage(delta int) tea.Cmd {
	return func() tea.Msg {
		var changed bool
		var err error
		if delta > 0 {
			changed, err = m.videos.Next(m.ctx)
		} else {
			changed, err = m.videos.Prev(m.ctx)
		}
		return pageLoadedMsg(changed, err)
	}
}

func (m *Model) publish(v models.Video) tea.Cmd {
	return func() tea.Msg {
		got, err := m.tracker.Initiate(m.ctx, v)
		return publishedMsg(v.ID, got, err)
	}
}

func (m *Model) waitForExpiry() tea.Cmd {
	return func() tea.Msg {
		select {
		case ev := <-m.events:
			return sessionExpiredMsg(ev)
		case <-m.ctx.Done():
			return nil
		}
	}
}

// schedulePoll arms a single refresh tick while any held video is still uploading.
func (m *Model) schedulePoll() tea.Cmd {
	if m.polling || m.pollInterval <= 0 || m.uploading() == 0 {
		return nil
	}
	m.polling = true
	return tea.Tick(m.pollInterval, func(time.Time) tea.Msg { return pollTickMsg() })
}

func (m *Model) renderHeader() string {
	user := m.session.User()
	if user == nil {
		return styles.title.Render("vidup")
	}

	yt := styles.warn.Render("YouTube not connected")
	if user.IsYouTubeConnected {
		name := user.ChannelName()
		if name == "" {
			name = "N/A"
		}
		yt = styles.ok.Render("YouTube: " + name)
	}
	return styles.title.Render(fmt.Sprintf("Signed in as %s", user.Name)) + "\n" + yt
}

func (m *Model) renderCounts() string {
	videos := m.videos.Videos()
	parts := make([]string, 0, 4)
	for _, s := range []models.YTUploadStatus{models.NotUploaded, models.Uploading, models.Uploaded, models.Failed} {
		if n := tasks.CountStatus(videos, s); n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", styles.Badge(s), n))
		}
	}
	return strings.Join(parts, "  ")
}

func (m *Model) renderDashboard() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if len(m.list.Items()) == 0 {
		b.WriteString(styles.help.Render("No videos uploaded yet."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.list.View())
		b.WriteString("\n")
	}

	b.WriteString(formatter.PageFooter(m.videos.Meta()))
	if counts := m.renderCounts(); counts != "" {
		b.WriteString("  ")
		b.WriteString(counts)
	}
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderError() string {
	helpKeys := []key.Binding{m.keys.refresh, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s",
		styles.err.Render(fmt.Sprintf("Error: %v", m.err)),
		m.help.ShortHelpView(helpKeys),
	)
}

func (m *Model) renderExpired() string {
	title := styles.title.Render("Session expired")
	info := "Your session has expired. Run `vidup auth login` to sign in again."
	helpKeys := []key.Binding{m.keys.quit}
	return fmt.Sprintf("%s\n%s\n\n%s", title, styles.warn.Render(info), m.help.ShortHelpView(helpKeys))
}
