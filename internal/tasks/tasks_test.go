package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/vidup/internal/models"
)

// fakeVideoClient serves canned pages and initiate results.
type fakeVideoClient struct {
	mu            sync.Mutex
	pages         map[int]*models.VideoPage
	listErr       error
	listCalls     []int
	onList        func(page int) // runs after the page is copied, outside the lock
	initiate      func(id string) (*models.Video, error)
	initiateCalls []string
}

func newFakeVideoClient() *fakeVideoClient {
	return &fakeVideoClient{pages: make(map[int]*models.VideoPage)}
}

func (f *fakeVideoClient) List(ctx context.Context, page int) (*models.VideoPage, error) {
	f.mu.Lock()
	f.listCalls = append(f.listCalls, page)
	if f.listErr != nil {
		f.mu.Unlock()
		return nil, f.listErr
	}
	p, ok := f.pages[page]
	if !ok {
		f.mu.Unlock()
		return nil, fmt.Errorf("no page %d", page)
	}
	cp := *p
	cp.Data = append([]models.Video(nil), p.Data...)
	hook := f.onList
	f.mu.Unlock()

	if hook != nil {
		hook(page)
	}
	return &cp, nil
}

// setPage replaces a served page.
func (f *fakeVideoClient) setPage(page *models.VideoPage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[page.Meta.CurrentPage] = page
}

func (f *fakeVideoClient) InitiateYouTubeUpload(ctx context.Context, id string) (*models.Video, error) {
	f.mu.Lock()
	f.initiateCalls = append(f.initiateCalls, id)
	fn := f.initiate
	f.mu.Unlock()
	if fn == nil {
		return nil, errors.New("initiate not configured")
	}
	return fn(id)
}

func (f *fakeVideoClient) calls() ([]int, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.listCalls...), append([]string(nil), f.initiateCalls...)
}

func quietLogger() *log.Logger { return log.New(io.Discard) }
