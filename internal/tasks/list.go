package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/vidup/internal/models"
	"github.com/desertthunder/vidup/internal/shared"
)

// ListController owns the currently displayed page of videos.
//
// Loads replace the page wholesale, while [ListController.Apply] patches a single item in
// place without a refetch. A patch outlives only the fetches that were already in flight
// when it was applied.
type ListController struct {
	client VideoClient

	mu      sync.Mutex
	videos  []models.Video
	meta    *models.PageMeta
	seq     uint64
	patches map[string]patch
}

// patch is an optimistic local update and the sequence number it was applied at.
type patch struct {
	video models.Video
	seq   uint64
}

// NewListController creates a [ListController] backed by client.
func NewListController(client VideoClient) *ListController {
	return &ListController{client: client}
}

// Load fetches page and replaces the held items and pagination metadata.
func (l *ListController) Load(ctx context.Context, page int) error {
	l.mu.Lock()
	l.seq++
	started := l.seq
	l.mu.Unlock()

	got, err := l.client.List(ctx, page)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	pending := make(map[string]models.Video)
	for id, p := range l.patches {
		if p.seq > started {
			pending[id] = p.video
		} else {
			delete(l.patches, id)
		}
	}

	l.videos = Reconcile(got.Data, pending)
	meta := got.Meta
	l.meta = &meta
	return nil
}

// Refresh reloads the current page, or the first page when nothing is loaded.
func (l *ListController) Refresh(ctx context.Context) error {
	return l.Load(ctx, l.CurrentPage())
}

// ChangePage loads page n when it is in range and reports whether a reload happened.
//
// Before the first load the upper bound is unknown and any n >= 1 is accepted.
func (l *ListController) ChangePage(ctx context.Context, n int) (bool, error) {
	l.mu.Lock()
	inRange := n >= 1 && (l.meta == nil || n <= l.meta.LastPage)
	l.mu.Unlock()

	if !inRange {
		return false, nil
	}
	if err := l.Load(ctx, n); err != nil {
		return false, err
	}
	return true, nil
}

// Next moves one page forward.
func (l *ListController) Next(ctx context.Context) (bool, error) {
	return l.ChangePage(ctx, l.CurrentPage()+1)
}

// Prev moves one page back.
func (l *ListController) Prev(ctx context.Context) (bool, error) {
	return l.ChangePage(ctx, l.CurrentPage()-1)
}

// Apply merges an updated video into the held list by id. It reports whether the id was present.
//
// A load that was in flight when Apply ran keeps the patch; the next load discards it.
func (l *ListController) Apply(v models.Video) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.videos {
		if l.videos[i].ID == v.ID {
			l.videos[i] = v
			l.seq++
			if l.patches == nil {
				l.patches = make(map[string]patch)
			}
			l.patches[v.ID] = patch{video: v, seq: l.seq}
			return true
		}
	}
	return false
}

// Find returns the held video with id.
func (l *ListController) Find(id string) (models.Video, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, v := range l.videos {
		if v.ID == id {
			return v, true
		}
	}
	return models.Video{}, false
}

// Locate returns the video with id, walking pages from the first when it is not held.
func (l *ListController) Locate(ctx context.Context, id string, progress chan<- ProgressUpdate) (models.Video, error) {
	if v, ok := l.Find(id); ok {
		return v, nil
	}

	for page := 1; ; page++ {
		if err := l.Load(ctx, page); err != nil {
			return models.Video{}, err
		}

		meta := l.Meta()
		sendProgress(progress, locatePageUpdate(page, meta.LastPage, id))

		if v, ok := l.Find(id); ok {
			return v, nil
		}
		if page >= meta.LastPage {
			return models.Video{}, fmt.Errorf("%w: %s", shared.ErrVideoNotFound, id)
		}
	}
}

// Videos returns a copy of the held items in server order.
func (l *ListController) Videos() []models.Video {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.Video(nil), l.videos...)
}

// Meta returns the pagination metadata of the last load. The zero value means nothing was loaded.
func (l *ListController) Meta() models.PageMeta {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.meta == nil {
		return models.PageMeta{}
	}
	return *l.meta
}

// Loaded reports whether a page has been loaded.
func (l *ListController) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.meta != nil
}

// CurrentPage returns the server reported current page, defaulting to 1.
func (l *ListController) CurrentPage() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.meta == nil || l.meta.CurrentPage < 1 {
		return 1
	}
	return l.meta.CurrentPage
}

// Reconcile builds the held list from a fresh server page.
//
// The result has the server's items in the server's order. An item in pending (an optimistic
// patch applied while the fetch was in flight) replaces its server counterpart; everything
// else comes from the server. Pending items missing from the server page are dropped.
func Reconcile(server []models.Video, pending map[string]models.Video) []models.Video {
	out := make([]models.Video, 0, len(server))
	for _, sv := range server {
		if pv, ok := pending[sv.ID]; ok {
			out = append(out, pv)
			continue
		}
		out = append(out, sv)
	}
	return out
}
