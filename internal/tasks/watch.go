package tasks

import (
	"context"
	"time"

	"github.com/desertthunder/vidup/internal/models"
)

// WatchOpts controls [Watch] polling.
type WatchOpts struct {
	Interval time.Duration // Delay between polls (default: 10s)
	MaxPolls int           // Stop after this many polls; 0 means until settled or cancelled
}

// Watch reloads the current page until no held video is UPLOADING and returns the settled page.
//
// Final YouTube status only arrives through list refreshes, so polling is the only way to observe it.
// When MaxPolls is reached the last loaded page is returned with a nil error.
func Watch(ctx context.Context, prog chan<- ProgressUpdate, list *ListController, opts WatchOpts) ([]models.Video, error) {
	if opts.Interval <= 0 {
		opts.Interval = 10 * time.Second
	}

	for poll := 1; ; poll++ {
		if err := list.Refresh(ctx); err != nil {
			return nil, err
		}

		videos := list.Videos()
		uploading := CountStatus(videos, models.Uploading)
		if uploading == 0 {
			sendProgress(prog, watchSettledUpdate(poll, videos))
			return videos, nil
		}
		sendProgress(prog, watchPollUpdate(poll, uploading))

		if opts.MaxPolls > 0 && poll >= opts.MaxPolls {
			return videos, nil
		}

		timer := time.NewTimer(opts.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return videos, ctx.Err()
		case <-timer.C:
		}
	}
}

// CountStatus counts videos in status s.
func CountStatus(videos []models.Video, s models.YTUploadStatus) int {
	n := 0
	for _, v := range videos {
		if v.Status == s {
			n++
		}
	}
	return n
}
