package tasks

import (
	"context"

	"github.com/desertthunder/vidup/internal/models"
)

// VideoClient is the subset of services.VideoService the tasks depend on.
type VideoClient interface {
	List(ctx context.Context, page int) (*models.VideoPage, error)
	InitiateYouTubeUpload(ctx context.Context, id string) (*models.Video, error)
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
