package tasks

import (
	"fmt"

	"github.com/desertthunder/vidup/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	LoadPage Phase = iota
	LocateVideo
	PublishVideo
	WatchUploads
)

func (p Phase) String() string {
	switch p {
	case LoadPage:
		return "load_page"
	case LocateVideo:
		return "locate_video"
	case PublishVideo:
		return "publish_video"
	case WatchUploads:
		return "watch_uploads"
	default:
		return ""
	}
}

func locatePageUpdate(page, last int, id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LocateVideo,
		Step:    page,
		Total:   last,
		Message: fmt.Sprintf("Searching page %d for video %s...", page, id),
	}
}

func publishQueuedUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PublishVideo,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Publishing %d videos to YouTube...", total),
	}
}

func publishStartedUpdate(step, total int, v models.Video) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PublishVideo,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Initiating: %s...", step, total, v.Title),
	}
}

func publishCompletedUpdate(step, total int, v *models.Video) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PublishVideo,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%s)", step, total, v.Title, v.Status.Label()),
		Data:    v,
	}
}

func publishFailedUpdate(step, total int, title string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PublishVideo,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, title, err),
	}
}

func watchPollUpdate(poll, uploading int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WatchUploads,
		Step:    poll,
		Message: fmt.Sprintf("Poll %d: %d video(s) still uploading...", poll, uploading),
	}
}

func watchSettledUpdate(poll int, videos []models.Video) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WatchUploads,
		Step:    poll,
		Total:   poll,
		Message: "All uploads settled",
		Data:    videos,
	}
}
