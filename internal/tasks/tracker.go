package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/vidup/internal/models"
	"github.com/desertthunder/vidup/internal/shared"
)

const (
	channelNotConnectedMessage = "YouTube not connected"
	channelNotConnectedHint    = "YouTube account not connected. Please connect it in settings."
	defaultUploadFailure       = "Failed to initiate YouTube upload."
)

// UploadError is a failed publish attempt for a single video.
type UploadError struct {
	VideoID string
	Message string
	Err     error
}

func (e *UploadError) Error() string {
	return e.Message
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

func newUploadError(id string, err error) *UploadError {
	msg := err.Error()
	if msg == "" {
		msg = defaultUploadFailure
	}

	if strings.Contains(msg, channelNotConnectedMessage) {
		return &UploadError{
			VideoID: id,
			Message: channelNotConnectedHint,
			Err:     fmt.Errorf("%w: %w", shared.ErrChannelNotConnected, err),
		}
	}
	return &UploadError{VideoID: id, Message: msg, Err: err}
}

// Tracker drives the YouTube upload status of individual videos.
//
// Each call is independent; there is no cross-item coordination.
type Tracker struct {
	client VideoClient
	logger *log.Logger
}

// NewTracker creates a [Tracker] backed by client.
func NewTracker(client VideoClient, logger *log.Logger) *Tracker {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Tracker{client: client, logger: logger}
}

// Initiate asks the server to push video to YouTube.
//
// Only NOT_UPLOADED and FAILED videos are accepted; anything else fails with [shared.ErrInvalidTransition]
// without contacting the server. On success the returned video is at least UPLOADING.
// On failure the caller's copy is left untouched and an [*UploadError] is returned.
func (t *Tracker) Initiate(ctx context.Context, video models.Video) (*models.Video, error) {
	if !models.CanTransition(video.Status, models.Uploading) {
		return nil, fmt.Errorf("%w: video %s is %s", shared.ErrInvalidTransition, video.ID, video.Status)
	}

	got, err := t.client.InitiateYouTubeUpload(ctx, video.ID)
	if err != nil {
		uerr := newUploadError(video.ID, err)
		t.logger.Warn("youtube upload failed to start", "video", video.ID, "error", uerr.Message)
		return nil, uerr
	}

	out := video
	if got != nil && got.ID != "" {
		out = *got
	}

	if !out.Status.Valid() || out.Status == models.NotUploaded {
		out.Status = models.Uploading
	}

	t.logger.Info("youtube upload initiated", "video", out.ID, "status", out.Status)
	return &out, nil
}

// IsChannelNotConnected reports whether err means the account has no linked channel.
func IsChannelNotConnected(err error) bool {
	return errors.Is(err, shared.ErrChannelNotConnected)
}
