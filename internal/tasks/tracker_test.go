package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/desertthunder/vidup/internal/models"
	"github.com/desertthunder/vidup/internal/services"
	"github.com/desertthunder/vidup/internal/shared"
	tu "github.com/desertthunder/vidup/internal/testing"
)

func TestTracker(t *testing.T) {
	ctx := context.Background()

	t.Run("Refuses Uploaded Without Network", func(t *testing.T) {
		client := newFakeVideoClient()
		tracker := NewTracker(client, quietLogger())

		_, err := tracker.Initiate(ctx, tu.VideoFixture("v1", models.Uploaded))
		require.ErrorIs(t, err, shared.ErrInvalidTransition)

		_, err = tracker.Initiate(ctx, tu.VideoFixture("v2", models.Uploading))
		require.ErrorIs(t, err, shared.ErrInvalidTransition)

		_, initiated := client.calls()
		require.Empty(t, initiated)
	})

	t.Run("Server Status Wins", func(t *testing.T) {
		client := newFakeVideoClient()
		client.initiate = func(id string) (*models.Video, error) {
			v := tu.VideoFixture(id, models.Uploading)
			v.UpdatedAt = "2025-02-01T00:00:00Z"
			return &v, nil
		}
		tracker := NewTracker(client, quietLogger())

		got, err := tracker.Initiate(ctx, tu.VideoFixture("v1", models.NotUploaded))
		require.NoError(t, err)
		require.Equal(t, models.Uploading, got.Status)
		require.Equal(t, "2025-02-01T00:00:00Z", got.UpdatedAt)
	})

	t.Run("Forces Uploading When Server Lags", func(t *testing.T) {
		client := newFakeVideoClient()
		client.initiate = func(id string) (*models.Video, error) {
			v := tu.VideoFixture(id, models.NotUploaded)
			v.UpdatedAt = "2025-03-01T12:00:00Z"
			return &v, nil
		}
		tracker := NewTracker(client, quietLogger())

		got, err := tracker.Initiate(ctx, tu.VideoFixture("v1", models.NotUploaded))
		require.NoError(t, err)
		require.Equal(t, models.Uploading, got.Status)
		require.Equal(t, "2025-03-01T12:00:00Z", got.UpdatedAt, "server timestamp is kept as is")
	})

	t.Run("Unknown Server Status Becomes Uploading", func(t *testing.T) {
		client := newFakeVideoClient()
		client.initiate = func(id string) (*models.Video, error) {
			v := tu.VideoFixture(id, models.YTUploadStatus("QUEUED"))
			return &v, nil
		}
		tracker := NewTracker(client, quietLogger())

		got, err := tracker.Initiate(ctx, tu.VideoFixture("v1", models.Failed))
		require.NoError(t, err)
		require.Equal(t, models.Uploading, got.Status)
	})

	t.Run("Empty Response Keeps Local Copy", func(t *testing.T) {
		client := newFakeVideoClient()
		client.initiate = func(string) (*models.Video, error) { return &models.Video{}, nil }
		tracker := NewTracker(client, quietLogger())

		got, err := tracker.Initiate(ctx, tu.VideoFixture("v1", models.Failed))
		require.NoError(t, err)
		require.Equal(t, "v1", got.ID)
		require.Equal(t, models.Uploading, got.Status)
	})

	t.Run("Retry From Failed", func(t *testing.T) {
		client := newFakeVideoClient()
		client.initiate = func(id string) (*models.Video, error) {
			v := tu.VideoFixture(id, models.Uploading)
			return &v, nil
		}
		tracker := NewTracker(client, quietLogger())

		got, err := tracker.Initiate(ctx, tu.VideoFixture("v1", models.Failed))
		require.NoError(t, err)
		require.Equal(t, models.Uploading, got.Status)
	})

	t.Run("Channel Not Connected", func(t *testing.T) {
		client := newFakeVideoClient()
		client.initiate = func(string) (*models.Video, error) {
			return nil, &services.APIError{Status: 400, Message: "YouTube not connected for this user"}
		}
		tracker := NewTracker(client, quietLogger())

		original := tu.VideoFixture("v1", models.NotUploaded)
		_, err := tracker.Initiate(ctx, original)

		var uerr *UploadError
		require.ErrorAs(t, err, &uerr)
		require.Equal(t, "v1", uerr.VideoID)
		require.Equal(t, "YouTube account not connected. Please connect it in settings.", uerr.Error())
		require.True(t, IsChannelNotConnected(err))
		require.ErrorIs(t, err, shared.ErrAPIRequest)
		require.Equal(t, models.NotUploaded, original.Status)
	})

	t.Run("Generic Failure Keeps Message", func(t *testing.T) {
		client := newFakeVideoClient()
		client.initiate = func(string) (*models.Video, error) {
			return nil, &services.APIError{Status: 500, Message: "quota exceeded"}
		}
		tracker := NewTracker(client, quietLogger())

		_, err := tracker.Initiate(ctx, tu.VideoFixture("v1", models.NotUploaded))

		var uerr *UploadError
		require.ErrorAs(t, err, &uerr)
		require.Equal(t, "quota exceeded", uerr.Message)
		require.False(t, IsChannelNotConnected(err))
	})

	t.Run("Empty Failure Message", func(t *testing.T) {
		client := newFakeVideoClient()
		client.initiate = func(string) (*models.Video, error) { return nil, errors.New("") }
		tracker := NewTracker(client, quietLogger())

		_, err := tracker.Initiate(ctx, tu.VideoFixture("v1", models.NotUploaded))
		require.EqualError(t, err, "Failed to initiate YouTube upload.")
	})
}
