package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/vidup/internal/formatter"
	"github.com/desertthunder/vidup/internal/models"
	"github.com/desertthunder/vidup/internal/shared"
	"github.com/desertthunder/vidup/internal/tasks"
	"github.com/urfave/cli/v3"
)

// VideosList prints one page of the user's videos in the requested format.
func (r *Runner) VideosList(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	if err := r.requireUser(ctx); err != nil {
		return err
	}

	page := cmd.Int("page")
	r.logger.Debug("listing videos", "page", page)

	if err := r.list.Load(ctx, page); err != nil {
		return err
	}

	if err := formatter.WriteVideos(r.output, r.heldPage(), format, r.config.API.ThumbnailBaseURL, r.now()); err != nil {
		return err
	}

	if format == formatter.FormatTable && !r.session.IsYouTubeConnected() {
		r.writePlainln("⚠ YouTube not connected. Run `vidup youtube connect` to publish videos.")
	}
	return nil
}

// VideosUpload uploads a file and reloads the first page so the new video shows up.
func (r *Runner) VideosUpload(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: video file path is required", shared.ErrMissingArgument)
	}

	if err := r.requireUser(ctx); err != nil {
		return err
	}

	r.writePlain("→ Uploading %s...\n", path)

	video, err := r.videos.UploadFile(ctx, cmd.String("title"), path)
	if err != nil {
		r.writeFieldErrors(err)
		return err
	}

	r.writePlain("✓ Video uploaded successfully!\n\n")
	r.writePlain("%s\n", formatter.VideoDetail(*video, r.config.API.ThumbnailBaseURL))

	if err := r.list.Refresh(ctx); err != nil {
		r.logger.Warn("failed to reload video list", "error", err)
		return nil
	}
	return r.writePlain("%s", formatter.VideosTable(r.heldPage(), r.now()))
}

// VideosPublish initiates the YouTube upload of a single video.
//
// The video is looked up on --page first and then on every page in order.
func (r *Runner) VideosPublish(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: video id is required", shared.ErrMissingArgument)
	}

	if err := r.requireUser(ctx); err != nil {
		return err
	}

	if page := cmd.Int("page"); page > 1 {
		if err := r.list.Load(ctx, page); err != nil {
			return err
		}
	}

	prog := make(chan tasks.ProgressUpdate, 50)
	wait := r.drainProgress(prog)
	video, err := r.list.Locate(ctx, id, prog)
	close(prog)
	wait()
	if err != nil {
		return err
	}

	updated, err := r.tracker.Initiate(ctx, video)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidTransition) {
			return fmt.Errorf("%w: %q is %s", err, video.Title, video.Status.Label())
		}
		return err
	}

	r.list.Apply(*updated)
	r.writePlain("✓ YouTube upload initiated for %q\n\n", updated.Title)
	return r.writePlain("%s", formatter.VideoDetail(*updated, r.config.API.ThumbnailBaseURL))
}

// VideosPublishAll initiates every publishable video on a page with a rate-limited worker pool.
func (r *Runner) VideosPublishAll(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireUser(ctx); err != nil {
		return err
	}

	if !r.session.IsYouTubeConnected() {
		r.logger.Warn("no YouTube channel linked; publishing will likely fail")
	}

	if err := r.list.Load(ctx, cmd.Int("page")); err != nil {
		return err
	}

	opts := tasks.BulkPublishOpts{
		Workers:     r.config.Upload.Workers,
		RateLimit:   r.config.Upload.RateLimit,
		OnPublished: func(v models.Video) { r.list.Apply(v) },
	}
	if n := cmd.Int("workers"); n > 0 {
		opts.Workers = n
	}
	if rate := cmd.Float("rate"); rate > 0 {
		opts.RateLimit = rate
	}

	prog := make(chan tasks.ProgressUpdate, 50)
	wait := r.drainProgress(prog)
	result, err := r.tracker.BulkPublish(ctx, prog, r.list.Videos(), opts)
	close(prog)
	wait()
	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Publish Complete")
	return r.writePlain("%s", formatter.BulkPublishTable(result))
}

// VideosWatch polls a page until no video is uploading, then prints it.
func (r *Runner) VideosWatch(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireUser(ctx); err != nil {
		return err
	}

	if err := r.list.Load(ctx, cmd.Int("page")); err != nil {
		return err
	}

	opts := tasks.WatchOpts{
		Interval: r.config.Upload.PollInterval,
		MaxPolls: cmd.Int("max-polls"),
	}
	if d := cmd.Duration("interval"); d > 0 {
		opts.Interval = d
	}

	prog := make(chan tasks.ProgressUpdate, 50)
	wait := r.drainProgress(prog)
	_, err := tasks.Watch(ctx, prog, r.list, opts)
	close(prog)
	wait()

	if errors.Is(err, context.Canceled) {
		r.writePlainln("Stopped watching.")
	} else if err != nil {
		return err
	}

	return r.writePlain("\n%s", formatter.VideosTable(r.heldPage(), r.now()))
}

func (r *Runner) heldPage() *models.VideoPage {
	return &models.VideoPage{Data: r.list.Videos(), Meta: r.list.Meta()}
}

// drainProgress prints updates from prog until it is closed. The returned func blocks until printing is done.
func (r *Runner) drainProgress(prog <-chan tasks.ProgressUpdate) func() {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range prog {
			switch update.Phase {
			case tasks.LocateVideo:
				r.writePlain("🔍 %s\n", update.Message)
			case tasks.PublishVideo:
				if update.Step == 0 {
					r.writePlain("📤 %s\n", update.Message)
				} else {
					r.writePlain("   %s\n", update.Message)
				}
			case tasks.WatchUploads:
				r.writePlain("⏳ %s\n", update.Message)
			default:
				r.writePlain("%s\n", update.Message)
			}
		}
	}()
	return func() { <-done }
}
