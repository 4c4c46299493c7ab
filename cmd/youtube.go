package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/vidup/internal/server"
	"github.com/desertthunder/vidup/internal/session"
	"github.com/desertthunder/vidup/internal/shared"
	"github.com/urfave/cli/v3"
)

// YouTubeConnect links a YouTube channel to the account.
//
// The connect page is opened in the browser; once the flow finishes it redirects to the local
// settings route, whose query tells whether linking succeeded. The user is then refetched.
func (r *Runner) YouTubeConnect(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireUser(ctx); err != nil {
		return err
	}

	if r.session.IsYouTubeConnected() {
		r.writePlain("YouTube is already connected (%s). Continuing will relink the account.\n", r.session.YouTubeChannelName())
	}

	handler := server.NewConnectHandler()
	router := server.NewBasicRouter()
	router.Use(server.Recoverer(r.logger), server.RequestLogger(r.logger))
	router.Handler(handler)

	srv, err := server.StartCallbackServer(r.config.Callback.Addr(), router, r.logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			r.logger.Warn("error shutting down callback server", "error", err)
		}
	}()

	connectURL := r.config.API.ConnectURL()
	if cmd.Bool("no-browser") {
		r.writePlain("Open this URL in your browser to connect YouTube:\n%s\n\n", connectURL)
	} else {
		r.writePlain("→ Opening browser to connect YouTube...\n")
		if err := shared.OpenBrowser(connectURL); err != nil {
			r.logger.Warnf("failed to open browser automatically %v", err)
			r.writePlainln("⚠ Could not open browser automatically.")
			r.writePlain("Please open this URL in your browser:\n%s\n\n", connectURL)
		}
	}

	r.writePlain("→ Waiting for the redirect to %s/settings (%s timeout)...\n", srv.URL(), r.config.Callback.Timeout)

	result, err := handler.Wait(ctx, r.config.Callback.Timeout)
	if err != nil {
		return err
	}

	status, err := r.session.ResolveConnect(ctx, result.Query)
	r.writeConnectStatus(status)
	if err != nil {
		return err
	}
	if status.Outcome == session.ConnectFailed {
		return fmt.Errorf("%w: %s", shared.ErrChannelNotConnected, result.ErrorMessage())
	}
	return nil
}

// YouTubeStatus refetches the user and reports the channel link state.
func (r *Runner) YouTubeStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireUser(ctx); err != nil {
		return err
	}

	status, err := r.session.ResolveConnect(ctx, nil)
	r.writeConnectStatus(status)
	return err
}

func (r *Runner) writeConnectStatus(status session.ConnectStatus) {
	switch {
	case status.Success():
		r.writePlain("✓ %s\n", status.Message)
	case status.Outcome == session.ConnectNotLinked:
		r.writePlain("%s\n", status.Message)
		r.writePlain("YouTube is not connected. Run `vidup youtube connect` to link a channel.\n")
	default:
		r.writePlain("✗ %s\n", status.Message)
	}
}
