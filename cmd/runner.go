package main

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidup/internal/repositories"
	"github.com/desertthunder/vidup/internal/services"
	"github.com/desertthunder/vidup/internal/session"
	"github.com/desertthunder/vidup/internal/shared"
	"github.com/desertthunder/vidup/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The API client graph (token store, gateway, session manager) is built on first use so that
// commands like `setup config` never touch the database.
type Runner struct {
	config      *shared.Config
	configPath  string
	httpClient  *http.Client
	logger      *log.Logger
	output      io.Writer
	input       *bufio.Reader
	interactive bool // input is the process stdin
	fullscreen  bool // the TUI owns the terminal
	now         func() time.Time

	db      *sql.DB
	store   services.TokenStore
	gateway *services.Gateway
	auth    *services.AuthService
	videos  *services.VideoService
	session *session.Manager
	list    *tasks.ListController
	tracker *tasks.Tracker
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
	Store      services.TokenStore // Overrides the sqlite store when set
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	interactive := opts.Input == nil
	if interactive {
		opts.Input = os.Stdin
	}

	return &Runner{
		config:      opts.Config,
		configPath:  opts.ConfigPath,
		httpClient:  opts.HTTPClient,
		logger:      opts.Logger,
		output:      opts.Output,
		input:       bufio.NewReader(opts.Input),
		interactive: interactive,
		now:         time.Now,
		store:       opts.Store,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, videosCommand, youtubeCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads the configuration named by the global --config flag, when present, and applies
// environment overrides and the configured log level.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if path := cmd.String("config"); path != "" {
		r.configPath = path
	}

	if r.configPath != "" {
		if _, err := os.Stat(r.configPath); err == nil {
			config, err := shared.LoadConfig(r.configPath)
			if err != nil {
				return ctx, err
			}
			r.config = config
		} else {
			r.logger.Debug("config file not found, using defaults", "path", r.configPath)
		}
	}

	r.config.ApplyEnv()
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	} else {
		shared.SetLogLevel(r.logger, shared.ParseLevel(r.config.Log.Level))
	}
	return ctx, nil
}

// SetLogger replaces the logger. Must be called before the client graph is built.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// connect builds the API client graph once.
func (r *Runner) connect(ctx context.Context) error {
	if r.session != nil {
		return nil
	}

	if r.store == nil {
		db, err := shared.OpenStore(r.config.Store)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrTokenStore, err)
		}
		r.db = db
		r.store = repositories.NewTokenRepository(db)
	}

	client := r.httpClient
	if client == nil {
		client = &http.Client{Timeout: r.config.API.Timeout}
	}

	r.gateway = services.NewGateway(r.config.API.BaseURL, client, r.store, shared.WithLogger(r.logger, "component", "gateway"))
	r.auth = services.NewAuthService(r.gateway)
	r.videos = services.NewVideoService(r.gateway)

	mgr, err := session.NewManager(ctx, r.store, r.auth, r.logger)
	if err != nil {
		return err
	}
	mgr.Attach(r.gateway)
	mgr.OnInvalidated(func(ev services.SessionInvalidated) {
		r.logger.Debug("session invalidated", "endpoint", ev.Endpoint, "status", ev.Status)
		if !r.fullscreen {
			r.writePlainln("⚠ Your session has expired. Run `vidup auth login` to sign in again.")
		}
	})

	r.session = mgr
	r.list = tasks.NewListController(r.videos)
	r.tracker = tasks.NewTracker(r.videos, r.logger)
	return nil
}

// requireUser builds the client graph and restores the persisted session.
func (r *Runner) requireUser(ctx context.Context) error {
	if err := r.connect(ctx); err != nil {
		return err
	}
	if _, err := r.session.RequireUser(ctx); err != nil {
		return err
	}
	return nil
}

// Close releases the token store.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// hint maps well-known failures to a next step for the user.
func hint(err error) string {
	switch {
	case errors.Is(err, shared.ErrNotAuthenticated):
		return "run `vidup auth login` to sign in"
	case tasks.IsChannelNotConnected(err):
		return "run `vidup youtube connect` to link your channel"
	case errors.Is(err, shared.ErrServiceUnavailable):
		return "the API is unavailable, try again later"
	default:
		return ""
	}
}
