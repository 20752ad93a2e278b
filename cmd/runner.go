package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/tunedeck/tunedeck/internal/identity"
	"github.com/tunedeck/tunedeck/internal/player"
	"github.com/tunedeck/tunedeck/internal/recency"
	"github.com/tunedeck/tunedeck/internal/services"
	"github.com/tunedeck/tunedeck/internal/shared"
	"github.com/tunedeck/tunedeck/internal/store"
	"github.com/tunedeck/tunedeck/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	catalog services.Catalog
	auth    services.Authenticator
	ids     *identity.Manager
	logger  *log.Logger
	output  io.Writer

	store   *store.Store
	engine  *tasks.Engine
	backend player.AudioBackend

	// Opened on first use; the history database is only needed by playback
	// and recency commands.
	db      *sql.DB
	tracker *recency.Tracker
	session *player.Session
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Catalog services.Catalog
	Auth    services.Authenticator
	IDs     *identity.Manager
	Backend player.AudioBackend
	Logger  *log.Logger
	Output  io.Writer
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

	st := store.New(opts.Catalog, opts.IDs, opts.Logger)
	engine := tasks.NewEngine(opts.Catalog, st, opts.IDs, opts.Logger)

	return &Runner{
		config:  opts.Config,
		catalog: opts.Catalog,
		auth:    opts.Auth,
		ids:     opts.IDs,
		logger:  opts.Logger,
		output:  opts.Output,
		store:   st,
		engine:  engine,
		backend: opts.Backend,
	}
}

// SetLogger swaps the runner's logger, used when the TUI takes over stderr.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// Close releases the history database if it was opened.
func (r *Runner) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, albumsCommand, playlistsCommand, playCommand, recentCommand, deckCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// history opens the local database on first use and returns the recency
// tracker over it.
func (r *Runner) history() (*recency.Tracker, error) {
	if r.tracker != nil {
		return r.tracker, nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	r.db = db
	r.tracker = recency.NewTracker(db)
	return r.tracker, nil
}

// playback builds the playback session on first use.
func (r *Runner) playback() (*player.Session, error) {
	if r.session != nil {
		return r.session, nil
	}

	tracker, err := r.history()
	if err != nil {
		return nil, err
	}

	backend := r.backend
	if backend == nil {
		backend = player.NewMPVBackend("", r.logger)
	}

	session := player.NewSession(backend, r.store, tracker, r.logger)
	if mpv, ok := backend.(*player.MPVBackend); ok {
		mpv.OnEnd(session.OnTrackEnd)
	}

	r.backend = backend
	r.session = session
	return session, nil
}

// ensureLoaded performs the initial catalog refresh once per invocation.
func (r *Runner) ensureLoaded(ctx context.Context) error {
	if r.store.Loaded() {
		return nil
	}
	return r.store.LoadAll(ctx)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
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

// writeResult renders a synchronizer outcome. Failed operations are reported
// through the error path so the exit code reflects them.
func (r *Runner) writeResult(res tasks.Result) error {
	if !res.OK {
		return fmt.Errorf("%s", res.Message)
	}
	return r.writePlain("✓ %s\n", res.Message)
}
