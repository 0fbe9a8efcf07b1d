package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/abhishekbhonde/new-portfolio/internal/blog"
	"github.com/abhishekbhonde/new-portfolio/internal/config"
	"github.com/abhishekbhonde/new-portfolio/internal/gateway"
	"github.com/abhishekbhonde/new-portfolio/internal/kv"
	"github.com/abhishekbhonde/new-portfolio/internal/localstore"
	"github.com/abhishekbhonde/new-portfolio/internal/models"
	"github.com/abhishekbhonde/new-portfolio/internal/output"
	"github.com/abhishekbhonde/new-portfolio/internal/session"
	"github.com/spf13/cobra"
)

// app holds the wired components for one command invocation.
type app struct {
	settings *config.Settings
	store    kv.Store
	local    *localstore.Store
	client   *gateway.Client
	session  *session.Manager
	blog     *blog.Service
}

var (
	settings *config.Settings
	current  *app
)

// setup resolves settings and installs the logger. It runs before every
// command; the store and backend are only opened on demand.
func setup(cmd *cobra.Command, args []string) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	s, err := config.Resolve(cfg)
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("api-url"); v != "" {
		s.APIURL = v
	}
	if v, _ := cmd.Flags().GetString("store"); v != "" {
		s.Store = v
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		s.LogLevel = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: s.LogLevel}
	var handler slog.Handler
	if s.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))

	settings = s
	return nil
}

// openApp wires store, gateway, session and blog service.
func openApp(ctx context.Context) (*app, error) {
	if current != nil {
		return current, nil
	}
	if settings == nil {
		return nil, fmt.Errorf("settings not loaded")
	}

	store, err := kv.Open(ctx, settings.Store)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", settings.Store, err)
	}
	local := localstore.New(store)
	client := gateway.New(settings.APIURL)
	client.Logger = slog.Default()

	current = &app{
		settings: settings,
		store:    store,
		local:    local,
		client:   client,
		session:  session.NewManager(local, client),
		blog:     blog.NewService(client, local, blog.WithLogger(slog.Default())),
	}
	slog.Debug("app: opened", "api", settings.APIURL, "store", settings.Store)
	return current, nil
}

func closeApp() {
	if current == nil {
		return
	}
	if err := current.store.Close(); err != nil {
		slog.Warn("app: close store", "err", err)
	}
	current = nil
}

// restore opens the app and verifies the persisted session. The identity is
// nil for anonymous viewers.
func restore(ctx context.Context) (*app, *session.Identity, error) {
	a, err := openApp(ctx)
	if err != nil {
		return nil, nil, err
	}
	if _, err := a.session.Restore(ctx); err != nil {
		return nil, nil, err
	}
	if notice := a.session.Notice(); notice != "" {
		output.Warning("%s", notice)
	}
	return a, a.session.Identity(), nil
}

// requireLogin is restore for write commands.
func requireLogin(ctx context.Context) (*app, *session.Identity, error) {
	a, ident, err := restore(ctx)
	if err != nil {
		return nil, nil, err
	}
	if ident == nil {
		return nil, nil, models.ErrUnauthenticated
	}
	return a, ident, nil
}

// reportedError marks an error that was already printed.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// fail prints err and returns it so the command exits non-zero. Commands
// run with --json get the error as a JSON object instead.
func fail(cmd *cobra.Command, err error) error {
	if f := cmd.Flags().Lookup("json"); f != nil && f.Value.String() == "true" {
		output.JSONError(output.ErrorCode(err), err.Error())
	} else {
		output.ReportError(err)
	}
	return &reportedError{err: err}
}
