package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/tiernerd/internal/client/client"
	"github.com/dmitrijs2005/tiernerd/internal/client/config"
	"github.com/dmitrijs2005/tiernerd/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/tiernerd/internal/client/services"
	"github.com/dmitrijs2005/tiernerd/internal/client/session"
	"github.com/dmitrijs2005/tiernerd/internal/filex"
	"github.com/dmitrijs2005/tiernerd/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const (
	pingTimeout  = 3 * time.Second
	flushTimeout = 5 * time.Second
)

// errCommandFailed marks a command that ended with an inline error message.
var errCommandFailed = errors.New("command failed")

type pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	session *session.Manager
	lists   services.ListService
	items   services.ItemService
	pinger  pinger
	reader  *bufio.Reader
	out     io.Writer

	mu   sync.RWMutex
	mode Mode
}

// NewApp opens the local database, builds the gateway and the session, and
// returns an App reading from stdin and writing to stdout.
func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()
	logger := logging.New(os.Stderr, "text", c.LogLevel)

	dbPath, err := filex.EnsureParentDir(c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("database dir: %w", err)
	}
	db, err := client.InitDatabase(ctx, dbPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	gw, err := client.NewHTTPClient(c.APIBaseURL,
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(logger.With("module", "gateway")),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return newApp(c, logger, db, gw, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, logger logging.Logger, db *sql.DB, gw *client.HTTPClient, in io.Reader, out io.Writer) *App {
	m := session.New(
		services.NewAuthService(gw),
		credentials.NewSQLiteStore(db),
		session.WithMockAuth(c.MockAuth),
		session.WithLogger(logger),
	)
	return &App{
		config:  c,
		logger:  logger,
		db:      db,
		session: m,
		lists:   services.NewListService(gw),
		items:   services.NewItemService(gw),
		pinger:  gw,
		reader:  bufio.NewReader(in),
		out:     out,
	}
}

// Run restores the session, serves the REPL and, on exit, writes any
// credentials that could not be stored earlier.
func (a *App) Run(ctx context.Context) {
	defer a.close(ctx)
	a.Root(ctx)
}

// close runs after the REPL, usually once a signal has cancelled ctx, so
// the final flush gets a context of its own.
func (a *App) close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flushTimeout)
	defer cancel()

	if err := a.session.FlushPending(ctx); err != nil {
		a.logger.Warn(ctx, "flushing session on exit", "error", err)
	}
	if a.session.NeedsPersist() {
		a.logger.Warn(ctx, "credentials could not be written to the local store")
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn(ctx, "closing database", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.State() == session.StateAuthenticated
}

// FlushPending retries a credential write that failed earlier.
func (a *App) FlushPending(ctx context.Context) error {
	if !a.session.NeedsPersist() {
		return nil
	}
	return a.session.FlushPending(ctx)
}

func (a *App) Mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(ctx, fmt.Sprintf("Switched to %s mode", mode))
	}
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := a.pinger.Ping(ctx); err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

// StartOnlineStatusWatcher probes the server now and then every interval
// until ctx is done, switching the mode shown in the prompt.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// fail prints msg as the inline error of the current command.
func (a *App) fail(msg string) error {
	a.println("Error:", msg)
	return fmt.Errorf("%w: %s", errCommandFailed, msg)
}
