package fakeapi

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/tiernerd/internal/fakeapi/config"
	"github.com/dmitrijs2005/tiernerd/internal/logging"
)

// App runs the fake API server as a standalone process.
type App struct {
	config *config.Config
	logger logging.Logger
	server *Server
}

func NewApp(c *config.Config) (*App, error) {
	return newApp(c, os.Stdout)
}

func newApp(c *config.Config, logOut io.Writer) (*App, error) {
	logger := logging.New(logOut, c.LogFormat, c.LogLevel)

	s, err := NewServer(c.SecretKey,
		WithAddress(c.ListenAddr),
		WithLogger(logger),
		WithTokenTTL(c.AccessTokenValidityDuration),
		WithShutdownTimeout(c.ShutdownTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("server init error: %w", err)
	}

	return &App{config: c, logger: logger, server: s}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run blocks until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			runErr = err
			cancelFunc()
		}
	}()

	wg.Wait()
	return runErr
}
