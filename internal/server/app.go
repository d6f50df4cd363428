// Package server initializes and runs the user service. It wires the
// configuration, storage, hashing, and business layers together, starts the
// HTTP endpoint, and handles graceful shutdown on OS signals.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/stunningdev/userservice/internal/logging"
	"github.com/stunningdev/userservice/internal/server/config"
	"github.com/stunningdev/userservice/internal/server/hashing"
	"github.com/stunningdev/userservice/internal/server/httpapi"
	"github.com/stunningdev/userservice/internal/server/repositories/repomanager"
	"github.com/stunningdev/userservice/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	repos  repomanager.RepositoryManager
	auth   *services.AuthService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSON(os.Stdout)

	rm, err := repomanager.NewPostgresRepositoryManager(ctx, c.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	hasher := hashing.NewBcryptHasher(c.Security.BcryptCost)
	auth := services.NewAuthService(rm.Conn(), rm, hasher)

	return &App{config: c, logger: logger, repos: rm, auth: auth}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewServer(app.config.Server.Address, app.config.Server.Mode, app.logger, app.auth)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
