// Package server initializes and runs the gophnotes server: it opens the
// database pool, applies migrations, wires services and runs the HTTP API
// and the gRPC health endpoint until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server/config"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophnotes/internal/server/rest"
	"github.com/dmitrijs2005/gophnotes/internal/server/services"
	"github.com/dmitrijs2005/gophnotes/internal/server/spellcheck"

	gs "github.com/dmitrijs2005/gophnotes/internal/server/grpc"
)

const healthCheckInterval = 15 * time.Second

// seams for tests
var (
	openDB               = dbx.Open
	newRepositoryManager = repomanager.NewPostgresRepositoryManager
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	userService *services.UserService
	noteService *services.NoteService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := openDB(ctx, c.DatabaseDSN, dbx.DefaultPoolOptions)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := newRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	speller := spellcheck.NewClient(c.SpellerURL, c.SpellerTimeout, c.SpellerRetries, logger,
		spellcheck.WithFailOpen(c.SpellerFailOpen))

	us := services.NewUserService(db, rm, c)
	ns := services.NewNoteService(db, rm, speller, c)

	return &App{config: c, logger: logger, db: db, userService: us, noteService: ns}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case s := <-sigs:
			app.logger.Info(ctx, "Received signal", "signal", s.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := rest.NewServer(app.config.EndpointAddrHTTP, app.logger, app.userService, app.noteService)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc, s *gs.HealthServer) {
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled or a termination signal arrives, then
// waits for both servers to stop and closes the database pool.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	health := gs.NewHealthServer(app.config.EndpointAddrGRPC, app.logger, app.db, healthCheckInterval)

	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc, health)
	}()
	go func() {
		defer wg.Done()
		health.Watch(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
