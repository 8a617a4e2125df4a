// Package server initializes and runs the application: it opens the metadata
// database, runs migrations, selects a backing store driver, and starts the
// REST endpoint together with the operator console.
package server

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/chanvault/chanvault/internal/logging"
	"github.com/chanvault/chanvault/internal/server/config"
	"github.com/chanvault/chanvault/internal/server/httpapi"
	"github.com/chanvault/chanvault/internal/server/repl"
	"github.com/chanvault/chanvault/internal/server/repositories/repomanager"
	"github.com/chanvault/chanvault/internal/server/services"
	"github.com/chanvault/chanvault/internal/server/storage"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	userService    *services.UserService
	contentService *services.ContentService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	store, err := newStore(cfg)
	if err != nil {
		return nil, err
	}

	us := services.NewUserService(db, rm, cfg)
	cs := services.NewContentService(db, rm, store, cfg)

	return &App{config: cfg, logger: logger, db: db, userService: us, contentService: cs}, nil
}

func newStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageBackend {
	case config.BackendDiscord:
		return storage.NewDiscordStore(cfg.DiscordAPIBase, cfg.DiscordBotToken, cfg.DiscordChannelID), nil
	case config.BackendS3:
		return storage.NewS3Store(storage.S3Config{
			RootUser:        cfg.S3RootUser,
			RootPassword:    cfg.S3RootPassword,
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			BaseEndpoint:    cfg.S3BaseEndpoint,
			PresignValidity: cfg.S3PresignValidity,
		}), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.StorageBackend)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.userService, app.contentService)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// startConsole runs the operator REPL on stdin. Leaving the console does not
// stop the HTTP server; only a signal (or a server error) does.
func (app *App) startConsole(ctx context.Context) {
	console := repl.NewConsole(app.userService, os.Stdout)
	console.Run(ctx, bufio.NewScanner(os.Stdin))
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...", "backend", app.config.StorageBackend)

	app.initSignalHandler(cancelFunc)

	go app.startConsole(ctx)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
