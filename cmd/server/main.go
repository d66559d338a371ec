package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"pantry/internal/config"
	"pantry/internal/db"
	"pantry/internal/db/mock"
	"pantry/internal/events"
	applog "pantry/internal/log"
	"pantry/internal/server"
)

const producerName = "pantry-api"

type serverLifecycle interface {
	Start() error
	Stop() error
}

var (
	loadConfigFunc      = config.Load
	setLogLevelFunc     = applog.SetLevel
	configureLoggerFunc = func(format string) error {
		return applog.Configure(os.Stdout, format)
	}
	newMockDatabaseFunc = mock.New
	configureDatabase   = db.Configure
	newPublisherFunc    = events.NewPublisher
	newServerFunc       = func(cfg server.Config) (serverLifecycle, error) {
		srv, err := server.New(cfg)
		if err != nil {
			return nil, err
		}
		return srv, nil
	}
	subscribeShutdownSig = func() (<-chan os.Signal, func()) {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		return ch, func() { signal.Stop(ch) }
	}
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		applog.Error(context.Background(), "failed to load .env file", "error", err)
	}
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	cfg, err := loadConfigFunc()
	if err != nil {
		applog.Error(ctx, "failed to load configuration", "error", err)
		return 1
	}

	if err := configureLoggerFunc(cfg.Logging.Format); err != nil {
		applog.Error(ctx, "invalid log format", "format", cfg.Logging.Format, "error", err)
		return 1
	}
	if err := setLogLevelFunc(cfg.Logging.Level); err != nil {
		applog.Error(ctx, "invalid log level", "level", cfg.Logging.Level, "error", err)
		return 1
	}

	var database *gorm.DB
	if cfg.Database.UseMock {
		applog.Info(ctx, "using in-memory mock database", "applicationId", cfg.Store.ApplicationID)
		database, err = newMockDatabaseFunc(ctx, cfg.Store.ApplicationID)
	} else {
		applog.Info(ctx, "connecting to database")
		database, err = configureDatabase(cfg.Database)
	}
	if err != nil {
		applog.Error(ctx, "failed to configure database", "error", err)
		return 1
	}
	defer func() {
		if err := db.Close(database); err != nil {
			applog.Error(ctx, "failed to close database", "error", err)
		}
	}()

	publisher := newPublisherFunc(cfg.Events, producerName)
	defer func() {
		if err := publisher.Close(); err != nil {
			applog.Error(ctx, "failed to close event publisher", "error", err)
		}
	}()
	applog.Debug(ctx, "event publisher ready", "brokers", len(cfg.Events.Brokers), "topic", cfg.Events.Topic)

	srv, err := newServerFunc(server.Config{
		Addr:           cfg.Server.Addr,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AccessKey:      cfg.Store.AccessKey,
		ApplicationID:  cfg.Store.ApplicationID,
		Database:       database,
		Publisher:      publisher,
	})
	if err != nil {
		applog.Error(ctx, "failed to create server", "error", err)
		return 1
	}

	errCh := make(chan error, 1)
	go func() {
		applog.Info(ctx, "starting http server", "addr", cfg.Server.Addr)
		errCh <- srv.Start()
	}()

	shutdown, stop := subscribeShutdownSig()
	defer stop()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			applog.Error(ctx, "server encountered an error", "error", err)
			return 1
		}
		return 0
	case sig := <-shutdown:
		applog.Info(ctx, "shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		applog.Info(ctx, "context cancelled, shutting down")
	}

	if err := srv.Stop(); err != nil {
		applog.Error(ctx, "graceful shutdown failed", "error", err)
		return 1
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		applog.Error(ctx, "server encountered an error", "error", err)
		return 1
	}

	applog.Info(ctx, "server stopped")
	return 0
}
