/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the Gama ERP PJO service. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (environment, optional .env)
  2. Build the zap logger
  3. Open the SQLite store
  4. Wire the lifecycle service and HTTP router
  5. Start the server with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the database connection
  4. Exit

ENVIRONMENT:
  APP_PORT  HTTP server port (default: 8080)
  DB_PATH   SQLite database path (default: ./gama.db, ":memory:" works)

SEE ALSO:
  - api/server.go: router configuration
  - store/sqlite:  database implementation
*/
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/odnamta/Gama-ERP-sub000/api"
	"github.com/odnamta/Gama-ERP-sub000/config"
	"github.com/odnamta/Gama-ERP-sub000/pjo"
	"github.com/odnamta/Gama-ERP-sub000/store/sqlite"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	logger, err := newLogger()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	store, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err), zap.String("path", cfg.DB.Path))
	}
	defer store.Close()

	svc := pjo.NewService(store, logger.Named("pjo"))
	handler := api.NewHandler(svc, logger.Named("api"))
	router := api.NewRouter(handler)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("db", cfg.DB.Path))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}
