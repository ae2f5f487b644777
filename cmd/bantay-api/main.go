package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mdrrmo/bantay-api/internal/config"
	"github.com/mdrrmo/bantay-api/internal/logger"
	"github.com/mdrrmo/bantay-api/internal/router"
	"github.com/mdrrmo/bantay-api/internal/setup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	deps, err := setup.SetupDependencies(cfg)
	if err != nil {
		logger.Log.Error("failed to initialize dependencies", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := deps.Cleanup(); err != nil {
			logger.Log.Error("storage cleanup failed", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:    ":" + cfg.Public.Port,
		Handler: router.New(deps),
	}

	go func() {
		logger.Log.Info("server started", "port", cfg.Public.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("graceful shutdown failed", "error", err)
	}
}
