package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/duskdb/duskdb/internal/config"
	"github.com/duskdb/duskdb/internal/logger"
	"github.com/duskdb/duskdb/internal/server"
	"github.com/duskdb/duskdb/internal/storage"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		panic(err)
	}

	// A single optional positional argument overrides the configured port,
	// mirroring redis-server's own CLI convention.
	if len(os.Args) > 1 {
		cfg.Server.Port = os.Args[1]
	}

	log, logLevel, err := logger.NewDynamicWithFileRotation(cfg.Log.Level, cfg.Log.Format, "logs")
	if err != nil {
		panic(err)
	}
	defer log.Sync() //nolint:errcheck

	log.Info("duskdb starting", zap.String("port", cfg.Server.Port))

	db := storage.New()

	engine, err := server.NewEngine(db, cfg, log)
	if err != nil {
		log.Error("cannot initialize engine", zap.Error(err))
		return
	}

	// gc.interval and log.level can be changed on disk and take effect
	// without a restart; everything else in config still requires one.
	onReload := func(newCfg *config.Config) {
		logger.SetLevel(logLevel, newCfg.Log.Level)
		engine.SetGCInterval(newCfg.GC.Interval)
		log.Info("config reloaded",
			zap.String("log_level", newCfg.Log.Level),
			zap.Duration("gc_interval", newCfg.GC.Interval),
		)
	}

	stopWatch, err := config.WatchForChanges(".", log, onReload)
	if err != nil {
		log.Warn("config hot-reload disabled", zap.Error(err))
	} else {
		defer stopWatch()
	}

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := server.NewServer(addr, engine, log, 0)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(ctx)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			log.Error("server stopped unexpectedly", zap.Error(err))
		}
	}

	log.Info("shutting down...")
	if err := srv.Shutdown(shutdownTimeout); err != nil {
		log.Warn("shutdown reported errors", zap.Error(err))
	}

	log.Info("duskdb stopped")
}
