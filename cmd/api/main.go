package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Rishusingh18/industrie24/internal/cache"
	"github.com/Rishusingh18/industrie24/internal/config"
	"github.com/Rishusingh18/industrie24/internal/db"
	"github.com/Rishusingh18/industrie24/internal/httpserver"
	"github.com/Rishusingh18/industrie24/internal/remote"
	"github.com/Rishusingh18/industrie24/internal/session"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	localCache, err := cache.OpenSQLite(cfg.CachePath, logger)
	if err != nil {
		logger.Fatalf("open local cache: %v", err)
	}
	defer localCache.Close()

	remoteStore := remote.NewPostgres(dbpool)
	sessions := session.NewManager(session.Deps{
		Cache:      localCache,
		Remote:     remoteStore,
		Logger:     logger,
		TTL:        cfg.SessionTTL,
		RetryLimit: cfg.OutboxRetryLimit,
		QueueSize:  cfg.OutboxQueueSize,
	})

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Sessions:    sessions,
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}

	// Drain per-session outboxes so queued remote writes land before exit.
	sessions.Close()
}
