// Package server boots the pizzeria API: it connects storage, assembles
// the HTTP kernel, starts the optional gRPC health server and serves until
// the context is cancelled.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/pizzeria/config"
	"github.com/shashiranjanraj/pizzeria/pkg/auth"
	"github.com/shashiranjanraj/pizzeria/pkg/cache"
	"github.com/shashiranjanraj/pizzeria/pkg/database"
	"github.com/shashiranjanraj/pizzeria/pkg/grpc"
	"github.com/shashiranjanraj/pizzeria/pkg/logger"
	"github.com/shashiranjanraj/pizzeria/pkg/ws"
)

const shutdownTimeout = 15 * time.Second

// Start runs the API until ctx is done, then shuts down gracefully.
func Start(ctx context.Context) error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if uri := config.LogMongoURI(); uri != "" {
		sink, err := logger.NewMongoHandler(uri, config.LogMongoDB(), config.LogMongoCollection())
		if err != nil {
			logger.Warn("mongo log sink disabled", "error", err)
		} else {
			logger.Attach(sink)
			defer sink.Close()
		}
	}

	if err := database.Connect(); err != nil {
		return err
	}
	defer database.Close(database.DB)

	var rdb *redis.Client
	if c, err := cache.Connect(ctx); err != nil {
		logger.Warn("redis unavailable, user cache disabled", "error", err)
	} else {
		rdb = c
		defer rdb.Close()
	}

	hub := ws.NewHub()
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go hub.Run(hubCtx)

	kernel, err := NewKernel(Deps{
		DB:     database.DB,
		Redis:  rdb,
		Tokens: auth.NewTokens(config.JWTSecret(), config.JWTTTL()),
		Hub:    hub,
	})
	if err != nil {
		return fmt.Errorf("build kernel: %w", err)
	}

	if port := config.GRPCPort(); port != "" {
		gs, err := grpc.Start(port, func(ctx context.Context) error {
			return database.Ping(ctx, database.DB)
		})
		if err != nil {
			return err
		}
		defer gs.Stop()
	}

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           kernel.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("pizzeria API listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
