package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Vlad-Goncharow/myGeoGuesserServer/internal/config"
	"github.com/Vlad-Goncharow/myGeoGuesserServer/internal/game"
	"github.com/Vlad-Goncharow/myGeoGuesserServer/internal/observability"
	"github.com/Vlad-Goncharow/myGeoGuesserServer/internal/server"
	"github.com/Vlad-Goncharow/myGeoGuesserServer/internal/store"
)

func main() {
	cfg := config.Load()

	log, err := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var opts []game.Option
	if cfg.DatabaseURL != "" {
		pg, err := store.New(ctx, cfg.DatabaseURL, log)
		if err != nil {
			log.Fatal("connecting to database", zap.Error(err))
		}
		defer pg.Close()
		opts = append(opts, game.WithUserResolver(pg))
	}
	if cfg.RoundTimer {
		opts = append(opts, game.WithRoundTimer())
	}

	hub := game.NewHub(log, opts...)
	srv := server.New(log, hub).HTTPServer(cfg.HTTPAddr)

	go func() {
		log.Info("listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown incomplete", zap.Error(err))
	}
}
