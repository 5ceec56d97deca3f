package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parking-api/internal/auth"
	"parking-api/internal/config"
	"parking-api/internal/database"
	"parking-api/internal/handlers"
	"parking-api/internal/realtime"
	"parking-api/internal/routes"
	"parking-api/internal/store"
	"parking-api/internal/usercache"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", "error", err)
		os.Exit(1)
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Error("database open failed", "error", err)
		os.Exit(1)
	}
	if err := database.EnsureAdmin(db, "admin", "admin"); err != nil {
		log.Error("admin seed failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gw := store.New(db, log)

	var cache usercache.Cache
	if cfg.RedisURL != "" {
		redisCache, err := usercache.NewRedis(ctx, cfg.RedisURL, log)
		if err != nil {
			log.Error("redis connect failed", "error", err)
			os.Exit(1)
		}
		defer redisCache.Close()
		cache = redisCache
	} else {
		cache = usercache.NewMemory()
	}

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)

	updater := realtime.NewUpdater(gw, log)
	checker := realtime.NewDateChecker(gw, updater, cfg.CheckInterval, log)
	checker.Start(ctx)

	router := routes.SetupRoutes(routes.Deps{
		Tokens:   tokens,
		Auth:     handlers.NewAuthHandler(gw, tokens, cache),
		Users:    handlers.NewUserHandler(gw, cache),
		Messages: handlers.NewMessageHandler(gw),
		Places:   handlers.NewPlaceHandler(gw, updater),
		Streams:  handlers.NewStreamHandler(updater, log),
		Build:    cfg.Build,
		WebDir:   cfg.WebDir,
	})

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	go func() {
		log.Info("server starting", "addr", cfg.Addr, "build", cfg.Build)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "error", err)
	}
}
