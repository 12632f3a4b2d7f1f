// templog - conversational temperature journal service
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

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/ashureev/templog/internal/api"
	"github.com/ashureev/templog/internal/broadcast"
	"github.com/ashureev/templog/internal/chat"
	"github.com/ashureev/templog/internal/config"
	"github.com/ashureev/templog/internal/dialog"
	"github.com/ashureev/templog/internal/identity"
	"github.com/ashureev/templog/internal/middleware"
	"github.com/ashureev/templog/internal/session"
	"github.com/ashureev/templog/internal/store"
	"github.com/ashureev/templog/internal/watchdog"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting templog", "port", cfg.Port, "dev", cfg.IsDevelopment())

	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	var sessions session.Store
	if cfg.RedisURL != "" {
		redisStore, err := session.NewRedisStore(context.Background(), cfg.RedisURL,
			session.WithTTL(cfg.SessionTTL))
		if err != nil {
			slog.Error("Failed to connect session store", "error", err)
			os.Exit(1)
		}
		defer func() {
			if closeErr := redisStore.Close(); closeErr != nil {
				slog.Error("Failed to close session store", "error", closeErr)
			}
		}()
		sessions = redisStore
		slog.Info("Session store ready", "backend", "redis")
	} else {
		sessions = session.NewMemoryStore()
		slog.Info("Session store ready", "backend", "memory")
	}

	hub := chat.NewHub()

	wd := watchdog.New(sessions, hub, cfg.RemindInterval)
	defer wd.Shutdown()

	// Durable mute flags are the source of truth across restarts.
	muted, err := repo.ListMuted(context.Background())
	if err != nil {
		slog.Error("Failed to load mute flags", "error", err)
		os.Exit(1)
	}
	wd.RestoreMuted(muted)
	slog.Info("Mute flags restored", "count", len(muted))

	machine := dialog.NewMachine(sessions, repo, hub, wd, cfg.LocationPrefix)
	chatHandler := chat.NewHandler(machine, hub, cfg.FrontendURL, cfg.IsDevelopment())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sweeper := broadcast.New(repo, hub, wd, cfg.Broadcast.Interval,
		cfg.Broadcast.StartHour, cfg.Broadcast.EndHour)
	go sweeper.Run(ctx)

	allowedOrigins := []string{"*"}
	if !cfg.IsDevelopment() {
		allowedOrigins = []string{cfg.FrontendURL}
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.Logger)
	r.Use(middleware.CORS(allowedOrigins))
	r.Use(identity.Middleware(cfg.IsDevelopment()))
	r.Method(http.MethodGet, "/ws", chatHandler)
	r.Method(http.MethodGet, "/api/health", api.NewHealthHandler(repo))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown failed", "error", err)
	}
}
