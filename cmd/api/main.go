// Package main is the entry point for the Konakovo site API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/struchkova/konakovo-backend/internal/cache"
	"github.com/struchkova/konakovo-backend/internal/config"
	"github.com/struchkova/konakovo-backend/internal/handler"
	"github.com/struchkova/konakovo-backend/internal/middleware"
	"github.com/struchkova/konakovo-backend/internal/repo"
	"github.com/struchkova/konakovo-backend/internal/richtext"
	"github.com/struchkova/konakovo-backend/internal/service"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	store := repo.NewStore(pool)

	// --- Cache ------------------------------------------------------------
	// The catalog works without Redis; an unreachable cache only costs
	// latency, so startup continues without it.
	var catalogCache cache.Cache = cache.Nop{}
	if cfg.RedisURL != "" {
		client, err := cache.Open(context.Background(), cfg.RedisURL)
		if err != nil {
			slog.Warn("catalog cache disabled", "error", err)
		} else {
			defer client.Close()
			catalogCache = cache.NewRedis(client, "konakovo:", cfg.CacheTTL)
			slog.Info("catalog cache enabled", "ttl", cfg.CacheTTL.String())
		}
	}

	// --- Services ---------------------------------------------------------
	catalog := service.NewCatalogService(store.Repos, catalogCache, logger)
	content := service.NewContentService(store.Repos, richtext.New())
	leads := service.NewLeadService(store.Repos, store)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID, RealIP, Logger, Metrics,
	// Recoverer, CORS, MaxBodySize, StripSlashes.
	// Recoverer sits inside Logger and Metrics so that panics are recorded
	// as 500s.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(middleware.NewMetrics(prometheus.DefaultRegisterer).Handler)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Use(chimiddleware.StripSlashes)

	if cfg.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}
	if cfg.MediaRoot != "" && strings.HasPrefix(cfg.MediaURL, "/") {
		prefix := strings.TrimSuffix(cfg.MediaURL, "/") + "/"
		r.Handle(prefix+"*", http.StripPrefix(prefix, http.FileServer(http.Dir(cfg.MediaRoot))))
		slog.Info("serving media", "url", prefix, "root", cfg.MediaRoot)
	}

	handler.NewServer(catalog, content, leads, cfg.MediaURL).Register(r)

	// --- HTTP Server ------------------------------------------------------
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
