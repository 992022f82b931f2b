// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/kamado/internal/api"
	"github.com/starford/kamado/internal/catalog"
	"github.com/starford/kamado/internal/mirror"
	"github.com/starford/kamado/internal/sse"
	"github.com/starford/kamado/internal/storage"
)

// NewStore builds the catalog store from config and loads the document.
// Shared by the HTTP server and the MCP entry point.
func NewStore(cfg *Config, logger *slog.Logger) (*catalog.Store, error) {
	file, err := storage.NewFile(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	var remote mirror.Syncer
	if cfg.Remote.Enabled {
		remote = mirror.New(mirror.Options{
			Owner:   cfg.Remote.Owner,
			Repo:    cfg.Remote.Repo,
			Branch:  cfg.Remote.Branch,
			Path:    cfg.Remote.Path,
			Token:   cfg.Remote.Token,
			APIBase: cfg.Remote.APIBase,
			Timeout: cfg.Remote.Timeout(),
		})
	}

	store := catalog.NewStore(file, remote, logger)
	if err := store.Load(); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return store, nil
}

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("catalog_path", cfg.Catalog.Path),
		slog.Bool("remote_enabled", cfg.Remote.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	store, err := NewStore(cfg, logger)
	if err != nil {
		return err
	}

	// SSE broker; record changes are fanned out to connected clients.
	broker := sse.NewBroker(2 * time.Second)
	store.OnChange(broker.PublishChange)

	apiRouter := api.NewRouter(store, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the catalog file for edits made outside the server.
	g.Go(func() error {
		if err := catalog.Watch(gCtx, store, logger); err != nil {
			logger.Warn("catalog watcher stopped", slog.String("error", err.Error()))
		}
		return nil
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		broker.Close()

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
