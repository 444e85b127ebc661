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
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/cafe-fausse/server/internal/api"
	"github.com/cafe-fausse/server/internal/cafeservice"
	"github.com/cafe-fausse/server/internal/mcpserver"
	"github.com/cafe-fausse/server/internal/menu"
	"github.com/cafe-fausse/server/internal/sse"
	"github.com/cafe-fausse/server/internal/store"
)

// sessionPurgeInterval is how often expired admin sessions are swept.
const sessionPurgeInterval = time.Hour

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

	// Initialize structured JSON logger. In MCP mode stdout carries the
	// protocol, so logs go to stderr.
	logOut := os.Stdout
	if app.mcpMode {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("menu_data_dir", cfg.Menu.DataDir),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure the menu data directory exists.
	if err := os.MkdirAll(cfg.Menu.DataDir, 0o755); err != nil {
		return fmt.Errorf("create menu data dir: %w", err)
	}
	if dir := filepath.Dir(cfg.SQLite.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	// Initialize SQLite store.
	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	// Initialize menu document provider.
	provider, err := menu.NewFS(cfg.Menu.DataDir)
	if err != nil {
		return fmt.Errorf("init menu provider: %w", err)
	}

	svc := cafeservice.NewService(db, provider, logger, cafeservice.Options{
		AdminUsername:     cfg.Admin.Username,
		AdminPasswordHash: cfg.Admin.PasswordHash,
		SessionTTL:        cfg.Admin.SessionTTL,
		TotalTables:       cfg.Reservations.TotalTables,
	})

	if app.mcpMode {
		logger.Info("Starting MCP server on stdio")
		return mcpserver.New(svc).ServeStdio()
	}

	// SSE broker; menu mutations fan out to subscribed clients.
	broker := sse.NewBroker(2 * time.Second)
	svc.SetNotify(broker.PublishMenuEvent)

	apiRouter := api.NewRouter(svc, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the menu file for out-of-band edits and notify SSE clients.
	g.Go(func() error {
		if err := menu.Watch(gCtx, cfg.Menu.DataDir, logger, func() {
			broker.Publish(sse.Event{Type: "menu.updated", Data: struct{}{}})
		}); err != nil {
			logger.Warn("menu watcher unavailable", slog.String("error", err.Error()))
		}
		return nil
	})

	// Sweep expired admin sessions.
	g.Go(func() error {
		ticker := time.NewTicker(sessionPurgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gCtx.Done():
				return nil
			case <-ticker.C:
				n, err := db.PurgeExpiredSessions(time.Now())
				if err != nil {
					logger.Warn("session purge failed", slog.String("error", err.Error()))
					continue
				}
				if n > 0 {
					logger.Info("purged expired sessions", slog.Int64("count", n))
				}
			}
		}
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
