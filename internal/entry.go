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

	"github.com/starford/berkana/internal/api"
	"github.com/starford/berkana/internal/mcpserver"
	"github.com/starford/berkana/internal/session"
	"github.com/starford/berkana/internal/shell"
	"github.com/starford/berkana/internal/sse"
	"github.com/starford/berkana/internal/storage"
)

var errConfigRequired = errors.New("config is required")

// Run starts the HTTP API with the given options and blocks until shutdown.
// Both collections are saved once more before returning.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := app.logger()
	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("storage_driver", cfg.Storage.Driver),
		slog.String("storage_dir", cfg.Storage.Dir),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	sess, store, err := app.openSession(ctx, logger,
		session.WithNotifier(broker.PublishChange),
		session.WithAutosave(cfg.Storage.SaveOnChange),
	)
	if err != nil {
		return err
	}
	defer store.Close()

	apiRouter := api.NewRouter(sess, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker, cfg.Birthdays.DefaultDays)

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

	// Reload snapshots edited outside this process.
	if fs, ok := store.(*storage.FS); ok && cfg.Storage.Watch {
		g.Go(func() error {
			return fs.Watch(gCtx, logger, func(name string) {
				err := sess.Reload(gCtx, name)
				switch {
				case err == nil:
				case errors.Is(err, session.ErrUnsavedChanges):
					logger.Warn("external change ignored, in-memory edits are unsaved",
						slog.String("file", name))
				default:
					logger.Warn("reload failed",
						slog.String("file", name),
						slog.String("error", err.Error()))
				}
			})
		})
	}

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
		defer signal.Stop(quit)

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

		// Stop the watcher as well when shutdown came from a signal.
		return errShutdown
	})

	err = g.Wait()
	if saveErr := sess.Save(context.Background()); saveErr != nil {
		logger.Error("final save failed", slog.String("error", saveErr.Error()))
		if err == nil || errors.Is(err, errShutdown) {
			err = saveErr
		}
	}
	if err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

var errShutdown = errors.New("shutdown")

// RunShell starts the interactive menu. The session is saved when the menu exits.
func RunShell(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.logger()

	sess, store, err := app.openSession(ctx, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	sh := shell.New(sess, app.in, app.out,
		shell.WithLogger(logger),
		shell.WithDefaultDays(app.config.Birthdays.DefaultDays),
	)
	return sh.Run(ctx)
}

// RunMCP serves MCP tools on stdin/stdout until the client disconnects.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.logger()

	sess, store, err := app.openSession(ctx, logger,
		session.WithAutosave(app.config.Storage.SaveOnChange),
	)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := mcpserver.New(sess, app.config.Birthdays.DefaultDays)
	logger.Info("MCP server starting on stdio")
	serveErr := srv.ServeStdio()
	if err := sess.Save(context.Background()); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	if serveErr != nil {
		return fmt.Errorf("mcp server: %w", serveErr)
	}
	return nil
}

// RunCommand loads the session, runs fn, and saves when fn succeeds.
// It backs the one-shot CLI commands.
func RunCommand(ctx context.Context, fn func(context.Context, *session.Session) error, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.logger()

	sess, store, err := app.openSession(ctx, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := fn(ctx, sess); err != nil {
		return err
	}
	return sess.Save(ctx)
}

func (a *application) logger() *slog.Logger {
	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(a.logOut, &slog.HandlerOptions{
		Level: a.config.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// openSession prepares the data directory, opens the configured backend and
// loads both collections.
func (a *application) openSession(ctx context.Context, logger *slog.Logger, extra ...session.Option) (*session.Session, storage.Provider, error) {
	cfg := a.config
	if err := os.MkdirAll(cfg.Storage.Dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create data dir: %w", err)
	}

	store, err := storage.Open(cfg.Storage.Options())
	if err != nil {
		return nil, nil, fmt.Errorf("init storage: %w", err)
	}

	opts := append([]session.Option{session.WithLogger(logger)}, extra...)
	sess := session.New(store, opts...)
	if err := sess.Load(ctx); err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("load data: %w", err)
	}
	return sess, store, nil
}
