package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/hukukrehberi/calc-engine/api"
	"github.com/hukukrehberi/calc-engine/config"
	"github.com/hukukrehberi/calc-engine/factory"
	"github.com/hukukrehberi/calc-engine/logging"
	"github.com/hukukrehberi/calc-engine/store/sqlite"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the calculator API.

STARTUP SEQUENCE:
  1. Load configuration and build the logger
  2. Open the SQLite store (schema is migrated automatically)
  3. Load the preset catalog (built-ins plus presets.dir)
  4. Seed parameters on first start and load the cache
  5. Start the preset scheduler when presets.auto_advance is on
  6. Serve until SIGINT/SIGTERM, then shut down gracefully`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().Int("port", 0, "HTTP port (overrides config)")
	cmd.Flags().String("db", "", `SQLite database path (overrides config, ":memory:" for in-memory)`)
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		cfg.Database.Path = db
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, logger)
}

// serve runs the server until ctx is cancelled.
func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	// Initialize store
	if cfg.Database.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	catalog, err := factory.LoadCatalog(cfg.Presets.Dir)
	if err != nil {
		return fmt.Errorf("failed to load presets: %w", err)
	}

	// Initialize handler
	auth := api.NewAuthenticator(cfg.Auth)
	if !auth.Enabled() {
		logger.Warn("admin login disabled: set auth.jwt_secret and auth.admin_password_hash")
	}
	handler := api.NewHandler(store, catalog, auth, logger)

	if err := handler.EnsureParameters(ctx, cfg.Presets.Active); err != nil {
		return fmt.Errorf("failed to load parameters: %w", err)
	}

	if cfg.Presets.AutoAdvance {
		scheduler := api.NewPresetScheduler(handler, logger)
		scheduler.CheckInterval = cfg.Presets.CheckInterval.Duration
		scheduler.Start()
		defer scheduler.Stop()
	}

	router := api.NewRouter(handler, api.RouterConfig{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		StaticDir:      cfg.Server.StaticDir,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
		IdleTimeout:  4 * cfg.Server.ReadTimeout.Duration,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", server.Addr),
			zap.String("db", cfg.Database.Path),
			zap.Int("presets", len(catalog.List())),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
