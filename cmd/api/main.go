// @title           Traction API
// @version         1.0
// @description     Projects, ordered sections and tasks, with due-date views.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name session_id
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/josh-kartchner/traction/internal/app"
	"github.com/josh-kartchner/traction/internal/config"
	"github.com/josh-kartchner/traction/internal/logging"

	_ "github.com/josh-kartchner/traction/docs"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "traction",
		Short:         "Traction task tracker API",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and start the HTTP server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := load()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("config loaded, connecting to postgres and redis")
	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("app init: %w", err)
	}

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.HTTP.Port,
		Handler:      application.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout.Duration(),
		WriteTimeout: cfg.HTTP.WriteTimeout.Duration(),
		IdleTimeout:  cfg.HTTP.IdleTimeout.Duration(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", server.Addr).Info("http.listen")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		if err != nil {
			logger.WithError(err).Error("http.serve")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("http.shutdown")
	}
	return application.Close(shutdownCtx)
}

func load() (config.Config, *log.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("config: %w", err)
	}
	return cfg, logging.New(cfg.Log), nil
}
