package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fentz26/tasklist/internal/audit"
	"github.com/fentz26/tasklist/internal/config"
	"github.com/fentz26/tasklist/internal/server"
	"github.com/fentz26/tasklist/internal/store"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the task API server",
	Long:  `Starts the HTTP task API backed by a local SQLite database.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("listen", config.DefaultListen, "Listen address for the API server")
	serveCmd.Flags().String("db", "", "Path to SQLite database (default ~/.tasklist/tasks.db)")
	serveCmd.Flags().String("base-path", config.DefaultBasePath, "Path the task routes are mounted under")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger(os.Stderr, cfg.Log.Level, true)
	logger.Info("starting tasklist server", "version", server.Version)

	// Initialize store
	s, err := store.New(cfg.Server.DB)
	if err != nil {
		return err
	}

	service := server.NewService(s, audit.NewWriter(s), logger)
	srv := server.NewServer(service, cfg.Server.Listen, cfg.Server.BasePath, logger)

	// Set up signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Channel to receive server errors
	serverErr := make(chan error, 1)

	go func() {
		err := srv.Start()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for shutdown signal or server error
	select {
	case sig := <-sigCh:
		logger.Info("received signal, shutting down", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			logger.Error("server error", "error", err)
			s.Close()
			return err
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown", "error", err)
	}
	if err := s.Close(); err != nil {
		logger.Error("database close", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}
