package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dhabedank/ad-agent/internal/server"
)

var serveListen string

// ServeCmd serves the workflow as a small web form.
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the workflow over HTTP",
	Long: `Start an HTTP server with a browser form and a JSON API:

  GET  /             form
  GET  /health       liveness
  GET  /api/state    current session
  POST /api/ads      upload a CSV (multipart field "file"), or load the default file
  POST /api/analyze  {"credentials": "..."}
  POST /api/generate {"brand": "...", "credentials": "..."}

Requests without credentials fall back to the provider environment variable.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	ServeCmd.Flags().StringVar(&serveListen, "listen", "", "Listen address (default: listen from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("listen") {
		cfg.Listen = serveListen
	}

	logger, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctrl, err := newController(cfg, logger)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	h := server.NewHandler(server.Options{
		Controller:  ctrl,
		Logger:      logger,
		DataPath:    cfg.DataFile,
		Credentials: resolveCredentials("", cfg),
	})

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           server.NewRouter(h, cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := signalContext()
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Listen), zap.String("provider", cfg.Provider))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.Timeout()+5*time.Second)
	defer stop()
	return srv.Shutdown(shutdownCtx)
}
