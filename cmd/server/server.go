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

	"github.com/itsolution4india/webhook-develop/internal/audit"
	"github.com/itsolution4india/webhook-develop/internal/config"
	"github.com/itsolution4india/webhook-develop/internal/dashboard"
	"github.com/itsolution4india/webhook-develop/internal/db"
	"github.com/itsolution4india/webhook-develop/internal/metrics"
	"github.com/itsolution4india/webhook-develop/internal/services"
	"github.com/itsolution4india/webhook-develop/internal/whatsapp"
	"github.com/itsolution4india/webhook-develop/pkg/logger"
	"github.com/itsolution4india/webhook-develop/router"

	"go.uber.org/zap"
)

var version = "dev"

// SetupServer initializes and returns a configured HTTP server
func SetupServer(cfg *config.Config) (*http.Server, error) {
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}

	if cfg.Server.Port <= 0 {
		return nil, errors.New("invalid server port")
	}

	// Initialize database
	database, err := db.NewDatabase(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	reportRepo := db.NewReportRepository(database.GetDB())

	auditWriter, err := audit.NewWriter(cfg.Audit.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audit writer: %w", err)
	}

	// Outbound clients. The dashboard relay is optional; without a URL
	// replies simply are not forwarded.
	var forwarder services.Forwarder
	if cfg.Dashboard.URL != "" {
		forwarder = dashboard.NewClient(cfg.Dashboard.URL, cfg.Dashboard.Timeout)
	}

	var replier services.Replier
	if cfg.Provider.AccessToken != "" {
		replier = whatsapp.NewClient(cfg.Provider.BaseURL, cfg.Provider.AccessToken, cfg.Provider.Timeout)
	}

	reportService := services.NewReportService(reportRepo, forwarder, replier, auditWriter, cfg.Provider.ReplyTemplate)

	metrics.Register()

	handler := router.NewRouter(reportService, reportRepo, cfg.Webhook.VerifyToken)

	logger.Info("Server configured",
		zap.String("version", version),
		zap.Int("port", cfg.Server.Port),
		zap.Bool("dashboard_enabled", forwarder != nil),
		zap.Bool("auto_reply_enabled", replier != nil),
	)

	// Create server with security timeouts
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return srv, nil
}

// StartServer starts the HTTP server and handles graceful shutdown
func StartServer(srv *http.Server) error {
	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Create a timeout context for shutdown
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}

// StartServerWithContext starts the HTTP server with a context for shutdown control
func StartServerWithContext(ctx context.Context, srv *http.Server) error {
	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	// Wait for context cancellation
	<-ctx.Done()

	logger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}
