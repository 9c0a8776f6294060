package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"pdffusion/api"
	"pdffusion/config"
	"pdffusion/entitlement"
	"pdffusion/logging"
	"pdffusion/pdf"
)

// PruneInterval is how often idle rate limit clients are forgotten
const PruneInterval = 5 * time.Minute

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to a YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "pdffusion: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	gin.SetMode(cfg.GinMode)

	// Check pdfcpu availability on startup
	probeCtx, cancelProbe := context.WithTimeout(context.Background(), pdf.ProbeTimeout)
	engine, readiness, err := pdf.SelectEngine(probeCtx, cfg.Engine, cfg.PdfcpuPath, cfg.CLITimeout)
	cancelProbe()
	if err != nil {
		return err
	}
	if readiness.IsReady() {
		logger.Info("pdfcpu CLI is available", logging.F("binary", cfg.PdfcpuPath))
	} else {
		logger.Warn("pdfcpu CLI not available", logging.F("binary", cfg.PdfcpuPath), logging.F("reason", readiness.Reason))
	}

	verifier := entitlement.NewVerifier(cfg.JWTSecret)
	if !verifier.Enabled() {
		logger.Warn("JWT_SECRET not set, every caller is on the free tier")
	}

	server := api.NewServer(cfg, engine, readiness, verifier, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      server.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go server.PruneClients(ctx, PruneInterval)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			logging.F("addr", srv.Addr),
			logging.F("engine", engine.Name()),
			logging.F("max_file_size", pdf.FormatBytes(cfg.MaxFileSize)),
			logging.F("pro_max_file_size", pdf.FormatBytes(cfg.ProMaxFileSize)),
			logging.F("temp_dir", cfg.TempDir),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exited gracefully")
	return nil
}
