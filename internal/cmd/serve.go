package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/shroud-io/shroud/internal/audit"
	"github.com/shroud-io/shroud/internal/config"
	"github.com/shroud-io/shroud/internal/server"
)

var (
	servePort    int
	serveNoAudit bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the shroud HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "HTTP server port")
	serveCmd.Flags().BoolVar(&serveNoAudit, "no-audit", false, "disable the audit store")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	opts := []server.Option{
		server.WithDefaultFill(cfg.FillRune()),
		server.WithMaxTextBytes(int64(cfg.MaxTextBytes)),
	}

	var auditStore *audit.Store
	if !serveNoAudit {
		auditStore, err = audit.NewStore(cfg.AuditDBPath())
		if err != nil {
			log.Warn().Err(err).Msg("audit store unavailable")
		} else {
			defer auditStore.Close()
			opts = append(opts, server.WithAuditStore(auditStore))
		}
	}

	srv := server.NewServer(engine, opts...)

	addr := fmt.Sprintf(":%d", servePort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv.Routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().
		Str("addr", addr).
		Bool("audit", auditStore != nil).
		Bool("statistical_ner", cfg.StatisticalURL != "").
		Bool("transformer_ner", cfg.TransformerURL != "").
		Msg("shroud_serve_started")

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown_signal_received")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("server_stopped")
	return nil
}
