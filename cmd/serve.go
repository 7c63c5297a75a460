package cmd

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

	"spendcast/internal/config"
	"spendcast/internal/engine"
	"spendcast/internal/server"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP prediction API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	// Optional .env for local development; missing file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	addr := cfg.Server.Addr
	if flagAddr != "" {
		addr = flagAddr
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	st := openStore()
	var svc *engine.Service
	if st != nil {
		defer st.Close()
		svc = engine.NewService(st)
	} else {
		svc = engine.NewService(nil)
	}
	if err := svc.Initialize(); err != nil {
		logger.Warn("saved model unusable, starting untrained", "error", err)
	}

	srv := server.New(svc, server.WithLogger(logger), server.WithMarket(newMarketClient(cfg)))
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}
