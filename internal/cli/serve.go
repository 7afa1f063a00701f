package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/neurosym-core/internal/api"
	"github.com/danielpatrickdp/neurosym-core/internal/seed"
)

const shutdownTimeout = 10 * time.Second

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and /metrics",
		Run:   runServe,
	}
	cmd.Flags().String("addr", "", "Listen address (overrides config and $NEUROSYM_HTTP_ADDR)")
	cmd.Flags().Bool("watch", true, "Reload the configured seeds file when it changes")
	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitErr("config", err)
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.HTTPAddr = addr
	}
	a, err := newApp(cfg, "api")
	if err != nil {
		exitErr("start", err)
	}
	defer a.Close()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewServer(a.orch, a.logger).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if watch, _ := cmd.Flags().GetBool("watch"); watch && cfg.SeedsFile != "" {
		w := &seed.Watcher{
			Path:   cfg.SeedsFile,
			Logger: a.logger,
			Reload: func() error {
				if _, err := importSeeds(a.store, cfg.SeedsFile); err != nil {
					return err
				}
				return a.reloadSeeds()
			},
		}
		go func() {
			if err := w.Run(ctx); err != nil {
				a.logger.Warn("seed watcher stopped", zap.Error(err))
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("shutdown", zap.Error(err))
		}
	}()

	a.logger.Info("listening", zap.String("addr", cfg.HTTPAddr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.logger.Error("serve", zap.Error(err))
	}
}
