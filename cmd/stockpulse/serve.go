package main

import (
	"context"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"StockPulse/internal/scheduler"
	"StockPulse/internal/server"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()
			return runServer(app)
		},
	}
}

func runServer(app *app) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sched := scheduler.New(ctx, app.fallback, app.engine, app.cfg.Watchlist.Symbols, app.logger)
	if err := sched.Register(app.cfg.Watchlist.RefreshCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	srv := server.New(app.logger, app.fallback, app.overview, app.engine)
	httpServer := &http.Server{
		Addr:    net.JoinHostPort(app.cfg.Server.Host, app.cfg.Server.Port),
		Handler: srv.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("server listening", zap.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info("shutdown signal received, stopping")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		app.logger.Warn("http server shutdown", zap.Error(err))
	}
	return nil
}
