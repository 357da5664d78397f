package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/spf13/cobra"

	httpAdapter "github.com/iho/txledger/internal/adapter/http"
	"github.com/iho/txledger/internal/adapter/http/handler"
	"github.com/iho/txledger/internal/adapter/http/middleware"
	"github.com/iho/txledger/internal/infrastructure/logger"
)

const rateLimiterIdle = 10 * time.Minute

func newServeCmd(stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "serve <transactions.csv>",
		Short: "Ingest a file and serve the resulting accounts over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), stderr, func(a *app) error {
				report, err := a.ingest(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				listener, err := net.Listen("tcp", ":"+a.cfg.HTTPPort)
				if err != nil {
					return fmt.Errorf("failed to listen on port %s: %w", a.cfg.HTTPPort, err)
				}
				return a.serveAndStore(cmd.Context(), listener, report.RunID)
			})
		},
	}
}

// serveAndStore serves the report API and stores the run's snapshot once the
// server has stopped, so reconciliation compares against the previous run.
func (a *app) serveAndStore(ctx context.Context, listener net.Listener, runID string) error {
	err := a.serve(ctx, listener)
	a.saveSnapshot(context.WithoutCancel(ctx), runID)
	return err
}

// serve runs the report API on listener until ctx is cancelled.
func (a *app) serve(ctx context.Context, listener net.Listener) error {
	var limiter *middleware.RateLimiter
	if a.cfg.HTTPRateLimit > 0 {
		limiter = middleware.NewRateLimiter(a.cfg.HTTPRateLimit, a.cfg.HTTPRateBurst)
	}

	var reconciliation handler.ReconciliationService
	if a.reconciliationUC != nil {
		reconciliation = a.reconciliationUC
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler: handler.NewAccountHandler(a.ledgerUC),
		LedgerHandler:  handler.NewLedgerHandler(a.ledgerUC, reconciliation),
		HealthHandler:  handler.NewHealthHandler(a.redisClient),
		Metrics:        a.metrics,
		Gatherer:       a.registry,
		Logger:         logger.Component(a.logger, "http"),
		RateLimiter:    limiter,
	})

	server := &http.Server{
		Handler:      router,
		ReadTimeout:  a.cfg.HTTPReadTimeout,
		WriteTimeout: a.cfg.HTTPWriteTimeout,
		IdleTimeout:  a.cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info().Str("addr", listener.Addr().String()).Msg("starting server")
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	if limiter != nil {
		var sweeper sync.WaitGroup
		sweepCtx, stopSweep := context.WithCancel(ctx)
		defer sweeper.Wait()
		defer stopSweep()

		sweeper.Add(1)
		go func() {
			defer sweeper.Done()
			ticker := time.NewTicker(rateLimiterIdle)
			defer ticker.Stop()
			for {
				select {
				case <-sweepCtx.Done():
					return
				case <-ticker.C:
					limiter.Cleanup(rateLimiterIdle)
				}
			}
		}()
	}

	select {
	case err, failed := <-errCh:
		if failed {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	a.logger.Info().Msg("server stopped")
	return nil
}
