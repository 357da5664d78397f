package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iho/txledger/internal/adapter/csvio"
	"github.com/iho/txledger/internal/infrastructure/config"
)

// errInconsistent makes `check` exit non-zero without printing a second message.
var errInconsistent = errors.New("ledger check failed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errInconsistent) {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "txledger <transactions.csv>",
		Short: "Replay a transaction stream into client account balances",
		Long: `txledger reads deposits, withdrawals, disputes, resolves and chargebacks
from a CSV file and writes the resulting client accounts as CSV to stdout.

Configuration is read from the environment (LOG_LEVEL, REDIS_URL, KAFKA_BROKERS, ...).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), stderr, func(a *app) error {
				report, err := a.ingest(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				a.saveSnapshot(cmd.Context(), report.RunID)
				return csvio.WriteAccounts(stdout, a.ledger.Entries())
			})
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.AddCommand(
		newServeCmd(stderr),
		newCheckCmd(stdout, stderr),
		newSnapshotCmd(stdout, stderr),
		newRemoteCmd(stdout),
	)

	return rootCmd
}

// withApp loads configuration, builds the app and tears it down after fn.
func withApp(ctx context.Context, stderr io.Writer, fn func(a *app) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	a, err := newApp(ctx, cfg, stderr)
	if err != nil {
		return err
	}
	defer a.close()
	defer a.writeMetrics()

	return fn(a)
}
