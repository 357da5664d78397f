package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/iho/txledger/internal/adapter/csvio"
	"github.com/iho/txledger/internal/domain"
	"github.com/iho/txledger/internal/usecase"
)

func newCheckCmd(stdout, stderr io.Writer) *cobra.Command {
	var reconcile bool

	cmd := &cobra.Command{
		Use:   "check <transactions.csv>",
		Short: "Ingest a file and verify the ledger balances",
		Long: `check ingests the file, prints an ingestion report and verifies that the
liabilities leg cancels every client total. With --reconcile the result is also
compared against the latest snapshot stored in Redis. check never stores a snapshot.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), stderr, func(a *app) error {
				if reconcile && a.reconciliationUC == nil {
					return errors.New("--reconcile requires REDIS_URL")
				}

				report, err := a.ingest(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printReport(stdout, report)

				ok := true
				if _, err := a.ledgerUC.CheckConsistency(cmd.Context()); err != nil {
					fmt.Fprintf(stdout, "Consistency check FAILED: %v\n", err)
					ok = false
				} else {
					fmt.Fprintln(stdout, "Consistency check PASSED")
				}

				if reconcile && !printReconciliation(cmd, stdout, a.reconciliationUC) {
					ok = false
				}

				if !ok {
					return errInconsistent
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&reconcile, "reconcile", false, "compare against the latest stored snapshot")
	return cmd
}

func printReport(w io.Writer, r *usecase.IngestReport) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Run:\t%s\n", r.RunID)
	fmt.Fprintf(tw, "Rows read:\t%d\n", r.RowsRead)
	fmt.Fprintf(tw, "Applied:\t%d\n", r.Applied)
	fmt.Fprintf(tw, "Ignored:\t%d\n", r.Ignored)
	fmt.Fprintf(tw, "Dropped:\t%d\n", r.Dropped)
	fmt.Fprintf(tw, "Frozen:\t%d\n", r.Frozen)
	fmt.Fprintf(tw, "Duration:\t%s\n", r.Duration)
	_ = tw.Flush()
}

func printReconciliation(cmd *cobra.Command, w io.Writer, uc *usecase.ReconciliationUseCase) bool {
	report, err := uc.GenerateReconciliationReport(cmd.Context())
	if errors.Is(err, domain.ErrSnapshotNotFound) {
		fmt.Fprintln(w, "Reconciliation skipped: no stored snapshot")
		return true
	}
	if err != nil {
		fmt.Fprintf(w, "Reconciliation FAILED: %v\n", err)
		return false
	}

	fmt.Fprintf(w, "Reconciled %d/%d accounts against snapshot %s\n",
		report.ReconciledAccounts, report.TotalAccounts, report.SnapshotRunID)
	for _, d := range report.Discrepancies {
		fmt.Fprintf(w, "  client %d: difference %s\n", d.Client, d.Difference)
	}
	return len(report.Discrepancies) == 0
}

func newSnapshotCmd(stdout, stderr io.Writer) *cobra.Command {
	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Stored snapshot operations",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the latest stored snapshot as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), stderr, func(a *app) error {
				if a.redisClient == nil {
					return errors.New("snapshot show requires REDIS_URL")
				}
				runID, accounts, err := a.ledgerUC.LatestSnapshot(cmd.Context())
				if err != nil {
					return err
				}
				a.logger.Info().Str("run_id", runID).Int("accounts", len(accounts)).Msg("loaded snapshot")
				return csvio.WriteSnapshots(stdout, accounts)
			})
		},
	}

	snapshotCmd.AddCommand(showCmd)
	return snapshotCmd
}
