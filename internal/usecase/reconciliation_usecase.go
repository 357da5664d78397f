package usecase

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/iho/txledger/internal/domain"
	"github.com/iho/txledger/internal/ledger"
)

// ReconciliationUseCase compares the live ledger against a stored snapshot
type ReconciliationUseCase struct {
	ledger    *ledger.Ledger
	snapshots SnapshotStore
	now       func() time.Time
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(l *ledger.Ledger, snapshots SnapshotStore) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		ledger:    l,
		snapshots: snapshots,
		now:       time.Now,
	}
}

// ReconciliationResult represents the result of reconciling one client.
// Recorded or Calculated is nil when the client is missing on that side.
type ReconciliationResult struct {
	Client       domain.ClientID
	Recorded     *domain.AccountSnapshot
	Calculated   *domain.AccountSnapshot
	Difference   domain.Amount
	IsReconciled bool
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	SnapshotRunID      string
	TotalAccounts      int
	ReconciledAccounts int
	Discrepancies      []*ReconciliationResult
	LedgerConsistent   bool
	CheckedAt          time.Time
}

// GenerateReconciliationReport diffs every client of the latest stored snapshot
// against the ledger, in ascending client order.
func (uc *ReconciliationUseCase) GenerateReconciliationReport(ctx context.Context) (*ReconciliationReport, error) {
	runID, recorded, err := uc.snapshots.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest snapshot: %w", err)
	}

	results := make(map[domain.ClientID]*ReconciliationResult, len(recorded))
	for _, snapshot := range recorded {
		results[snapshot.Client] = &ReconciliationResult{Client: snapshot.Client, Recorded: &snapshot}
	}
	for id, account := range uc.ledger.Entries() {
		calculated := domain.NewAccountSnapshot(id, account)
		result, ok := results[id]
		if !ok {
			result = &ReconciliationResult{Client: id}
			results[id] = result
		}
		result.Calculated = &calculated
	}

	report := &ReconciliationReport{
		SnapshotRunID:    runID,
		TotalAccounts:    len(results),
		Discrepancies:    make([]*ReconciliationResult, 0),
		LedgerConsistent: uc.ledger.CheckConsistency() == nil,
		CheckedAt:        uc.now().UTC(),
	}

	ids := make([]domain.ClientID, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		result := results[id]
		reconcile(result)
		if result.IsReconciled {
			report.ReconciledAccounts++
		} else {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}

	return report, nil
}

func reconcile(r *ReconciliationResult) {
	var recordedTotal, calculatedTotal domain.Amount
	if r.Recorded != nil {
		recordedTotal = r.Recorded.Total
	}
	if r.Calculated != nil {
		calculatedTotal = r.Calculated.Total
	}
	r.Difference = calculatedTotal.Sub(recordedTotal)

	r.IsReconciled = r.Recorded != nil && r.Calculated != nil &&
		r.Recorded.Available.Equal(r.Calculated.Available) &&
		r.Recorded.Held.Equal(r.Calculated.Held) &&
		r.Recorded.Locked == r.Calculated.Locked
}
