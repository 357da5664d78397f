package usecase

import (
	"context"
	"fmt"

	"github.com/iho/txledger/internal/domain"
	"github.com/iho/txledger/internal/ledger"
)

// LedgerUseCase handles read-side ledger operations.
type LedgerUseCase struct {
	ledger    *ledger.Ledger
	snapshots SnapshotStore
}

// NewLedgerUseCase creates a new LedgerUseCase. snapshots may be nil when no
// snapshot store is configured.
func NewLedgerUseCase(l *ledger.Ledger, snapshots SnapshotStore) *LedgerUseCase {
	return &LedgerUseCase{
		ledger:    l,
		snapshots: snapshots,
	}
}

// ListAccounts returns every account in ascending client order.
func (uc *LedgerUseCase) ListAccounts(_ context.Context) []domain.AccountSnapshot {
	accounts := make([]domain.AccountSnapshot, 0, uc.ledger.Len())
	for id, account := range uc.ledger.Entries() {
		accounts = append(accounts, domain.NewAccountSnapshot(id, account))
	}
	return accounts
}

// GetAccount returns a single account.
func (uc *LedgerUseCase) GetAccount(_ context.Context, id domain.ClientID) (domain.AccountSnapshot, error) {
	account, ok := uc.ledger.GetAccount(id)
	if !ok {
		return domain.AccountSnapshot{}, fmt.Errorf("%w: client %d", domain.ErrAccountNotFound, id)
	}
	return domain.NewAccountSnapshot(id, account), nil
}

// CheckConsistency verifies that the ledger is balanced.
func (uc *LedgerUseCase) CheckConsistency(_ context.Context) (bool, error) {
	if err := uc.ledger.CheckConsistency(); err != nil {
		return false, err
	}
	return true, nil
}

// SaveSnapshot stores the current accounts under runID. It is a no-op without
// a snapshot store.
func (uc *LedgerUseCase) SaveSnapshot(ctx context.Context, runID string) error {
	if uc.snapshots == nil {
		return nil
	}
	if err := uc.snapshots.Save(ctx, runID, uc.ListAccounts(ctx)); err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", runID, err)
	}
	return nil
}

// LatestSnapshot returns the most recently stored snapshot.
func (uc *LedgerUseCase) LatestSnapshot(ctx context.Context) (string, []domain.AccountSnapshot, error) {
	if uc.snapshots == nil {
		return "", nil, fmt.Errorf("%w: no snapshot store configured", domain.ErrSnapshotNotFound)
	}
	return uc.snapshots.Latest(ctx)
}
