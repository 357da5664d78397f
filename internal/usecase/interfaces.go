package usecase

import (
	"context"

	"github.com/iho/txledger/internal/domain"
	"github.com/iho/txledger/internal/ledger"
)

// TransactionSource yields transactions in input order.
// Next returns io.EOF when exhausted. Errors matching domain.ErrMalformedInput
// mark a dropped row; reading continues after them.
type TransactionSource interface {
	Next(ctx context.Context) (domain.Transaction, error)
}

// EventPublisher publishes domain events.
type EventPublisher interface {
	Publish(ctx context.Context, event *domain.Event) error
}

// SnapshotStore persists account snapshots keyed by run.
type SnapshotStore interface {
	Save(ctx context.Context, runID string, accounts []domain.AccountSnapshot) error
	// Latest returns the most recently saved run. It returns domain.ErrSnapshotNotFound
	// when nothing has been saved.
	Latest(ctx context.Context) (runID string, accounts []domain.AccountSnapshot, err error)
}

// IngestObserver is notified of ingestion progress, e.g. for metrics.
type IngestObserver interface {
	TransactionHandled(tx domain.Transaction, result ledger.Result)
	RowDropped()
	RunFinished(report *IngestReport)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}
