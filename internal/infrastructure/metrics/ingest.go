package metrics

import (
	"errors"

	"github.com/iho/txledger/internal/domain"
	"github.com/iho/txledger/internal/ledger"
	"github.com/iho/txledger/internal/usecase"
)

// IngestRecorder records ingestion progress into Metrics.
type IngestRecorder struct {
	metrics *Metrics
	ledger  *ledger.Ledger
}

// NewIngestRecorder creates an IngestRecorder. The ledger is used to report
// the number of known accounts.
func NewIngestRecorder(m *Metrics, l *ledger.Ledger) *IngestRecorder {
	return &IngestRecorder{metrics: m, ledger: l}
}

// TransactionHandled counts tx by kind and result.
func (r *IngestRecorder) TransactionHandled(tx domain.Transaction, result ledger.Result) {
	kind := string(tx.Kind())
	r.metrics.TransactionsProcessed.WithLabelValues(kind, ResultLabel(result)).Inc()

	if result.Applied && !tx.Kind().IsSettlement() {
		amount, _ := tx.Amount().Decimal().Float64()
		r.metrics.TransactionAmount.WithLabelValues(kind).Observe(amount)
	}
	if result.Froze {
		r.metrics.AccountsFrozen.Inc()
	}
}

// RowDropped counts a row rejected by the input reader.
func (r *IngestRecorder) RowDropped() {
	r.metrics.RowsDropped.Inc()
}

// RunFinished records the run duration and the account count.
func (r *IngestRecorder) RunFinished(report *usecase.IngestReport) {
	r.metrics.IngestDuration.Observe(report.Duration.Seconds())
	r.metrics.AccountsKnown.Set(float64(r.ledger.Len()))
}

// ResultLabel maps a ledger result to a low-cardinality label value.
func ResultLabel(result ledger.Result) string {
	if result.Applied {
		return "applied"
	}

	switch err := result.Reason; {
	case errors.Is(err, domain.ErrDuplicateTransaction):
		return "duplicate"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrAccountLocked):
		return "locked"
	case errors.Is(err, domain.ErrAccountDoesNotExist):
		return "unknown_account"
	case errors.Is(err, domain.ErrDisputedNonExistent):
		return "unknown_tx"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	default:
		return "ignored"
	}
}
