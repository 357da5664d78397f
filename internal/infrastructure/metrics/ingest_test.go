package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iho/txledger/internal/domain"
	"github.com/iho/txledger/internal/ledger"
	"github.com/iho/txledger/internal/usecase"
)

func TestResultLabel(t *testing.T) {
	tests := []struct {
		name   string
		result ledger.Result
		want   string
	}{
		{"applied", ledger.Result{Applied: true}, "applied"},
		{"duplicate", ledger.Result{Reason: fmt.Errorf("%w: tx 1", domain.ErrDuplicateTransaction)}, "duplicate"},
		{"insufficient funds", ledger.Result{Reason: domain.ErrInsufficientFunds}, "insufficient_funds"},
		{"locked", ledger.Result{Reason: domain.ErrAccountLocked}, "locked"},
		{"unknown account", ledger.Result{Reason: domain.ErrAccountDoesNotExist}, "unknown_account"},
		{"unknown tx", ledger.Result{Reason: domain.ErrDisputedNonExistent}, "unknown_tx"},
		{"invalid transition", ledger.Result{Reason: domain.ErrInvalidTransition}, "invalid_transition"},
		{"other", ledger.Result{Reason: domain.ErrUnknownTransaction}, "ignored"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResultLabel(tt.result); got != tt.want {
				t.Fatalf("ResultLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIngestRecorder(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)
	l := ledger.New()
	r := NewIngestRecorder(m, l)

	d, err := domain.NewDeposit(1, 1, domain.MustParseAmount("5"))
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	r.TransactionHandled(d, l.Apply(d))
	r.TransactionHandled(d, l.Apply(d))

	dispute := domain.NewDispute(1, 1)
	r.TransactionHandled(dispute, l.Apply(dispute))
	chargeback := domain.NewChargeback(1, 1)
	r.TransactionHandled(chargeback, l.Apply(chargeback))

	r.RowDropped()
	r.RunFinished(&usecase.IngestReport{Duration: 2 * time.Second})

	if got := testutil.ToFloat64(m.TransactionsProcessed.WithLabelValues("deposit", "applied")); got != 1 {
		t.Fatalf("expected 1 applied deposit, got %v", got)
	}
	if got := testutil.ToFloat64(m.TransactionsProcessed.WithLabelValues("deposit", "duplicate")); got != 1 {
		t.Fatalf("expected 1 duplicate deposit, got %v", got)
	}
	if got := testutil.ToFloat64(m.AccountsFrozen); got != 1 {
		t.Fatalf("expected 1 frozen account, got %v", got)
	}
	if got := testutil.ToFloat64(m.RowsDropped); got != 1 {
		t.Fatalf("expected 1 dropped row, got %v", got)
	}
	if got := testutil.ToFloat64(m.AccountsKnown); got != 1 {
		t.Fatalf("expected 1 known account, got %v", got)
	}
	if got := testutil.CollectAndCount(m.TransactionAmount); got != 1 {
		t.Fatalf("expected one amount series, got %d", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)
	m.RowsDropped.Add(3)

	path := filepath.Join(t.TempDir(), "txledger.prom")
	if err := WriteTextfile(path, registry); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !strings.Contains(string(data), "txledger_rows_dropped_total 3") {
		t.Fatalf("expected dropped rows in textfile, got:\n%s", data)
	}
}

func TestWriteTextfileBadPath(t *testing.T) {
	err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"), prometheus.NewRegistry())
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}
