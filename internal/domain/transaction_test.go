package domain

import (
	"errors"
	"testing"
)

func TestNewTransaction(t *testing.T) {
	positive := MustParseAmount("1.5")
	zero := ZeroAmount
	negative := MustParseAmount("-1")

	tests := []struct {
		name        string
		kind        TransactionKind
		amount      *Amount
		expectError error
	}{
		{name: "deposit", kind: KindDeposit, amount: &positive},
		{name: "withdrawal", kind: KindWithdrawal, amount: &positive},
		{name: "deposit without amount", kind: KindDeposit, expectError: ErrInvalidAmount},
		{name: "withdrawal of zero", kind: KindWithdrawal, amount: &zero, expectError: ErrInvalidAmount},
		{name: "deposit of negative amount", kind: KindDeposit, amount: &negative, expectError: ErrInvalidAmount},
		{name: "dispute ignores amount", kind: KindDispute, amount: &negative},
		{name: "resolve", kind: KindResolve},
		{name: "chargeback", kind: KindChargeback},
		{name: "unknown kind", kind: TransactionKind("transfer"), expectError: ErrUnknownTransaction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := NewTransaction(tt.kind, 7, 42, tt.amount)

			if tt.expectError != nil {
				if !errors.Is(err, tt.expectError) {
					t.Fatalf("expected error %v, got %v", tt.expectError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tx.Kind() != tt.kind || tx.ClientID() != 7 || tx.TxID() != 42 {
				t.Errorf("unexpected transaction %v", tx)
			}
			if tt.kind.IsSettlement() && !tx.Amount().IsZero() {
				t.Errorf("settlement transaction must not carry an amount, got %s", tx.Amount())
			}
		})
	}
}

func TestTransactionKind_IsSettlement(t *testing.T) {
	for kind, want := range map[TransactionKind]bool{
		KindDeposit:    false,
		KindWithdrawal: false,
		KindDispute:    true,
		KindResolve:    true,
		KindChargeback: true,
	} {
		if got := kind.IsSettlement(); got != want {
			t.Errorf("%s.IsSettlement() = %v, want %v", kind, got, want)
		}
	}
}

func TestTransaction_String(t *testing.T) {
	deposit, err := NewDeposit(1, 2, MustParseAmount("3.5000"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := deposit.String(); got != "deposit client=1 tx=2 amount=3.5" {
		t.Errorf("unexpected string %q", got)
	}
	if got := NewDispute(1, 2).String(); got != "dispute client=1 tx=2" {
		t.Errorf("unexpected string %q", got)
	}
}

func TestValidateTransactionKind(t *testing.T) {
	if kind, err := ValidateTransactionKind("withdrawal"); err != nil || kind != KindWithdrawal {
		t.Fatalf("expected withdrawal, got %q err=%v", kind, err)
	}
	if _, err := ValidateTransactionKind("withdraw"); !errors.Is(err, ErrUnknownTransaction) {
		t.Fatalf("expected unknown transaction, got %v", err)
	}
}
