package domain

import "fmt"

// ValidateAmount validates the amount of a deposit or withdrawal.
func ValidateAmount(amount Amount) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: must be positive, got %s", ErrInvalidAmount, amount)
	}

	return nil
}

// ValidateTransactionKind validates the textual transaction type.
func ValidateTransactionKind(kind string) (TransactionKind, error) {
	switch k := TransactionKind(kind); k {
	case KindDeposit, KindWithdrawal, KindDispute, KindResolve, KindChargeback:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTransaction, kind)
	}
}
