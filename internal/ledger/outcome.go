package ledger

import "github.com/iho/txledger/internal/domain"

// DepositState is the dispute lifecycle state of an applied deposit.
type DepositState int

const (
	DepositApplied DepositState = iota
	DepositDisputed
	DepositResolved
	DepositChargeback
)

func (s DepositState) String() string {
	switch s {
	case DepositApplied:
		return "applied"
	case DepositDisputed:
		return "disputed"
	case DepositResolved:
		return "resolved"
	case DepositChargeback:
		return "chargeback"
	default:
		return "unknown"
	}
}

// Next returns the state reached by applying a settlement event. ok is false
// when the pair is not a legal transition and the event must be ignored.
func (s DepositState) Next(event domain.TransactionKind) (next DepositState, ok bool) {
	switch s {
	case DepositApplied:
		switch event {
		case domain.KindDispute:
			return DepositDisputed, true
		case domain.KindResolve, domain.KindChargeback:
			return s, false
		}
	case DepositDisputed:
		switch event {
		case domain.KindResolve:
			return DepositResolved, true
		case domain.KindChargeback:
			return DepositChargeback, true
		case domain.KindDispute:
			return s, false
		}
	case DepositResolved, DepositChargeback:
		return s, false
	}

	return s, false
}

// depositOutcome records an applied deposit and where it is in the dispute lifecycle.
type depositOutcome struct {
	state  DepositState
	amount domain.Amount
}
