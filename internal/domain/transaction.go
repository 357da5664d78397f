package domain

import "fmt"

type (
	// ClientID identifies a client account.
	ClientID uint16
	// TxID identifies a transaction, unique per client and kind.
	TxID uint32
)

// TransactionKind is the type of a transaction record.
type TransactionKind string

const (
	KindDeposit    TransactionKind = "deposit"
	KindWithdrawal TransactionKind = "withdrawal"
	KindDispute    TransactionKind = "dispute"
	KindResolve    TransactionKind = "resolve"
	KindChargeback TransactionKind = "chargeback"
)

// IsSettlement reports whether the kind references an earlier deposit
// instead of moving funds of its own.
func (k TransactionKind) IsSettlement() bool {
	switch k {
	case KindDispute, KindResolve, KindChargeback:
		return true
	default:
		return false
	}
}

// Transaction is an immutable, validated transaction. Deposits and withdrawals
// carry a positive amount; settlement transactions carry none.
type Transaction struct {
	kind     TransactionKind
	clientID ClientID
	txID     TxID
	amount   Amount
}

// NewDeposit creates a deposit of a positive amount.
func NewDeposit(clientID ClientID, txID TxID, amount Amount) (Transaction, error) {
	return newNormal(KindDeposit, clientID, txID, amount)
}

// NewWithdrawal creates a withdrawal of a positive amount.
func NewWithdrawal(clientID ClientID, txID TxID, amount Amount) (Transaction, error) {
	return newNormal(KindWithdrawal, clientID, txID, amount)
}

// NewDispute creates a dispute of the deposit txID.
func NewDispute(clientID ClientID, txID TxID) Transaction {
	return Transaction{kind: KindDispute, clientID: clientID, txID: txID}
}

// NewResolve creates a resolution of the disputed deposit txID.
func NewResolve(clientID ClientID, txID TxID) Transaction {
	return Transaction{kind: KindResolve, clientID: clientID, txID: txID}
}

// NewChargeback creates a chargeback of the disputed deposit txID.
func NewChargeback(clientID ClientID, txID TxID) Transaction {
	return Transaction{kind: KindChargeback, clientID: clientID, txID: txID}
}

// NewTransaction builds a transaction of any kind. amount is required for
// deposits and withdrawals and ignored for settlement kinds.
func NewTransaction(kind TransactionKind, clientID ClientID, txID TxID, amount *Amount) (Transaction, error) {
	switch kind {
	case KindDeposit, KindWithdrawal:
		if amount == nil {
			return Transaction{}, fmt.Errorf("%w: %s requires an amount", ErrInvalidAmount, kind)
		}
		return newNormal(kind, clientID, txID, *amount)
	case KindDispute, KindResolve, KindChargeback:
		return Transaction{kind: kind, clientID: clientID, txID: txID}, nil
	default:
		return Transaction{}, fmt.Errorf("%w: %q", ErrUnknownTransaction, kind)
	}
}

func newNormal(kind TransactionKind, clientID ClientID, txID TxID, amount Amount) (Transaction, error) {
	if err := ValidateAmount(amount); err != nil {
		return Transaction{}, err
	}

	return Transaction{kind: kind, clientID: clientID, txID: txID, amount: amount}, nil
}

func (t Transaction) Kind() TransactionKind { return t.kind }
func (t Transaction) ClientID() ClientID    { return t.clientID }
func (t Transaction) TxID() TxID            { return t.txID }

// Amount returns the amount of a deposit or withdrawal, zero for settlement kinds.
func (t Transaction) Amount() Amount { return t.amount }

// String implements fmt.Stringer for log output.
func (t Transaction) String() string {
	if t.kind.IsSettlement() {
		return fmt.Sprintf("%s client=%d tx=%d", t.kind, t.clientID, t.txID)
	}
	return fmt.Sprintf("%s client=%d tx=%d amount=%s", t.kind, t.clientID, t.txID, t.amount)
}
