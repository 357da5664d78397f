// Package ledger implements the in-memory transaction engine: per-client
// accounts, transaction deduplication and the deposit dispute lifecycle,
// balanced against a single liabilities leg.
package ledger

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/iho/txledger/internal/domain"
)

// ErrInconsistentLedger is returned when liabilities and client totals do not cancel out.
var ErrInconsistentLedger = errors.New("ledger is inconsistent: liabilities do not balance client totals")

// Result describes what applying a single transaction did.
type Result struct {
	// Applied is true when the transaction changed ledger state.
	Applied bool
	// Froze is true when this transaction moved its account from active to frozen.
	Froze bool
	// Reason explains why a transaction was ignored.
	Reason error
}

func ignored(reason error) Result {
	return Result{Reason: reason}
}

// Ledger owns every client entry and the liabilities leg that balances them.
// It is not safe for concurrent use: a single writer applies transactions in
// input order and reads happen once writing has finished.
type Ledger struct {
	liabilities domain.Balance
	clients     map[domain.ClientID]*client
	order       []domain.ClientID
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{
		clients: make(map[domain.ClientID]*client),
	}
}

// HandleTransaction applies tx. It returns domain.ErrAccountFrozen only when
// this call is the chargeback that froze a previously active account; every
// other outcome, including ignored transactions, returns nil.
func (l *Ledger) HandleTransaction(tx domain.Transaction) error {
	if l.Apply(tx).Froze {
		return domain.ErrAccountFrozen
	}
	return nil
}

// Apply applies tx and reports the detailed outcome.
func (l *Ledger) Apply(tx domain.Transaction) Result {
	switch tx.Kind() {
	case domain.KindDeposit:
		return l.getOrCreate(tx.ClientID()).deposit(&l.liabilities, tx.TxID(), tx.Amount())
	case domain.KindWithdrawal:
		return l.getOrCreate(tx.ClientID()).withdraw(&l.liabilities, tx.TxID(), tx.Amount())
	case domain.KindDispute, domain.KindResolve, domain.KindChargeback:
		c, ok := l.clients[tx.ClientID()]
		if !ok {
			return ignored(fmt.Errorf("%w: client %d", domain.ErrAccountDoesNotExist, tx.ClientID()))
		}
		return c.settle(&l.liabilities, tx.Kind(), tx.TxID())
	default:
		return ignored(fmt.Errorf("%w: %q", domain.ErrUnknownTransaction, tx.Kind()))
	}
}

func (l *Ledger) getOrCreate(id domain.ClientID) *client {
	if c, ok := l.clients[id]; ok {
		return c
	}

	c := newClient()
	l.clients[id] = c

	pos, _ := slices.BinarySearch(l.order, id)
	l.order = slices.Insert(l.order, pos, id)

	return c
}

// Entries yields every known client and a copy of its account, ascending by client id.
func (l *Ledger) Entries() iter.Seq2[domain.ClientID, domain.Account] {
	return func(yield func(domain.ClientID, domain.Account) bool) {
		for _, id := range l.order {
			if !yield(id, l.clients[id].account) {
				return
			}
		}
	}
}

// GetAccount returns a copy of the account of id.
func (l *Ledger) GetAccount(id domain.ClientID) (domain.Account, bool) {
	c, ok := l.clients[id]
	if !ok {
		return domain.Account{}, false
	}
	return c.account, true
}

// Len returns the number of known clients.
func (l *Ledger) Len() int {
	return len(l.order)
}

// Liabilities returns the value of the balancing leg.
func (l *Ledger) Liabilities() domain.Amount {
	return l.liabilities.Amount()
}

// CheckConsistency verifies that liabilities plus all client totals is zero.
func (l *Ledger) CheckConsistency() error {
	sum := l.liabilities.Amount()
	for _, c := range l.clients {
		sum = sum.Add(c.account.Total())
	}

	if !sum.IsZero() {
		return fmt.Errorf("%w: difference %s", ErrInconsistentLedger, sum)
	}
	return nil
}
