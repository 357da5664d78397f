package ledger

import (
	"fmt"

	"github.com/iho/txledger/internal/domain"
)

// client owns one account and the transaction ids already applied to it.
type client struct {
	account     domain.Account
	deposits    map[domain.TxID]*depositOutcome
	withdrawals map[domain.TxID]domain.Amount
}

func newClient() *client {
	return &client{
		deposits:    make(map[domain.TxID]*depositOutcome),
		withdrawals: make(map[domain.TxID]domain.Amount),
	}
}

func (c *client) deposit(liabilities *domain.Balance, txID domain.TxID, amount domain.Amount) Result {
	if c.account.IsFrozen() {
		return ignored(domain.ErrAccountLocked)
	}
	if _, ok := c.deposits[txID]; ok {
		return ignored(domain.ErrDuplicateTransaction)
	}

	c.account.Deposit(liabilities, amount)
	c.deposits[txID] = &depositOutcome{state: DepositApplied, amount: amount}

	return Result{Applied: true}
}

// withdraw records txID even when funds are insufficient, so a re-delivery
// of the same id stays a no-op.
func (c *client) withdraw(liabilities *domain.Balance, txID domain.TxID, amount domain.Amount) Result {
	if c.account.IsFrozen() {
		return ignored(domain.ErrAccountLocked)
	}
	if _, ok := c.withdrawals[txID]; ok {
		return ignored(domain.ErrDuplicateTransaction)
	}

	c.withdrawals[txID] = amount
	if !c.account.Withdraw(liabilities, amount) {
		return ignored(fmt.Errorf("%w: available %s, requested %s", domain.ErrInsufficientFunds, c.account.Available(), amount))
	}

	return Result{Applied: true}
}

func (c *client) settle(liabilities *domain.Balance, kind domain.TransactionKind, txID domain.TxID) Result {
	outcome, ok := c.deposits[txID]
	if !ok {
		return ignored(fmt.Errorf("%w: tx %d", domain.ErrDisputedNonExistent, txID))
	}

	next, ok := outcome.state.Next(kind)
	if !ok {
		return ignored(fmt.Errorf("%w: %s on %s deposit %d", domain.ErrInvalidTransition, kind, outcome.state, txID))
	}

	wasFrozen := c.account.IsFrozen()

	switch next {
	case DepositDisputed:
		c.account.Hold(outcome.amount)
	case DepositResolved:
		c.account.Resolve(outcome.amount)
	case DepositChargeback:
		c.account.Chargeback(liabilities, outcome.amount)
	}
	outcome.state = next

	return Result{Applied: true, Froze: !wasFrozen && c.account.IsFrozen()}
}
