package domain

// AccountStatus is the lifecycle state of an account.
type AccountStatus int

const (
	AccountStatusActive AccountStatus = iota
	AccountStatusFrozen
)

func (s AccountStatus) String() string {
	switch s {
	case AccountStatusActive:
		return "active"
	case AccountStatusFrozen:
		return "frozen"
	default:
		return "unknown"
	}
}

// Account represents a client's funds as two legs: available and held.
// Every operation is a Balance transfer, so Total changes only when value
// moves to or from the liabilities leg passed in by the caller.
type Account struct {
	available Balance
	held      Balance
	status    AccountStatus
}

// Available returns the funds the client may withdraw.
func (a *Account) Available() Amount {
	return a.available.Amount()
}

// Held returns the funds held by open disputes.
func (a *Account) Held() Amount {
	return a.held.Amount()
}

// Total returns available + held.
func (a *Account) Total() Amount {
	return a.available.Amount().Add(a.held.Amount())
}

func (a *Account) Status() AccountStatus {
	return a.status
}

// IsFrozen reports whether a chargeback has locked the account.
func (a *Account) IsFrozen() bool {
	return a.status == AccountStatusFrozen
}

// Deposit moves amount from liabilities to available.
func (a *Account) Deposit(liabilities *Balance, amount Amount) {
	liabilities.Transfer(&a.available, amount)
}

// Withdraw moves amount from available to liabilities if enough funds are
// available. It reports whether the withdrawal happened.
func (a *Account) Withdraw(liabilities *Balance, amount Amount) bool {
	if a.available.Amount().LessThan(amount) {
		return false
	}

	a.available.Transfer(liabilities, amount)
	return true
}

// Hold moves amount from available to held. Available may go negative when
// the disputed funds were already withdrawn.
func (a *Account) Hold(amount Amount) {
	a.available.Transfer(&a.held, amount)
}

// Resolve releases held funds back to available.
func (a *Account) Resolve(amount Amount) {
	a.held.Transfer(&a.available, amount)
}

// Chargeback returns held funds to liabilities and freezes the account.
func (a *Account) Chargeback(liabilities *Balance, amount Amount) {
	a.held.Transfer(liabilities, amount)
	a.status = AccountStatusFrozen
}
