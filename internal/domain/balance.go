package domain

// Balance is one signed ledger leg. Transfer is its only mutator, so any set of
// legs that only exchange value through Transfer keeps a constant sum.
type Balance struct {
	amount Amount
}

// Amount returns the current value of the leg.
func (b *Balance) Amount() Amount {
	return b.amount
}

// Transfer debits b and credits to by the same amount.
func (b *Balance) Transfer(to *Balance, amount Amount) {
	b.amount = b.amount.Sub(amount)
	to.amount = to.amount.Add(amount)
}
