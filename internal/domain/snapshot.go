package domain

// AccountSnapshot represents the reported state of one client account.
type AccountSnapshot struct {
	Client    ClientID `json:"client"`
	Available Amount   `json:"available"`
	Held      Amount   `json:"held"`
	Total     Amount   `json:"total"`
	Locked    bool     `json:"locked"`
}

// NewAccountSnapshot captures the current balances and status of account.
func NewAccountSnapshot(id ClientID, account Account) AccountSnapshot {
	return AccountSnapshot{
		Client:    id,
		Available: account.Available(),
		Held:      account.Held(),
		Total:     account.Total(),
		Locked:    account.IsFrozen(),
	}
}
