package domain

import "strconv"

// Event types
const (
	EventTypeAccountFrozen = "account.frozen"
)

// Aggregate types
const (
	AggregateTypeAccount = "account"
)

// Event represents a notification emitted by an ingestion run.
type Event struct {
	ID            string
	RunID         string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
}

// NewAccountFrozenEvent builds the event published when a chargeback freezes an account.
func NewAccountFrozenEvent(id, runID string, tx Transaction, account Account) *Event {
	return &Event{
		ID:            id,
		RunID:         runID,
		AggregateID:   strconv.FormatUint(uint64(tx.ClientID()), 10),
		AggregateType: AggregateTypeAccount,
		EventType:     EventTypeAccountFrozen,
		Payload: map[string]any{
			"client":    tx.ClientID(),
			"tx":        tx.TxID(),
			"available": account.Available().String(),
			"held":      account.Held().String(),
			"total":     account.Total().String(),
		},
	}
}
