package dto

import (
	"time"

	"github.com/iho/txledger/internal/domain"
	"github.com/iho/txledger/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	Client    uint16 `json:"client"`
	Available string `json:"available"`
	Held      string `json:"held"`
	Total     string `json:"total"`
	Locked    bool   `json:"locked"`
}

// AccountFromDomain converts a domain account snapshot to a response.
func AccountFromDomain(a domain.AccountSnapshot) AccountResponse {
	return AccountResponse{
		Client:    uint16(a.Client),
		Available: a.Available.String(),
		Held:      a.Held.String(),
		Total:     a.Total.String(),
		Locked:    a.Locked,
	}
}

// AccountsFromDomain converts domain account snapshots to responses.
func AccountsFromDomain(accounts []domain.AccountSnapshot) []AccountResponse {
	result := make([]AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse represents a list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
	Total    int               `json:"total"`
}

// ConsistencyResponse represents the outcome of a ledger consistency check.
type ConsistencyResponse struct {
	Status     string `json:"status"`
	Consistent bool   `json:"consistent"`
	Message    string `json:"message,omitempty"`
}

// DiscrepancyResponse represents one client whose snapshot and ledger disagree.
type DiscrepancyResponse struct {
	Client     uint16           `json:"client"`
	Recorded   *AccountResponse `json:"recorded"`
	Calculated *AccountResponse `json:"calculated"`
	Difference string           `json:"difference"`
}

// ReconciliationResponse represents a reconciliation report.
type ReconciliationResponse struct {
	SnapshotRunID      string                `json:"snapshot_run_id"`
	TotalAccounts      int                   `json:"total_accounts"`
	ReconciledAccounts int                   `json:"reconciled_accounts"`
	LedgerConsistent   bool                  `json:"ledger_consistent"`
	Discrepancies      []DiscrepancyResponse `json:"discrepancies"`
	CheckedAt          time.Time             `json:"checked_at"`
}

// ReconciliationFromUseCase converts a reconciliation report to a response.
func ReconciliationFromUseCase(r *usecase.ReconciliationReport) ReconciliationResponse {
	discrepancies := make([]DiscrepancyResponse, len(r.Discrepancies))
	for i, d := range r.Discrepancies {
		discrepancies[i] = DiscrepancyResponse{
			Client:     uint16(d.Client),
			Recorded:   optionalAccount(d.Recorded),
			Calculated: optionalAccount(d.Calculated),
			Difference: d.Difference.String(),
		}
	}

	return ReconciliationResponse{
		SnapshotRunID:      r.SnapshotRunID,
		TotalAccounts:      r.TotalAccounts,
		ReconciledAccounts: r.ReconciledAccounts,
		LedgerConsistent:   r.LedgerConsistent,
		Discrepancies:      discrepancies,
		CheckedAt:          r.CheckedAt,
	}
}

func optionalAccount(a *domain.AccountSnapshot) *AccountResponse {
	if a == nil {
		return nil
	}
	resp := AccountFromDomain(*a)
	return &resp
}

// HealthResponse represents a health check result.
type HealthResponse struct {
	Status string `json:"status"`
	Redis  string `json:"redis,omitempty"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
