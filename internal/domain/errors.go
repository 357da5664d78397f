package domain

import "errors"

var (
	// Amount errors
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrAmountTooLarge = errors.New("amount exceeds maximum allowed")

	// Transaction errors
	ErrInvalidTransaction   = errors.New("invalid transaction")
	ErrUnknownTransaction   = errors.New("unknown transaction type")
	ErrDuplicateTransaction = errors.New("transaction already applied")
	ErrMalformedInput       = errors.New("malformed input row")

	// Account errors
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountDoesNotExist = errors.New("account with disputed transaction does not exist")
	ErrDisputedNonExistent = errors.New("disputed transaction does not exist")
	ErrAccountFrozen       = errors.New("account was frozen during the dispute: chargeback")
	ErrAccountLocked       = errors.New("account is locked")
	ErrInsufficientFunds   = errors.New("insufficient available funds")
	ErrInvalidTransition   = errors.New("transaction is not in a state that accepts this event")

	// Snapshot errors
	ErrSnapshotNotFound = errors.New("snapshot not found")
)
