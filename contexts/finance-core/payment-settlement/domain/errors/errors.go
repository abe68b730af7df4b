package errors

import "errors"

var (
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrPaymentExists       = errors.New("payment already exists")
	ErrEntryNotFound       = errors.New("earnings ledger entry not found")
	ErrLedgerEntriesExist  = errors.New("earnings ledger entries already exist for payment")
	ErrInvalidPaymentInput = errors.New("invalid payment input")
	ErrInvalidFlagInput    = errors.New("invalid flag input")
	ErrEmptySplitPolicy    = errors.New("split policy has no lines")
	ErrInvalidSplitLine    = errors.New("split policy line is invalid")
	ErrPolicyPercentageSum = errors.New("split policy percentages do not sum to 100")
	ErrPolicyNotFound      = errors.New("split policy not found for funding source")
)
