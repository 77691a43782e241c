package settle

import "errors"

var (
	// ErrInvalidAddress indicates a payout account is not a valid P2PKH address.
	ErrInvalidAddress = errors.New("settle: invalid payout address")

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("settle: required parameter is nil")

	// ErrNothingToSettle indicates a payout has no non-zero entries.
	ErrNothingToSettle = errors.New("settle: payout has no non-zero amounts")
)
