package sale

import "errors"

var (
	// ErrZeroCount indicates a purchase of zero tokens.
	ErrZeroCount = errors.New("sale: token count must be positive")

	// ErrInsufficientDeposit indicates the attached deposit does not cover the cost.
	ErrInsufficientDeposit = errors.New("sale: no enough deposit")

	// ErrCostOverflow indicates the cost of a purchase does not fit in 64 bits.
	ErrCostOverflow = errors.New("sale: cost overflows")

	// ErrTokenNotFound indicates the token has not been minted.
	ErrTokenNotFound = errors.New("sale: token not exist")

	// ErrTokenExists indicates a token id was minted twice.
	ErrTokenExists = errors.New("sale: token already minted")

	// ErrInvalidAccount indicates an empty account identifier.
	ErrInvalidAccount = errors.New("sale: invalid account")

	// ErrPayoutMismatch indicates a proposed payout differs from the royalty terms.
	ErrPayoutMismatch = errors.New("sale: payout does not match royalty terms")

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("sale: required parameter is nil")
)
