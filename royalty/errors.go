package royalty

import "errors"

var (
	// ErrInvalidRoyaltyConfig indicates a royalty configuration failed validation.
	ErrInvalidRoyaltyConfig = errors.New("royalty: invalid royalty config")

	// ErrPayoutTooLarge indicates a payout has more entries than the caller allows.
	ErrPayoutTooLarge = errors.New("royalty: payout too large")

	// ErrConservationViolated indicates payout amounts do not sum to the total.
	ErrConservationViolated = errors.New("royalty: payout conservation violated")

	// ErrInvalidPayoutData indicates a serialized payout is malformed.
	ErrInvalidPayoutData = errors.New("royalty: invalid payout data")

	// ErrInvalidRoyaltyData indicates a serialized royalty config is malformed.
	ErrInvalidRoyaltyData = errors.New("royalty: invalid royalty data")
)
