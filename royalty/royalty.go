// Package royalty splits resale proceeds between a seller and a fixed set of
// royalty recipients.
//
// A sale amount is split in two levels: PoolRate of it goes into a royalty
// pool, which is divided between the recipients by their percentages, and the
// rest goes to the beneficiary. All arithmetic is integer; whatever truncation
// leaves undistributed is paid to the beneficiary, so a payout always sums to
// exactly the amount it splits.
package royalty

import (
	"fmt"
	"math/bits"
)

// Royalty is a validated, immutable royalty configuration.
type Royalty struct {
	recipients map[Account]Percentage
	poolRate   Percentage
}

// New validates recipients and poolRate and returns a Royalty holding a copy of
// recipients.
//
// A non-empty recipient set must sum to exactly Basis. An empty set means no
// royalty is paid.
func New(recipients map[Account]Percentage, poolRate Percentage) (*Royalty, error) {
	if err := ValidateConfig(recipients, poolRate); err != nil {
		return nil, err
	}
	r := &Royalty{
		recipients: make(map[Account]Percentage, len(recipients)),
		poolRate:   poolRate,
	}
	for a, p := range recipients {
		r.recipients[a] = p
	}
	return r, nil
}

// ValidateConfig checks the construction rules of a royalty configuration.
func ValidateConfig(recipients map[Account]Percentage, poolRate Percentage) error {
	if len(recipients) > MaxRecipients {
		return fmt.Errorf("%w: %d recipients, at most %d allowed",
			ErrInvalidRoyaltyConfig, len(recipients), MaxRecipients)
	}
	if poolRate > Basis {
		return fmt.Errorf("%w: pool rate %d exceeds %d", ErrInvalidRoyaltyConfig, poolRate, Basis)
	}

	var sum uint32
	for account, pct := range recipients {
		if account == "" {
			return fmt.Errorf("%w: empty account", ErrInvalidRoyaltyConfig)
		}
		if len(account) > MaxAccountLen {
			return fmt.Errorf("%w: account %q longer than %d bytes", ErrInvalidRoyaltyConfig, account, MaxAccountLen)
		}
		if pct == 0 {
			return fmt.Errorf("%w: zero percentage for %q", ErrInvalidRoyaltyConfig, account)
		}
		sum += uint32(pct)
	}
	if len(recipients) > 0 && sum != uint32(Basis) {
		return fmt.Errorf("%w: percentages sum to %d, want %d", ErrInvalidRoyaltyConfig, sum, Basis)
	}
	return nil
}

// PoolRate returns the share of each sale that goes into the royalty pool.
func (r *Royalty) PoolRate() Percentage { return r.poolRate }

// Recipients returns a copy of the recipient percentages.
func (r *Royalty) Recipients() map[Account]Percentage {
	out := make(map[Account]Percentage, len(r.recipients))
	for a, p := range r.recipients {
		out[a] = p
	}
	return out
}

// CalculatePayout splits total between beneficiary and the royalty recipients.
//
// The pool is floor(total * PoolRate / Basis) and each recipient receives
// floor(pool * percentage / Basis). The beneficiary receives total - pool, plus
// its own recipient share if it is a recipient, plus any truncation dust left in
// the pool. Recipients whose amount rounds to zero get no entry, so an empty
// pool yields the single entry {beneficiary: total}.
//
// The result sums to total by construction: recipient amounts never exceed the
// pool, and everything not paid out of it goes to the beneficiary.
func (r *Royalty) CalculatePayout(total uint64, beneficiary Account) Payout {
	pool := mulDiv(total, r.poolRate)
	share := total - pool

	payout := make(Payout, len(r.recipients)+1)
	var paid uint64
	for account, pct := range r.recipients {
		amount := mulDiv(pool, pct)
		if amount == 0 {
			continue
		}
		payout[account] = amount
		paid += amount
	}

	share += pool - paid
	if own, ok := payout[beneficiary]; ok {
		share += own
	}
	payout[beneficiary] = share
	return payout
}

// CalculatePayoutCapped computes the full payout, checks conservation, and
// rejects it with ErrPayoutTooLarge if it has more than maxLen entries.
func (r *Royalty) CalculatePayoutCapped(total uint64, beneficiary Account, maxLen uint32) (Payout, error) {
	payout := r.CalculatePayout(total, beneficiary)
	if err := ValidateConservation(payout, total); err != nil {
		return nil, err
	}
	if uint64(len(payout)) > uint64(maxLen) {
		return nil, fmt.Errorf("%w: %d entries, limit %d", ErrPayoutTooLarge, len(payout), maxLen)
	}
	return payout, nil
}

// mulDiv returns floor(amount * pct / Basis) using a 128-bit product.
// pct <= Basis keeps the quotient within 64 bits.
func mulDiv(amount uint64, pct Percentage) uint64 {
	hi, lo := bits.Mul64(amount, uint64(pct))
	q, _ := bits.Div64(hi, lo, uint64(Basis))
	return q
}
