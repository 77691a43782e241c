package royalty

import "fmt"

// ValidateConservation checks that payout amounts sum to exactly total.
func ValidateConservation(payout Payout, total uint64) error {
	sum, ok := payout.Total()
	if !ok {
		return fmt.Errorf("%w: sum overflows", ErrConservationViolated)
	}
	if sum != total {
		return fmt.Errorf("%w: sum=%d total=%d", ErrConservationViolated, sum, total)
	}
	return nil
}

// ValidatePayout checks that payout is exactly what r computes for total and
// beneficiary.
func ValidatePayout(r *Royalty, payout Payout, total uint64, beneficiary Account) error {
	expected := r.CalculatePayout(total, beneficiary)
	if len(payout) != len(expected) {
		return fmt.Errorf("payout has %d entries, expected %d", len(payout), len(expected))
	}
	for account, want := range expected {
		got, ok := payout[account]
		if !ok {
			return fmt.Errorf("payout missing account %q", account)
		}
		if got != want {
			return fmt.Errorf("account %q: amount %d != expected %d", account, got, want)
		}
	}
	return nil
}
