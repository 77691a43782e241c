package royalty

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// MarshalJSON encodes the payout as {"<account>": "<decimal amount>"}.
func (p Payout) MarshalJSON() ([]byte, error) {
	m := make(map[string]string, len(p))
	for account, amount := range p {
		m[string(account)] = strconv.FormatUint(amount, 10)
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes {"<account>": "<decimal amount>"}.
func (p *Payout) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayoutData, err)
	}
	out := make(Payout, len(m))
	for account, s := range m {
		amount, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: account %q: %w", ErrInvalidPayoutData, account, err)
		}
		out[Account(account)] = amount
	}
	*p = out
	return nil
}
