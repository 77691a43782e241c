package royalty

import "sort"

// Percentage is a share in basis points out of Basis.
type Percentage uint16

const (
	// Basis is 100% in basis points.
	Basis Percentage = 10_000

	// MaxRecipients is the most royalty recipients a config may hold.
	MaxRecipients = 10

	// MaxAccountLen is the longest accepted account identifier, in bytes.
	MaxAccountLen = 64
)

// Account identifies a payee.
type Account string

// Payout maps each payee to an amount in integer units.
type Payout map[Account]uint64

// Total returns the sum of all amounts. ok is false if the sum overflows.
func (p Payout) Total() (total uint64, ok bool) {
	for _, amount := range p {
		next := total + amount
		if next < total {
			return 0, false
		}
		total = next
	}
	return total, true
}

// Accounts returns the payees in ascending order.
func (p Payout) Accounts() []Account {
	accounts := make([]Account, 0, len(p))
	for a := range p {
		accounts = append(accounts, a)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i] < accounts[j] })
	return accounts
}

// PayoutResponse is the envelope a resale payout is returned in.
type PayoutResponse struct {
	Payout Payout `json:"payout"`
}
