package sale

import (
	"fmt"
	"sync"

	"github.com/bitfsorg/libraffle-go/royalty"
)

// Ledger records token ownership. It lives outside this module; the sale only
// mints into it and reads owners back.
type Ledger interface {
	// Mint assigns every token in tokenIDs to owner, or none of them on error.
	Mint(owner royalty.Account, tokenIDs []string) error

	// OwnerOf returns the current owner of tokenID, or ErrTokenNotFound.
	OwnerOf(tokenID string) (royalty.Account, error)
}

// MemLedger is an in-memory implementation of Ledger.
type MemLedger struct {
	mu     sync.RWMutex
	owners map[string]royalty.Account
}

// Compile-time interface check.
var _ Ledger = (*MemLedger)(nil)

// NewMemLedger creates an empty in-memory ledger.
func NewMemLedger() *MemLedger {
	return &MemLedger{owners: make(map[string]royalty.Account)}
}

// Mint assigns tokenIDs to owner.
func (l *MemLedger) Mint(owner royalty.Account, tokenIDs []string) error {
	if owner == "" {
		return ErrInvalidAccount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	seen := make(map[string]bool, len(tokenIDs))
	for _, id := range tokenIDs {
		if _, exists := l.owners[id]; exists || seen[id] {
			return fmt.Errorf("%w: %s", ErrTokenExists, id)
		}
		seen[id] = true
	}
	for _, id := range tokenIDs {
		l.owners[id] = owner
	}
	return nil
}

// OwnerOf returns the owner of tokenID.
func (l *MemLedger) OwnerOf(tokenID string) (royalty.Account, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	owner, ok := l.owners[tokenID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrTokenNotFound, tokenID)
	}
	return owner, nil
}

// Transfer moves tokenID to a new owner.
func (l *MemLedger) Transfer(tokenID string, to royalty.Account) error {
	if to == "" {
		return ErrInvalidAccount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.owners[tokenID]; !ok {
		return fmt.Errorf("%w: %s", ErrTokenNotFound, tokenID)
	}
	l.owners[tokenID] = to
	return nil
}

// Count returns the number of minted tokens.
func (l *MemLedger) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.owners)
}
