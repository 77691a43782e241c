// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bitfsorg/libraffle-go/royalty"
)

// ParseRoyalties parses "account:bps,account:bps". An empty string yields no
// recipients.
func ParseRoyalties(s string) (map[royalty.Account]royalty.Percentage, error) {
	out := make(map[royalty.Account]royalty.Percentage)
	s = strings.TrimSpace(s)
	if s == "" {
		return out, nil
	}
	for _, item := range strings.Split(s, ",") {
		// Split on the last ':' so accounts may contain colons.
		i := strings.LastIndex(item, ":")
		if i < 0 {
			return nil, fmt.Errorf("%w: %q is not account:bps", ErrInvalidRoyalties, item)
		}
		account := royalty.Account(strings.TrimSpace(item[:i]))
		bps, err := strconv.ParseUint(strings.TrimSpace(item[i+1:]), 10, 16)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidRoyalties, item, err)
		}
		if _, dup := out[account]; dup {
			return nil, fmt.Errorf("%w: duplicate account %q", ErrInvalidRoyalties, account)
		}
		out[account] = royalty.Percentage(bps)
	}
	return out, nil
}

// FormatRoyalties is the inverse of ParseRoyalties, in ascending account order.
func FormatRoyalties(r *royalty.Royalty) string {
	recipients := r.Recipients()
	accounts := make([]royalty.Account, 0, len(recipients))
	for a := range recipients {
		accounts = append(accounts, a)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i] < accounts[j] })

	parts := make([]string, 0, len(accounts))
	for _, a := range accounts {
		parts = append(parts, fmt.Sprintf("%s:%d", a, recipients[a]))
	}
	return strings.Join(parts, ",")
}

// BuildRoyalty builds the validated royalty configuration described by cfg.
func BuildRoyalty(cfg Config) (*royalty.Royalty, error) {
	recipients, err := ParseRoyalties(cfg.Royalties)
	if err != nil {
		return nil, err
	}
	r, err := royalty.New(recipients, royalty.Percentage(cfg.PoolRate))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoyalties, err)
	}
	return r, nil
}
