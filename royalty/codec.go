package royalty

import (
	"encoding/binary"
	"fmt"
	"sort"
)

const (
	royaltyHeaderSize = 3 // pool_rate(2) + count(1)
	royaltyPctSize    = 2
)

// Serialize encodes r as pool_rate(2) | count(1) | count * (len(1) | account | pct(2)),
// big-endian, with recipients in ascending account order.
func Serialize(r *Royalty) []byte {
	size := royaltyHeaderSize
	for a := range r.recipients {
		size += 1 + len(a) + royaltyPctSize
	}
	buf := make([]byte, size)
	binary.BigEndian.PutUint16(buf[0:2], uint16(r.poolRate))
	buf[2] = byte(len(r.recipients))

	offset := royaltyHeaderSize
	for _, a := range sortedAccounts(r.recipients) {
		buf[offset] = byte(len(a))
		offset++
		offset += copy(buf[offset:], a)
		binary.BigEndian.PutUint16(buf[offset:offset+2], uint16(r.recipients[a]))
		offset += royaltyPctSize
	}
	return buf
}

// Deserialize decodes and revalidates a Royalty encoded by Serialize.
func Deserialize(data []byte) (*Royalty, error) {
	if len(data) < royaltyHeaderSize {
		return nil, fmt.Errorf("%w: too short (%d bytes)", ErrInvalidRoyaltyData, len(data))
	}
	poolRate := Percentage(binary.BigEndian.Uint16(data[0:2]))
	count := int(data[2])

	recipients := make(map[Account]Percentage, count)
	offset := royaltyHeaderSize
	for i := 0; i < count; i++ {
		if offset >= len(data) {
			return nil, fmt.Errorf("%w: entry %d truncated", ErrInvalidRoyaltyData, i)
		}
		n := int(data[offset])
		offset++
		if offset+n+royaltyPctSize > len(data) {
			return nil, fmt.Errorf("%w: entry %d truncated", ErrInvalidRoyaltyData, i)
		}
		account := Account(data[offset : offset+n])
		offset += n
		if _, dup := recipients[account]; dup {
			return nil, fmt.Errorf("%w: duplicate account %q", ErrInvalidRoyaltyData, account)
		}
		recipients[account] = Percentage(binary.BigEndian.Uint16(data[offset : offset+2]))
		offset += royaltyPctSize
	}
	if offset != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidRoyaltyData, len(data)-offset)
	}
	return New(recipients, poolRate)
}

func sortedAccounts(m map[Account]Percentage) []Account {
	accounts := make([]Account, 0, len(m))
	for a := range m {
		accounts = append(accounts, a)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i] < accounts[j] })
	return accounts
}
