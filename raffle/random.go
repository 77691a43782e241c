package raffle

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"io"

	"github.com/bsv-blockchain/go-sdk/chainhash"
	"golang.org/x/crypto/hkdf"
)

// DrawInfo is the HKDF info prefix used when expanding a seed into draws.
const DrawInfo = "libraffle-draw"

// RandomSource supplies the randomness consumed by draws.
type RandomSource interface {
	// UniformBelow returns a value in [0, n). n must be positive.
	UniformBelow(n uint64) uint64
}

// SeedSource derives a deterministic stream of draws from a host-supplied seed.
//
// Draw k is HKDF-SHA256(seed, info = DrawInfo || k) truncated to 8 bytes, read
// little-endian and reduced modulo n. The modulo reduction is biased by at most
// n / 2^64, which is accepted. Anyone who knows the seed can predict every draw.
//
// A SeedSource is not safe for concurrent use.
type SeedSource struct {
	seed    []byte
	counter uint64
}

// Compile-time interface check.
var _ RandomSource = (*SeedSource)(nil)

// NewSeedSource creates a SeedSource over a copy of seed.
func NewSeedSource(seed []byte) *SeedSource {
	s := make([]byte, len(seed))
	copy(s, seed)
	return &SeedSource{seed: s}
}

// NewBlockHashSource creates a SeedSource keyed by a block hash.
func NewBlockHashSource(blockHash *chainhash.Hash) *SeedSource {
	return NewSeedSource(blockHash.CloneBytes())
}

// UniformBelow returns the next draw reduced into [0, n).
func (s *SeedSource) UniformBelow(n uint64) uint64 {
	if n == 0 {
		panic("raffle: UniformBelow called with n == 0")
	}

	info := make([]byte, len(DrawInfo)+8)
	copy(info, DrawInfo)
	binary.BigEndian.PutUint64(info[len(DrawInfo):], s.counter)
	s.counter++

	var buf [8]byte
	if _, err := io.ReadFull(hkdf.New(sha256.New, s.seed, nil, info), buf[:]); err != nil {
		// Eight bytes is far below the HKDF output limit.
		panic("raffle: hkdf expand: " + err.Error())
	}
	return binary.LittleEndian.Uint64(buf[:]) % n
}

// Consumed returns the number of draws taken from the source so far.
func (s *SeedSource) Consumed() uint64 {
	return s.counter
}

// CryptoSource draws from the operating system CSPRNG.
type CryptoSource struct{}

// Compile-time interface check.
var _ RandomSource = CryptoSource{}

// UniformBelow returns a value in [0, n) from crypto/rand, reduced modulo n.
func (CryptoSource) UniformBelow(n uint64) uint64 {
	if n == 0 {
		panic("raffle: UniformBelow called with n == 0")
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic("raffle: crypto/rand: " + err.Error())
	}
	return binary.LittleEndian.Uint64(buf[:]) % n
}
