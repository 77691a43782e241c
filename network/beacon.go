// Package network derives raffle randomness from the chain. A sale commits to
// a future block height; once that block is buried under enough confirmations
// its hash seeds the draw, so neither the operator nor a buyer can pick it.
package network

import (
	"context"
	"fmt"

	"github.com/bsv-blockchain/go-sdk/chainhash"

	"github.com/bitfsorg/libraffle-go/raffle"
)

// BlockSource reports the chain tip and block hashes.
type BlockSource interface {
	// GetBestBlockHeight returns the height of the current chain tip.
	GetBestBlockHeight(ctx context.Context) (uint64, error)

	// GetBlockHash returns the hash of the main-chain block at height.
	GetBlockHash(ctx context.Context, height uint64) (*chainhash.Hash, error)
}

// Beacon turns a committed block height into a raffle random source.
type Beacon struct {
	src           BlockSource
	height        uint64
	confirmations uint64
}

// NewBeacon commits to the block at height, usable once it has at least
// confirmations blocks on top of it including itself. Zero confirmations is
// treated as one.
func NewBeacon(src BlockSource, height, confirmations uint64) *Beacon {
	if confirmations == 0 {
		confirmations = 1
	}
	return &Beacon{src: src, height: height, confirmations: confirmations}
}

// Height returns the committed block height.
func (b *Beacon) Height() uint64 { return b.height }

// Ready reports whether the committed block is final.
func (b *Beacon) Ready(ctx context.Context) (bool, error) {
	tip, err := b.src.GetBestBlockHeight(ctx)
	if err != nil {
		return false, err
	}
	return tip >= b.height && tip-b.height+1 >= b.confirmations, nil
}

// Source returns a random source seeded by the committed block hash, or
// ErrBlockNotFinal if the block is not yet final.
func (b *Beacon) Source(ctx context.Context) (*raffle.SeedSource, error) {
	ready, err := b.Ready(ctx)
	if err != nil {
		return nil, err
	}
	if !ready {
		return nil, fmt.Errorf("%w: height %d, %d confirmations required", ErrBlockNotFinal, b.height, b.confirmations)
	}

	hash, err := b.src.GetBlockHash(ctx, b.height)
	if err != nil {
		return nil, err
	}
	return raffle.NewBlockHashSource(hash), nil
}
