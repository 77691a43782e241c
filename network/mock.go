package network

import (
	"context"

	"github.com/bsv-blockchain/go-sdk/chainhash"
)

// MockBlockSource is a test double for BlockSource.
// Both function fields must be set before the corresponding method is called.
type MockBlockSource struct {
	GetBestBlockHeightFn func(ctx context.Context) (uint64, error)
	GetBlockHashFn       func(ctx context.Context, height uint64) (*chainhash.Hash, error)
}

func (m *MockBlockSource) GetBestBlockHeight(ctx context.Context) (uint64, error) {
	return m.GetBestBlockHeightFn(ctx)
}

func (m *MockBlockSource) GetBlockHash(ctx context.Context, height uint64) (*chainhash.Hash, error) {
	return m.GetBlockHashFn(ctx, height)
}
