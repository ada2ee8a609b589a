// Package chain declares the uniform Chain Provider Facade (C2) and the
// closed Provider registry (C3's Parser and C6's consumer talk only to this
// interface, never to a concrete chain client).
package chain

import (
	"context"

	"github.com/synnergy-network/walletd/internal/primitives"
)

// AssetMeta is the token metadata a Provider can optionally resolve via
// GetTokenData.
type AssetMeta struct {
	Symbol   string
	Name     string
	Decimals int32
}

// Provider is the uniform async contract every chain family implements. All
// methods are cancel-safe: a caller may abandon the context and the
// Provider must not corrupt shared state.
type Provider interface {
	// GetChain returns the Chain this Provider serves.
	GetChain() primitives.Chain

	// GetLatestBlock returns the chain's current tip height.
	GetLatestBlock(ctx context.Context) (uint64, error)

	// GetTransactions returns the already-mapped transactions for one
	// block height. Mapping failures for individual items never surface
	// here: a malformed item is simply absent.
	GetTransactions(ctx context.Context, blockNumber uint64) ([]primitives.Transaction, error)

	// GetTokenData resolves metadata for a token id, when the chain
	// family supports on-chain metadata lookups. Optional: implementations
	// may return errs.ErrUnsupportedChain-classed errors if unsupported.
	GetTokenData(ctx context.Context, tokenID string) (AssetMeta, error)
}
