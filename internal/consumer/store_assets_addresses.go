package consumer

import (
	"context"

	"github.com/synnergy-network/walletd/internal/primitives"
)

// StoreAssetsAddressesConsumer implements the
// broker.QueueStoreAssetsAssociations handler: persist the (asset, address)
// links StoreTransactionsConsumer batched, letting a wallet-scan query find
// every asset an address has ever moved without re-deriving it from the
// transaction log.
type StoreAssetsAddressesConsumer struct {
	store AssetAddressStore
}

// NewStoreAssetsAddressesConsumer builds a StoreAssetsAddressesConsumer.
func NewStoreAssetsAddressesConsumer(store AssetAddressStore) *StoreAssetsAddressesConsumer {
	return &StoreAssetsAddressesConsumer{store: store}
}

// Process persists one batch of asset-address links.
func (c *StoreAssetsAddressesConsumer) Process(ctx context.Context, payload primitives.AssetsAddressPayload) error {
	if len(payload.Values) == 0 {
		return nil
	}
	return c.store.AddAssetsAddresses(ctx, payload.Values)
}
