package consumer

import (
	"context"

	"github.com/synnergy-network/walletd/internal/primitives"
)

// AssetMetadataFetcher resolves the symbol/decimals/price for one asset that
// StoreTransactionsConsumer reported as missing. Out of this core's scope is
// the concrete price source (an indexer, a DEX aggregator, a pricing
// provider); this interface is the seam a future provider plugs into.
type AssetMetadataFetcher interface {
	Fetch(ctx context.Context, id primitives.AssetID) (primitives.Asset, primitives.AssetPrice, error)
}

// AssetUpserter persists the fetched metadata+price. Satisfied by
// *store.Store.
type AssetUpserter interface {
	UpsertAssetAndPrice(ctx context.Context, asset primitives.Asset, price primitives.AssetPrice) error
}

// FetchAssetsConsumer implements the broker.QueueFetchAssets handler: look
// up the asset's current metadata/price and persist it, so the next
// transaction referencing it finds a priced row.
type FetchAssetsConsumer struct {
	fetcher AssetMetadataFetcher
	store   AssetUpserter
}

// NewFetchAssetsConsumer builds a FetchAssetsConsumer.
func NewFetchAssetsConsumer(fetcher AssetMetadataFetcher, store AssetUpserter) *FetchAssetsConsumer {
	return &FetchAssetsConsumer{fetcher: fetcher, store: store}
}

// Process fetches and persists metadata+price for one missing asset id.
func (c *FetchAssetsConsumer) Process(ctx context.Context, payload primitives.FetchAssetsPayload) error {
	asset, price, err := c.fetcher.Fetch(ctx, payload.AssetID)
	if err != nil {
		return err
	}
	asset.ID = payload.AssetID
	price.AssetID = payload.AssetID
	return c.store.UpsertAssetAndPrice(ctx, asset, price)
}
