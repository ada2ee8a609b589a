package store

import (
	"context"
	"fmt"

	"github.com/synnergy-network/walletd/internal/errs"
	"github.com/synnergy-network/walletd/internal/primitives"
)

// UpsertAssetAndPrice records freshly fetched metadata+price for an asset
// the store-transactions consumer previously reported missing, keyed by
// asset_id.
func (s *Store) UpsertAssetAndPrice(ctx context.Context, asset primitives.Asset, price primitives.AssetPrice) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin upsert asset: %w", errs.ErrStorageUnavailable)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO assets (asset_id, symbol, name, decimals, type)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (asset_id) DO UPDATE SET
			symbol = EXCLUDED.symbol, name = EXCLUDED.name, decimals = EXCLUDED.decimals, type = EXCLUDED.type`,
		asset.ID.String(), asset.Symbol, asset.Name, asset.Decimals, string(asset.Type))
	if err != nil {
		return classifyWriteError(err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO asset_prices (asset_id, price, price_change_24h, last_updated_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (asset_id) DO UPDATE SET
			price = EXCLUDED.price, price_change_24h = EXCLUDED.price_change_24h, last_updated_at = EXCLUDED.last_updated_at`,
		asset.ID.String(), price.Price, price.PriceChange24h, price.LastUpdatedAt)
	if err != nil {
		return classifyWriteError(err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit upsert asset: %w", errs.ErrStorageUnavailable)
	}
	return nil
}
