// Package store implements the subscription/asset/transaction persistence
// layer, backed by Postgres via lib/pq.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/synnergy-network/walletd/internal/errs"
	"github.com/synnergy-network/walletd/internal/primitives"
)

// Store is a value-type handle sharing one underlying connection pool; it
// may be passed freely between consumer goroutines, since no task owns the
// pool exclusively.
type Store struct {
	db *sql.DB
}

// Options configures the underlying connection pool.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
}

// DefaultOptions mirrors sensible pool defaults for a long-lived daemon.
func DefaultOptions() Options {
	return Options{
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxIdleTime: 5 * time.Minute,
		ConnMaxLifetime: time.Hour,
	}
}

// Open connects to dsn and verifies the connection.
func Open(dsn string, opts Options) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", errs.ErrStorageUnavailable)
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping: %w", errs.ErrStorageUnavailable)
	}
	return &Store{db: db}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }

const maxBatchSize = 100

// GetSubscriptionsByChainAddresses returns every subscription whose (chain,
// address) matches one of addresses, as a single consistent-read query.
func (s *Store) GetSubscriptionsByChainAddresses(ctx context.Context, chain primitives.Chain, addresses []string) ([]primitives.Subscription, error) {
	if len(addresses) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT device_id, wallet_id, wallet_index, chain, address
		FROM subscriptions
		WHERE chain = $1 AND address = ANY($2)`,
		chain.String(), pq.Array(addresses))
	if err != nil {
		return nil, fmt.Errorf("store: get subscriptions: %w", errs.ErrStorageUnavailable)
	}
	defer rows.Close()

	var out []primitives.Subscription
	for rows.Next() {
		var sub primitives.Subscription
		var chainStr string
		if err := rows.Scan(&sub.DeviceID, &sub.WalletID, &sub.WalletIdx, &chainStr, &sub.Address); err != nil {
			return nil, fmt.Errorf("store: scan subscription: %w", errs.ErrStorageUnavailable)
		}
		sub.Chain = chain
		out = append(out, sub)
	}
	return out, rows.Err()
}

// GetAssetsWithPrices returns price metadata for every asset in ids that has
// a stored price row; ids with no price row are simply absent from the
// result.
func (s *Store) GetAssetsWithPrices(ctx context.Context, ids []primitives.AssetID) ([]primitives.AssetPriceMetadata, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	serialized := make([]string, len(ids))
	for i, id := range ids {
		serialized[i] = id.String()
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT a.asset_id, a.symbol, a.name, a.decimals, a.type,
		 p.price, p.price_change_24h, p.last_updated_at
		FROM assets a
		JOIN asset_prices p ON p.asset_id = a.asset_id
		WHERE a.asset_id = ANY($1)`,
		pq.Array(serialized))
	if err != nil {
		return nil, fmt.Errorf("store: get assets with prices: %w", errs.ErrStorageUnavailable)
	}
	defer rows.Close()

	var out []primitives.AssetPriceMetadata
	for rows.Next() {
		var assetIDStr string
		var asset primitives.Asset
		var price primitives.AssetPrice
		if err := rows.Scan(&assetIDStr, &asset.Symbol, &asset.Name, &asset.Decimals, &asset.Type,
			&price.Price, &price.PriceChange24h, &price.LastUpdatedAt); err != nil {
			return nil, fmt.Errorf("store: scan asset price: %w", errs.ErrStorageUnavailable)
		}
		assetID, err := primitives.ParseAssetID(assetIDStr)
		if err != nil {
			continue // stored rows are always well-formed; defensive skip only
		}
		asset.ID = assetID
		price.AssetID = assetID
		out = append(out, primitives.AssetPriceMetadata{Asset: asset, Price: price})
	}
	return out, rows.Err()
}

// AddTransactions idempotently inserts txs, in chunks of <=100, on conflict
// by id doing nothing.
func (s *Store) AddTransactions(ctx context.Context, txs []primitives.Transaction) error {
	for start := 0; start < len(txs); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(txs) {
			end = len(txs)
		}
		if err := s.addTransactionsBatch(ctx, txs[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) addTransactionsBatch(ctx context.Context, batch []primitives.Transaction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin add transactions: %w", errs.ErrStorageUnavailable)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (id, hash, chain, asset_id, from_address, to_address, contract,
		 type, state, block_number, sequence, fee, fee_asset_id, value,
		 memo, metadata, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		ON CONFLICT (id) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("store: prepare add transactions: %w", errs.ErrStorageUnavailable)
	}
	defer stmt.Close()

	for _, t := range batch {
		var metadataJSON []byte
		if t.Metadata != nil {
			metadataJSON, err = marshalMetadata(t.Metadata)
			if err != nil {
				return fmt.Errorf("store: marshal metadata for tx %q: %w", t.ID, err)
			}
		}
		_, err = stmt.ExecContext(ctx,
			t.ID, t.Hash, t.Chain.String(), t.AssetID.String(), t.From, t.To, t.Contract,
			string(t.Type), string(t.State), t.BlockNumber, t.Sequence, t.Fee, t.FeeAssetID.String(),
			t.Value, t.Memo, nullIfEmpty(metadataJSON), t.CreatedAt)
		if err != nil {
			return classifyWriteError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit add transactions: %w", errs.ErrStorageUnavailable)
	}
	return nil
}

// AddAssetsAddresses idempotently links each (address, asset_id) pair.
func (s *Store) AddAssetsAddresses(ctx context.Context, pairs []primitives.AssetAddressValue) error {
	if len(pairs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin add assets addresses: %w", errs.ErrStorageUnavailable)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO assets_addresses (address, asset_id)
		VALUES ($1, $2)
		ON CONFLICT (address, asset_id) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("store: prepare add assets addresses: %w", errs.ErrStorageUnavailable)
	}
	defer stmt.Close()

	for _, p := range pairs {
		if _, err := stmt.ExecContext(ctx, p.Address, p.AssetID.String()); err != nil {
			return classifyWriteError(err)
		}
	}
	return tx.Commit()
}

// NFTCollection and NFTAsset back the NFT cache; fetching NFT metadata from
// external marketplaces/indexers is out of scope.
type NFTCollection struct {
	ID       string
	Chain    primitives.Chain
	Contract string
	Name     string
}

type NFTAsset struct {
	ID           string
	CollectionID string
	TokenID      string
	OwnerAddress string
}

// AddNFTCollections idempotently inserts collections, on conflict by id
// doing nothing.
func (s *Store) AddNFTCollections(ctx context.Context, collections []NFTCollection) error {
	for _, c := range collections {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO nft_collections (id, chain, contract, name)
			VALUES ($1,$2,$3,$4)
			ON CONFLICT (id) DO NOTHING`,
			c.ID, c.Chain.String(), c.Contract, c.Name)
		if err != nil {
			return classifyWriteError(err)
		}
	}
	return nil
}

// AddNFTAssets idempotently inserts assets, on conflict by id doing nothing.
func (s *Store) AddNFTAssets(ctx context.Context, assets []NFTAsset) error {
	for _, a := range assets {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO nft_assets (id, collection_id, token_id, owner_address)
			VALUES ($1,$2,$3,$4)
			ON CONFLICT (id) DO NOTHING`,
			a.ID, a.CollectionID, a.TokenID, a.OwnerAddress)
		if err != nil {
			return classifyWriteError(err)
		}
	}
	return nil
}

func nullIfEmpty(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
