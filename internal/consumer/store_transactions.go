// Package consumer implements the downstream half of the ingestion
// pipeline: it consumes the payloads a Parser publishes, resolves
// subscriptions/assets, persists transactions, and fans out notification and
// asset-link payloads for the sibling consumers and the notification
// composer to pick up.
package consumer

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/synnergy-network/walletd/internal/broker"
	"github.com/synnergy-network/walletd/internal/logging"
	"github.com/synnergy-network/walletd/internal/primitives"
)

// SubscriptionStore resolves which devices are watching which addresses.
// Satisfied by *store.Store.
type SubscriptionStore interface {
	GetSubscriptionsByChainAddresses(ctx context.Context, chain primitives.Chain, addresses []string) ([]primitives.Subscription, error)
}

// AssetStore resolves priced asset metadata. Satisfied by *store.Store.
type AssetStore interface {
	GetAssetsWithPrices(ctx context.Context, ids []primitives.AssetID) ([]primitives.AssetPriceMetadata, error)
}

// TransactionStore persists the window's transactions. Satisfied by
// *store.Store.
type TransactionStore interface {
	AddTransactions(ctx context.Context, txs []primitives.Transaction) error
}

// AssetAddressStore links an asset to every address that touched it.
// Satisfied by *store.Store.
type AssetAddressStore interface {
	AddAssetsAddresses(ctx context.Context, pairs []primitives.AssetAddressValue) error
}

// DeviceStore resolves device push registrations. Satisfied by *store.Store.
type DeviceStore interface {
	GetDevicesByIDs(ctx context.Context, ids []string) ([]primitives.Device, error)
}

// Publisher is the narrow broker dependency this consumer needs. Satisfied
// by *broker.Broker.
type Publisher interface {
	Publish(ctx context.Context, queue string, payload any) error
}

// Composer builds a push envelope for one (device, subscription,
// transaction) triple. Satisfied by *notification.Composer.
type Composer interface {
	Compose(device primitives.Device, sub primitives.Subscription, tx primitives.Transaction, assets map[primitives.AssetID]primitives.Asset) (primitives.GorushNotification, bool, error)
}

// StoreTransactionsConsumer implements the algorithm behind
// broker.QueueStoreTransactions: resolve subscriptions and asset prices,
// persist each transaction that touches a subscribed address and whose
// assets all have a priced row (transfer-like transactions below the
// minimum USD amount are not persisted), and fan out device
// notifications, asset-address links, and fetch-assets requests for
// whatever was missing a priced row.
type StoreTransactionsConsumer struct {
	subs          SubscriptionStore
	assets        AssetStore
	txs           TransactionStore
	assetAddrs    AssetAddressStore
	devices       DeviceStore
	publisher     Publisher
	composer      Composer
	minAmount     func() float64
	outdatedAfter func(primitives.Chain) time.Duration
	metrics       *Metrics
}

// NewStoreTransactionsConsumer builds a consumer. minAmountUSD and
// outdatedAfter are each called once per Process so a config hot-reload of
// TransactionsMinAmountUsd / per-chain OutdatedThreshold takes effect
// without restarting the task. outdatedAfter is keyed by the payload's
// chain since the threshold is a per-chain tunable. A nil metrics builds
// its own.
func NewStoreTransactionsConsumer(
	subs SubscriptionStore,
	assets AssetStore,
	txs TransactionStore,
	assetAddrs AssetAddressStore,
	devices DeviceStore,
	publisher Publisher,
	composer Composer,
	minAmountUSD func() float64,
	outdatedAfter func(primitives.Chain) time.Duration,
	metrics *Metrics,
) *StoreTransactionsConsumer {
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &StoreTransactionsConsumer{
		subs: subs, assets: assets, txs: txs, assetAddrs: assetAddrs,
		devices: devices, publisher: publisher, composer: composer,
		minAmount: minAmountUSD, outdatedAfter: outdatedAfter, metrics: metrics,
	}
}

// Process runs the full algorithm for one consumed TransactionsPayload and
// returns the number of transactions persisted.
func (c *StoreTransactionsConsumer) Process(ctx context.Context, payload primitives.TransactionsPayload) (int, error) {
	log := logging.WithChain(payload.Chain.String())
	if len(payload.Transactions) == 0 {
		return 0, nil
	}
	notifyDevices := payload.IsNotifyDevices()
	minUSD := c.minAmount()

	addresses := collectAddresses(payload.Transactions)
	subs, err := c.subs.GetSubscriptionsByChainAddresses(ctx, payload.Chain, addresses)
	if err != nil {
		return 0, err
	}
	if len(subs) == 0 {
		return 0, nil
	}
	outdatedThreshold := c.outdatedAfter(payload.Chain)

	subsByAddress := make(map[string][]primitives.Subscription, len(subs))
	for _, s := range subs {
		subsByAddress[s.Address] = append(subsByAddress[s.Address], s)
	}

	assetIDs := collectMatchedAssetIDs(payload.Transactions, subsByAddress)
	priced, missing, err := c.resolveAssets(ctx, assetIDs)
	if err != nil {
		return 0, err
	}
	for _, id := range missing {
		if err := c.publisher.Publish(ctx, broker.QueueFetchAssets, primitives.FetchAssetsPayload{AssetID: id}); err != nil {
			log.WithError(err).Warn("consumer: publish fetch-assets failed")
			continue
		}
		c.metrics.assetsFetchRequested.Inc()
	}

	assetsByID := make(map[primitives.AssetID]primitives.Asset, len(priced))
	for id, meta := range priced {
		assetsByID[id] = meta.Asset
	}

	transactionsMap := make(map[string]primitives.Transaction)
	assetsAddressesSeen := make(map[primitives.AssetAddressValue]struct{})
	var assetsAddresses []primitives.AssetAddressValue
	var notifications []primitives.GorushNotification
	streams := NewDeviceStreamAggregator()

	deviceIDs := collectDeviceIDs(subs)
	devices, err := c.devicesByID(ctx, deviceIDs)
	if err != nil {
		return 0, err
	}

	for _, tx := range payload.Transactions {
		matches := matchingSubscriptions(tx, subsByAddress)
		if len(matches) == 0 {
			continue
		}

		if !allPriced(tx.AssetIDs(), priced) {
			// A FetchAssets request was already published for whatever's
			// missing; this window's occurrence is revisited on the next
			// delivery that references the same asset once it's priced.
			continue
		}
		meta, ok := priced[tx.AssetID]
		if !ok {
			continue
		}

		if isTransferLike(tx.Type) && insufficientAmount(tx.Value, meta.Asset.Decimals, meta.Price.Price, minUSD) {
			// Canonical policy: suppress both persistence and notification.
			c.metrics.insufficientAmount.Inc()
			continue
		}

		transactionsMap[tx.ID] = tx
		for _, pair := range tx.AssetsAddressesWithFee() {
			if pair.Address == "" {
				continue
			}
			matchesSub := false
			for _, sub := range matches {
				if sub.Address == pair.Address {
					matchesSub = true
					break
				}
			}
			if !matchesSub {
				continue
			}
			v := primitives.AssetAddressValue{AssetID: pair.AssetID, Address: pair.Address}
			if _, seen := assetsAddressesSeen[v]; seen {
				continue
			}
			assetsAddressesSeen[v] = struct{}{}
			assetsAddresses = append(assetsAddresses, v)
		}

		isOutdated := time.Since(tx.CreatedAt) > outdatedThreshold
		shouldNotify := !isOutdated && notifyDevices
		if !shouldNotify {
			continue
		}
		for _, sub := range matches {
			device, ok := devices[sub.DeviceID]
			if !ok {
				continue
			}
			n, sent, err := c.composer.Compose(device, sub, tx, assetsByID)
			if err != nil {
				log.WithError(err).WithField("tx_type", string(tx.Type)).Debug("consumer: compose skipped")
				continue
			}
			if !sent {
				continue
			}
			notifications = append(notifications, n)
			streams.Add(sub, tx)
		}
	}

	if err := c.persist(ctx, transactionsMap, assetsAddresses, notifications, streams.Events()); err != nil {
		return 0, err
	}
	return len(transactionsMap), nil
}

func (c *StoreTransactionsConsumer) resolveAssets(ctx context.Context, ids []primitives.AssetID) (map[primitives.AssetID]primitives.AssetPriceMetadata, []primitives.AssetID, error) {
	if len(ids) == 0 {
		return nil, nil, nil
	}
	metas, err := c.assets.GetAssetsWithPrices(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	priced := make(map[primitives.AssetID]primitives.AssetPriceMetadata, len(metas))
	for _, m := range metas {
		priced[m.Asset.ID] = m
	}
	var missing []primitives.AssetID
	for _, id := range ids {
		if _, ok := priced[id]; !ok {
			missing = append(missing, id)
		}
	}
	return priced, missing, nil
}

func (c *StoreTransactionsConsumer) devicesByID(ctx context.Context, ids []string) (map[string]primitives.Device, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	list, err := c.devices.GetDevicesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]primitives.Device, len(list))
	for _, d := range list {
		out[d.ID] = d
	}
	return out, nil
}

// persist runs the transaction write, the asset-address write and the two
// fan-out publishes (notifications and device streams) concurrently: they share no data dependency once the in-memory
// accumulation above is done.
func (c *StoreTransactionsConsumer) persist(
	ctx context.Context,
	transactionsMap map[string]primitives.Transaction,
	assetsAddresses []primitives.AssetAddressValue,
	notifications []primitives.GorushNotification,
	streams []primitives.DeviceStreamPayload,
) error {
	txs := make([]primitives.Transaction, 0, len(transactionsMap))
	for _, t := range transactionsMap {
		txs = append(txs, t)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if len(txs) == 0 {
			return nil
		}
		if err := c.txs.AddTransactions(groupCtx, txs); err != nil {
			return err
		}
		c.metrics.transactionsStored.Add(float64(len(txs)))
		return nil
	})
	group.Go(func() error {
		if len(assetsAddresses) == 0 {
			return nil
		}
		return c.assetAddrs.AddAssetsAddresses(groupCtx, assetsAddresses)
	})
	group.Go(func() error {
		if len(notifications) == 0 {
			return nil
		}
		if err := c.publisher.Publish(groupCtx, broker.QueueNotificationsTransactions, primitives.NotificationsPayload{Notifications: notifications}); err != nil {
			return err
		}
		c.metrics.notificationsPublished.Add(float64(len(notifications)))
		return nil
	})
	group.Go(func() error {
		for _, s := range streams {
			if err := c.publisher.Publish(groupCtx, broker.QueueNotificationsObservers, s); err != nil {
				return err
			}
		}
		return nil
	})
	return group.Wait()
}

func collectAddresses(txs []primitives.Transaction) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range txs {
		for _, a := range t.Addresses() {
			if _, ok := seen[a]; ok {
				continue
			}
			seen[a] = struct{}{}
			out = append(out, a)
		}
	}
	return out
}

// collectMatchedAssetIDs only requests prices for assets referenced by a
// transaction that actually touches a subscribed address: a transaction
// nobody is watching never needs its asset priced.
func collectMatchedAssetIDs(txs []primitives.Transaction, subsByAddress map[string][]primitives.Subscription) []primitives.AssetID {
	seen := make(map[primitives.AssetID]struct{})
	var out []primitives.AssetID
	for _, t := range txs {
		if len(matchingSubscriptions(t, subsByAddress)) == 0 {
			continue
		}
		for _, id := range t.AssetIDs() {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

func allPriced(ids []primitives.AssetID, priced map[primitives.AssetID]primitives.AssetPriceMetadata) bool {
	for _, id := range ids {
		if _, ok := priced[id]; !ok {
			return false
		}
	}
	return true
}

func matchingSubscriptions(tx primitives.Transaction, subsByAddress map[string][]primitives.Subscription) []primitives.Subscription {
	var out []primitives.Subscription
	for _, addr := range tx.Addresses() {
		out = append(out, subsByAddress[addr]...)
	}
	return out
}

func collectDeviceIDs(subs []primitives.Subscription) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, s := range subs {
		if _, ok := seen[s.DeviceID]; ok {
			continue
		}
		seen[s.DeviceID] = struct{}{}
		out = append(out, s.DeviceID)
	}
	return out
}

// isTransferLike reports whether tx.Type is subject to the USD
// insufficient-amount floor. Only plain value transfers are dust-filtered
// here; a stake, swap or approval is never suppressed purely for its USD
// size.
func isTransferLike(t primitives.TransactionType) bool {
	return t == primitives.TransactionTypeTransfer
}

// insufficientAmount reports whether value (in the asset's base units)
// converts to less than minUSD at price. A malformed value never triggers
// suppression: the transaction is persisted rather than silently dropped.
func insufficientAmount(value string, decimals int32, price float64, minUSD float64) bool {
	if minUSD <= 0 {
		return false
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return false
	}
	scale := decimal.New(1, decimals)
	usd := amount.Div(scale).Mul(decimal.NewFromFloat(price))
	return usd.LessThan(decimal.NewFromFloat(minUSD))
}
