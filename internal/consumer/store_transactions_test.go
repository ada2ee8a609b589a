package consumer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synnergy-network/walletd/internal/broker"
	"github.com/synnergy-network/walletd/internal/primitives"
)

type fakeSubscriptionStore struct {
	subs []primitives.Subscription
}

func (f *fakeSubscriptionStore) GetSubscriptionsByChainAddresses(ctx context.Context, chain primitives.Chain, addresses []string) ([]primitives.Subscription, error) {
	return f.subs, nil
}

type fakeAssetStore struct {
	byID map[primitives.AssetID]primitives.AssetPriceMetadata
}

func (f *fakeAssetStore) GetAssetsWithPrices(ctx context.Context, ids []primitives.AssetID) ([]primitives.AssetPriceMetadata, error) {
	var out []primitives.AssetPriceMetadata
	for _, id := range ids {
		if m, ok := f.byID[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeTransactionStore struct {
	stored []primitives.Transaction
}

func (f *fakeTransactionStore) AddTransactions(ctx context.Context, txs []primitives.Transaction) error {
	f.stored = append(f.stored, txs...)
	return nil
}

type fakeAssetAddressStore struct {
	pairs []primitives.AssetAddressValue
}

func (f *fakeAssetAddressStore) AddAssetsAddresses(ctx context.Context, pairs []primitives.AssetAddressValue) error {
	f.pairs = append(f.pairs, pairs...)
	return nil
}

type fakeDeviceStore struct {
	byID map[string]primitives.Device
}

func (f *fakeDeviceStore) GetDevicesByIDs(ctx context.Context, ids []string) ([]primitives.Device, error) {
	var out []primitives.Device
	for _, id := range ids {
		if d, ok := f.byID[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakePublisher struct {
	published map[string][]any
}

func newFakePublisher() *fakePublisher { return &fakePublisher{published: make(map[string][]any)} }

func (f *fakePublisher) Publish(ctx context.Context, queue string, payload any) error {
	f.published[queue] = append(f.published[queue], payload)
	return nil
}

type fakeComposer struct{}

func (fakeComposer) Compose(device primitives.Device, sub primitives.Subscription, tx primitives.Transaction, assets map[primitives.AssetID]primitives.Asset) (primitives.GorushNotification, bool, error) {
	return primitives.GorushNotification{Tokens: []string{device.Token}, Title: "t"}, true, nil
}

func testAssetID() primitives.AssetID {
	return primitives.AssetID{Chain: primitives.Chain{Type: primitives.ChainTypeEthereum, NetworkID: "1"}}
}

func newTestConsumer(subs *fakeSubscriptionStore, assets *fakeAssetStore, txs *fakeTransactionStore, addrs *fakeAssetAddressStore, devices *fakeDeviceStore, pub *fakePublisher, minUSD float64, outdated time.Duration) *StoreTransactionsConsumer {
	return NewStoreTransactionsConsumer(subs, assets, txs, addrs, devices, pub, fakeComposer{},
		func() float64 { return minUSD },
		func(primitives.Chain) time.Duration { return outdated },
		nil)
}

func TestStoreTransactionsConsumer_PersistsAndNotifies(t *testing.T) {
	asset := testAssetID()
	subs := &fakeSubscriptionStore{subs: []primitives.Subscription{
		{DeviceID: "d1", WalletID: "w1", Chain: asset.Chain, Address: "0xabc"},
	}}
	assets := &fakeAssetStore{byID: map[primitives.AssetID]primitives.AssetPriceMetadata{
		asset: {Asset: primitives.Asset{ID: asset, Symbol: "ETH", Decimals: 18}, Price: primitives.AssetPrice{Price: 3000}},
	}}
	txStore := &fakeTransactionStore{}
	addrStore := &fakeAssetAddressStore{}
	deviceStore := &fakeDeviceStore{byID: map[string]primitives.Device{
		"d1": {ID: "d1", Token: "tok", IsPushEnabled: true},
	}}
	pub := newFakePublisher()
	c := newTestConsumer(subs, assets, txStore, addrStore, deviceStore, pub, 1, time.Hour)

	tx := primitives.Transaction{
		ID: "tx1", Type: primitives.TransactionTypeTransfer, AssetID: asset,
		From: "0xabc", To: "0xdef", Value: "1000000000000000000", CreatedAt: time.Now(),
	}
	payload := primitives.TransactionsPayload{Chain: asset.Chain, Blocks: []uint64{1}, Transactions: []primitives.Transaction{tx}}

	count, err := c.Process(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Len(t, txStore.stored, 1)
	assert.NotEmpty(t, pub.published[broker.QueueNotificationsTransactions])
}

func TestStoreTransactionsConsumer_InsufficientAmountSuppressesBoth(t *testing.T) {
	asset := testAssetID()
	subs := &fakeSubscriptionStore{subs: []primitives.Subscription{
		{DeviceID: "d1", WalletID: "w1", Chain: asset.Chain, Address: "0xabc"},
	}}
	assets := &fakeAssetStore{byID: map[primitives.AssetID]primitives.AssetPriceMetadata{
		asset: {Asset: primitives.Asset{ID: asset, Symbol: "ETH", Decimals: 18}, Price: primitives.AssetPrice{Price: 3000}},
	}}
	txStore := &fakeTransactionStore{}
	addrStore := &fakeAssetAddressStore{}
	deviceStore := &fakeDeviceStore{byID: map[string]primitives.Device{"d1": {ID: "d1", Token: "tok", IsPushEnabled: true}}}
	pub := newFakePublisher()
	c := newTestConsumer(subs, assets, txStore, addrStore, deviceStore, pub, 100, time.Hour)

	// 0.0001 ETH at $3000 = $0.30, below the $100 floor.
	tx := primitives.Transaction{
		ID: "tx1", Type: primitives.TransactionTypeTransfer, AssetID: asset,
		From: "0xabc", To: "0xdef", Value: "100000000000000", CreatedAt: time.Now(),
	}
	payload := primitives.TransactionsPayload{Chain: asset.Chain, Blocks: []uint64{1}, Transactions: []primitives.Transaction{tx}}

	count, err := c.Process(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Empty(t, txStore.stored)
	assert.Empty(t, pub.published[broker.QueueNotificationsTransactions])
}

func TestStoreTransactionsConsumer_MissingPriceRequestsFetchAndSkipsTx(t *testing.T) {
	asset := testAssetID()
	subs := &fakeSubscriptionStore{subs: []primitives.Subscription{
		{DeviceID: "d1", WalletID: "w1", Chain: asset.Chain, Address: "0xabc"},
	}}
	assets := &fakeAssetStore{byID: map[primitives.AssetID]primitives.AssetPriceMetadata{}}
	txStore := &fakeTransactionStore{}
	addrStore := &fakeAssetAddressStore{}
	deviceStore := &fakeDeviceStore{byID: map[string]primitives.Device{"d1": {ID: "d1", Token: "tok", IsPushEnabled: true}}}
	pub := newFakePublisher()
	c := newTestConsumer(subs, assets, txStore, addrStore, deviceStore, pub, 1, time.Hour)

	tx := primitives.Transaction{
		ID: "tx1", Type: primitives.TransactionTypeTransfer, AssetID: asset,
		From: "0xabc", To: "0xdef", Value: "1000000000000000000", CreatedAt: time.Now(),
	}
	payload := primitives.TransactionsPayload{Chain: asset.Chain, Blocks: []uint64{1}, Transactions: []primitives.Transaction{tx}}

	count, err := c.Process(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Empty(t, txStore.stored)
	assert.NotEmpty(t, pub.published[broker.QueueFetchAssets])
}

func TestStoreTransactionsConsumer_OutdatedPersistsButDoesNotNotify(t *testing.T) {
	asset := testAssetID()
	subs := &fakeSubscriptionStore{subs: []primitives.Subscription{
		{DeviceID: "d1", WalletID: "w1", Chain: asset.Chain, Address: "0xabc"},
	}}
	assets := &fakeAssetStore{byID: map[primitives.AssetID]primitives.AssetPriceMetadata{
		asset: {Asset: primitives.Asset{ID: asset, Symbol: "ETH", Decimals: 18}, Price: primitives.AssetPrice{Price: 3000}},
	}}
	txStore := &fakeTransactionStore{}
	addrStore := &fakeAssetAddressStore{}
	deviceStore := &fakeDeviceStore{byID: map[string]primitives.Device{"d1": {ID: "d1", Token: "tok", IsPushEnabled: true}}}
	pub := newFakePublisher()
	c := newTestConsumer(subs, assets, txStore, addrStore, deviceStore, pub, 1, time.Minute)

	tx := primitives.Transaction{
		ID: "tx1", Type: primitives.TransactionTypeTransfer, AssetID: asset,
		From: "0xabc", To: "0xdef", Value: "1000000000000000000", CreatedAt: time.Now().Add(-time.Hour),
	}
	payload := primitives.TransactionsPayload{Chain: asset.Chain, Blocks: []uint64{1}, Transactions: []primitives.Transaction{tx}}

	count, err := c.Process(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Len(t, txStore.stored, 1)
	assert.Empty(t, pub.published[broker.QueueNotificationsTransactions])
}

func TestStoreTransactionsConsumer_BackfillPersistsWithoutNotifying(t *testing.T) {
	asset := testAssetID()
	subs := &fakeSubscriptionStore{subs: []primitives.Subscription{
		{DeviceID: "d1", WalletID: "w1", Chain: asset.Chain, Address: "0xabc"},
	}}
	assets := &fakeAssetStore{byID: map[primitives.AssetID]primitives.AssetPriceMetadata{
		asset: {Asset: primitives.Asset{ID: asset, Symbol: "ETH", Decimals: 18}, Price: primitives.AssetPrice{Price: 3000}},
	}}
	txStore := &fakeTransactionStore{}
	addrStore := &fakeAssetAddressStore{}
	deviceStore := &fakeDeviceStore{byID: map[string]primitives.Device{"d1": {ID: "d1", Token: "tok", IsPushEnabled: true}}}
	pub := newFakePublisher()
	c := newTestConsumer(subs, assets, txStore, addrStore, deviceStore, pub, 1, time.Hour)

	tx := primitives.Transaction{
		ID: "tx1", Type: primitives.TransactionTypeTransfer, AssetID: asset,
		From: "0xabc", To: "0xdef", Value: "1000000000000000000", CreatedAt: time.Now(),
	}
	// Empty Blocks marks a backfill replay: never notify.
	payload := primitives.TransactionsPayload{Chain: asset.Chain, Transactions: []primitives.Transaction{tx}}

	count, err := c.Process(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Empty(t, pub.published[broker.QueueNotificationsTransactions])
}

func TestStoreTransactionsConsumer_NoSubscriptionsSkipsEverything(t *testing.T) {
	asset := testAssetID()
	subs := &fakeSubscriptionStore{}
	assets := &fakeAssetStore{byID: map[primitives.AssetID]primitives.AssetPriceMetadata{}}
	txStore := &fakeTransactionStore{}
	addrStore := &fakeAssetAddressStore{}
	deviceStore := &fakeDeviceStore{}
	pub := newFakePublisher()
	c := newTestConsumer(subs, assets, txStore, addrStore, deviceStore, pub, 1, time.Hour)

	tx := primitives.Transaction{ID: "tx1", Type: primitives.TransactionTypeTransfer, AssetID: asset, From: "0xabc", To: "0xdef", Value: "1", CreatedAt: time.Now()}
	payload := primitives.TransactionsPayload{Chain: asset.Chain, Blocks: []uint64{1}, Transactions: []primitives.Transaction{tx}}

	count, err := c.Process(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Empty(t, txStore.stored)
}
