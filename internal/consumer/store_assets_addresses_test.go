package consumer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synnergy-network/walletd/internal/primitives"
)

func TestStoreAssetsAddressesConsumer_PersistsNonEmptyBatch(t *testing.T) {
	store := &fakeAssetAddressStore{}
	c := NewStoreAssetsAddressesConsumer(store)

	err := c.Process(context.Background(), primitives.AssetsAddressPayload{
		Values: []primitives.AssetAddressValue{{AssetID: testAssetID(), Address: "0xabc"}},
	})
	require.NoError(t, err)
	assert.Len(t, store.pairs, 1)
}

func TestStoreAssetsAddressesConsumer_EmptyIsNoop(t *testing.T) {
	store := &fakeAssetAddressStore{}
	c := NewStoreAssetsAddressesConsumer(store)

	err := c.Process(context.Background(), primitives.AssetsAddressPayload{})
	require.NoError(t, err)
	assert.Empty(t, store.pairs)
}
