package consumer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synnergy-network/walletd/internal/primitives"
)

func TestDeviceStreamAggregator_MergesSameDeviceWallet(t *testing.T) {
	asset := testAssetID()
	sub := primitives.Subscription{DeviceID: "d1", WalletID: "w1", Address: "0xabc"}
	a := NewDeviceStreamAggregator()

	a.Add(sub, primitives.Transaction{ID: "tx1", AssetID: asset})
	a.Add(sub, primitives.Transaction{ID: "tx2", AssetID: asset})

	events := a.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "d1", events[0].DeviceID)
	assert.Equal(t, "w1", events[0].Event.WalletID)
	assert.ElementsMatch(t, []string{"tx1", "tx2"}, events[0].Event.TransactionIDs)
	assert.Equal(t, []string{asset.String()}, events[0].Event.AssetIDs)
}

func TestDeviceStreamAggregator_SeparatesDifferentWallets(t *testing.T) {
	asset := testAssetID()
	a := NewDeviceStreamAggregator()

	a.Add(primitives.Subscription{DeviceID: "d1", WalletID: "w1"}, primitives.Transaction{ID: "tx1", AssetID: asset})
	a.Add(primitives.Subscription{DeviceID: "d1", WalletID: "w2"}, primitives.Transaction{ID: "tx2", AssetID: asset})

	events := a.Events()
	assert.Len(t, events, 2)
}
