package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synnergy-network/walletd/internal/errs"
	"github.com/synnergy-network/walletd/internal/primitives"
)

func testChain() primitives.Chain {
	return primitives.Chain{Type: primitives.ChainTypeEthereum, NetworkID: "1"}
}

func TestComposer_DisabledDeviceIsSuppressed(t *testing.T) {
	c := NewComposer(nil)
	device := primitives.Device{ID: "d1", Token: "tok", IsPushEnabled: false}
	sub := primitives.Subscription{DeviceID: "d1", Address: "0xabc"}
	tx := primitives.Transaction{Type: primitives.TransactionTypeTransfer, From: "0xabc", To: "0xdef", Value: "100"}

	_, ok, err := c.Compose(device, sub, tx, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestComposer_EmptyTokenIsSuppressed(t *testing.T) {
	c := NewComposer(nil)
	device := primitives.Device{ID: "d1", Token: "", IsPushEnabled: true}
	sub := primitives.Subscription{DeviceID: "d1", Address: "0xabc"}
	tx := primitives.Transaction{Type: primitives.TransactionTypeTransfer, From: "0xabc", To: "0xdef", Value: "100"}

	_, ok, err := c.Compose(device, sub, tx, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestComposer_TransferSentVsReceived(t *testing.T) {
	c := NewComposer(nil)
	device := primitives.Device{ID: "d1", Token: "tok", IsPushEnabled: true, Platform: primitives.PlatformIOS}
	asset := primitives.AssetID{Chain: testChain()}
	assets := map[primitives.AssetID]primitives.Asset{asset: {Symbol: "ETH", Decimals: 18}}

	sub := primitives.Subscription{DeviceID: "d1", Address: "0xabc"}
	sentTx := primitives.Transaction{ID: "tx1", Type: primitives.TransactionTypeTransfer, AssetID: asset, From: "0xabc", To: "0xdef", Value: "1000000000000000000"}
	n, ok, err := c.Compose(device, sub, sentTx, assets)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, n.Title, "sent")
	assert.Equal(t, []string{"tok"}, n.Tokens)
	assert.Equal(t, primitives.NotificationDataTypeTransaction, n.Data.Type)

	receivedTx := primitives.Transaction{ID: "tx2", Type: primitives.TransactionTypeTransfer, AssetID: asset, From: "0xdef", To: "0xabc", Value: "1000000000000000000"}
	n, ok, err = c.Compose(device, sub, receivedTx, assets)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, n.Title, "received")
}

func TestComposer_AssetActivationIsUnimplemented(t *testing.T) {
	c := NewComposer(nil)
	device := primitives.Device{ID: "d1", Token: "tok", IsPushEnabled: true}
	sub := primitives.Subscription{DeviceID: "d1", Address: "0xabc"}
	tx := primitives.Transaction{Type: primitives.TransactionTypeAssetActivation, From: "0xabc", To: "0xdef"}

	_, ok, err := c.Compose(device, sub, tx, nil)
	assert.False(t, ok)
	assert.ErrorIs(t, err, errs.ErrUnsupportedTransactionType)
}

func TestComposer_SwapRequiresMetadata(t *testing.T) {
	c := NewComposer(nil)
	device := primitives.Device{ID: "d1", Token: "tok", IsPushEnabled: true}
	sub := primitives.Subscription{DeviceID: "d1", Address: "0xabc"}
	tx := primitives.Transaction{Type: primitives.TransactionTypeSwap, From: "0xabc", To: "0xdef"}

	_, ok, err := c.Compose(device, sub, tx, nil)
	assert.False(t, ok)
	assert.Error(t, err)
}
