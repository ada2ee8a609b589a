package pricealert

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synnergy-network/walletd/internal/primitives"
)

func testTriggered(alertType AlertType, pushEnabled bool, token string) Triggered {
	return Triggered{
		Device: primitives.Device{ID: "d1", Token: token, IsPushEnabled: pushEnabled, Currency: "USD"},
		Asset:  primitives.Asset{Symbol: "BTC", Name: "Bitcoin"},
		Price:  primitives.Price{Value: decimal.NewFromFloat(65000), ChangePercentage24h: decimal.NewFromFloat(5)},
		AlertType: alertType,
	}
}

func TestComposer_DisabledOrEmptyTokenIsSuppressed(t *testing.T) {
	c := NewComposer(nil)

	_, ok, err := c.Compose(testTriggered(AlertTypePriceUp, false, "tok"))
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = c.Compose(testTriggered(AlertTypePriceUp, true, ""))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestComposer_UpAndDownTemplates(t *testing.T) {
	c := NewComposer(nil)

	n, ok, err := c.Compose(testTriggered(AlertTypePriceUp, true, "tok"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, n.Title, "up")
	assert.Equal(t, primitives.NotificationDataTypePriceAlert, n.Data.Type)

	n, ok, err = c.Compose(testTriggered(AlertTypePriceChangesDown, true, "tok"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, n.Title, "down")
}

func TestComposer_AllTimeHigh(t *testing.T) {
	c := NewComposer(nil)
	n, ok, err := c.Compose(testTriggered(AlertTypeAllTimeHigh, true, "tok"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, n.Title, "all-time high")
}
