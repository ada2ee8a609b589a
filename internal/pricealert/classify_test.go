package pricealert

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/synnergy-network/walletd/internal/primitives"
)

func ptrF(f float64) *float64                                 { return &f }
func ptrDir(d primitives.PriceAlertDirection) *primitives.PriceAlertDirection { return &d }

func TestClassify_ExplicitPriceTakesPrecedence(t *testing.T) {
	alert := primitives.PriceAlert{
		Price:              ptrF(100),
		PricePercentChange: ptrF(5), // also set; the percent rule alone would not fire here, so PriceUp shows price is checked first
		Direction:          ptrDir(primitives.PriceAlertDirectionUp),
	}
	price := primitives.AssetPrice{Price: 150, PriceChange24h: -10} // percent rule would not fire
	typ, ok := classify(alert, price, Rules{})
	assert.True(t, ok)
	assert.Equal(t, AlertTypePriceUp, typ)
}

func TestClassify_ExplicitPriceDownDirection(t *testing.T) {
	alert := primitives.PriceAlert{Price: ptrF(100), Direction: ptrDir(primitives.PriceAlertDirectionDown)}
	price := primitives.AssetPrice{Price: 90}
	typ, ok := classify(alert, price, Rules{})
	assert.True(t, ok)
	assert.Equal(t, AlertTypePriceDown, typ)
}

func TestClassify_PercentChangeFallback(t *testing.T) {
	alert := primitives.PriceAlert{PricePercentChange: ptrF(5), Direction: ptrDir(primitives.PriceAlertDirectionUp)}
	price := primitives.AssetPrice{PriceChange24h: 6}
	typ, ok := classify(alert, price, Rules{})
	assert.True(t, ok)
	assert.Equal(t, AlertTypePricePercentChangeUp, typ)

	price = primitives.AssetPrice{PriceChange24h: 4}
	_, ok = classify(alert, price, Rules{})
	assert.False(t, ok)
}

func TestClassify_GlobalThresholds(t *testing.T) {
	rules := Rules{IncreasePct: 10, DecreasePct: 10}

	typ, ok := classify(primitives.PriceAlert{}, primitives.AssetPrice{PriceChange24h: 11}, rules)
	assert.True(t, ok)
	assert.Equal(t, AlertTypePriceChangesUp, typ)

	typ, ok = classify(primitives.PriceAlert{}, primitives.AssetPrice{PriceChange24h: -11}, rules)
	assert.True(t, ok)
	assert.Equal(t, AlertTypePriceChangesDown, typ)

	_, ok = classify(primitives.PriceAlert{}, primitives.AssetPrice{PriceChange24h: 5}, rules)
	assert.False(t, ok)
}

func TestClassify_MissingDirectionNeverTriggers(t *testing.T) {
	alert := primitives.PriceAlert{Price: ptrF(100)}
	_, ok := classify(alert, primitives.AssetPrice{Price: 200}, Rules{})
	assert.False(t, ok)
}
