package primitives

import "github.com/shopspring/decimal"

// DefaultFiatCurrency is the currency every stored AssetPrice is denominated
// in before a device-specific conversion is applied.
const DefaultFiatCurrency = "USD"

// Price is a decimal-precision, fiat-convertible asset price consumed by the
// price alert engine. AssetPrice is the float64 form persisted by the store;
// Price trades that for exact base-10 arithmetic once a currency conversion
// is in play.
type Price struct {
	AssetID             AssetID
	Value               decimal.Decimal
	ChangePercentage24h decimal.Decimal
}

// NewPriceFromAssetPrice lifts a stored AssetPrice into decimal precision.
func NewPriceFromAssetPrice(ap AssetPrice) Price {
	return Price{
		AssetID:             ap.AssetID,
		Value:               decimal.NewFromFloat(ap.Price),
		ChangePercentage24h: decimal.NewFromFloat(ap.PriceChange24h),
	}
}

// ConvertedTo rescales p's Value from baseRate to rate, mirroring
// price.new_with_rate(base_rate, rate): the stored price is always in
// DefaultFiatCurrency; a device-facing notification needs it in the
// device's configured currency.
func (p Price) ConvertedTo(baseRate, rate decimal.Decimal) Price {
	if baseRate.IsZero() {
		return p
	}
	p.Value = p.Value.Div(baseRate).Mul(rate)
	return p
}
