package pricealert

import "github.com/synnergy-network/walletd/internal/primitives"

// classify reports the AlertType alert triggers against price, or false if
// it does not. Precedence: an explicit target price wins over a per-alert
// percent-change target, which wins over the global increase/decrease
// thresholds in rules.
func classify(alert primitives.PriceAlert, price primitives.AssetPrice, rules Rules) (AlertType, bool) {
	switch {
	case alert.Price != nil:
		if alert.Direction == nil {
			return "", false
		}
		switch *alert.Direction {
		case primitives.PriceAlertDirectionUp:
			if price.Price >= *alert.Price {
				return AlertTypePriceUp, true
			}
		case primitives.PriceAlertDirectionDown:
			if price.Price <= *alert.Price {
				return AlertTypePriceDown, true
			}
		}
		return "", false

	case alert.PricePercentChange != nil:
		if alert.Direction == nil {
			return "", false
		}
		switch *alert.Direction {
		case primitives.PriceAlertDirectionUp:
			if price.PriceChange24h >= *alert.PricePercentChange {
				return AlertTypePricePercentChangeUp, true
			}
		case primitives.PriceAlertDirectionDown:
			if price.PriceChange24h <= -*alert.PricePercentChange {
				return AlertTypePricePercentChangeDown, true
			}
		}
		return "", false

	case price.PriceChange24h > rules.IncreasePct:
		return AlertTypePriceChangesUp, true

	case price.PriceChange24h < -rules.DecreasePct:
		return AlertTypePriceChangesDown, true
	}
	return "", false
}
