package pricealert

import (
	"fmt"

	"github.com/synnergy-network/walletd/internal/notification"
	"github.com/synnergy-network/walletd/internal/primitives"
)

// Triggered is one alert that classify found has fired, already carrying
// the converted-to-device-currency price.
type Triggered struct {
	Device    primitives.Device
	Asset     primitives.Asset
	Price     primitives.Price
	AlertType AlertType
	Alert     primitives.PriceAlert
}

// Composer builds a push envelope for one Triggered alert, reusing
// internal/notification's Localizer contract and message catalog.
type Composer struct {
	factory notification.LocalizerFactory
}

// NewComposer builds a Composer. A nil factory falls back to
// notification.DefaultLocalizerFactory.
func NewComposer(factory notification.LocalizerFactory) *Composer {
	if factory == nil {
		factory = notification.DefaultLocalizerFactory
	}
	return &Composer{factory: factory}
}

// Compose renders t as a push envelope. ok is false (err nil) when the
// device is gated out (push disabled or no token).
func (c *Composer) Compose(t Triggered) (primitives.GorushNotification, bool, error) {
	if !t.Device.IsPushEnabled || t.Device.Token == "" {
		return primitives.GorushNotification{}, false, nil
	}

	loc := c.factory(t.Device.Locale)
	assetName := t.Asset.Name
	if assetName == "" {
		assetName = t.Asset.Symbol
	}
	priceStr := formatCurrency(t.Price.Value, t.Device.Currency)
	changeStr := formatPercent(t.Price.ChangePercentage24h)

	var title, body string
	switch t.AlertType {
	case AlertTypePriceChangesUp, AlertTypePriceUp, AlertTypePricePercentChangeUp:
		title = loc.Localize("notification_price_alert_up_title", assetName)
		body = loc.Localize("notification_price_alert_up_body", priceStr, changeStr)
	case AlertTypePriceChangesDown, AlertTypePriceDown, AlertTypePricePercentChangeDown:
		title = loc.Localize("notification_price_alert_down_title", assetName)
		body = loc.Localize("notification_price_alert_down_body", priceStr, changeStr)
	case AlertTypeAllTimeHigh:
		title = loc.Localize("notification_price_alert_all_time_high_title", assetName)
		body = loc.Localize("notification_price_alert_all_time_high_body", priceStr)
	default:
		return primitives.GorushNotification{}, false, fmt.Errorf("pricealert: unknown alert type %q", t.AlertType)
	}

	data := primitives.NotificationData{
		Type:    primitives.NotificationDataTypePriceAlert,
		Payload: primitives.PriceAlertNotificationData{AssetID: t.Asset.ID.String()},
	}
	return primitives.GorushNotification{
		Tokens:   []string{t.Device.Token},
		Platform: t.Device.Platform,
		Title:    title,
		Message:  body,
		Data:     data,
	}, true, nil
}
