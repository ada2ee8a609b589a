package pricealert

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/synnergy-network/walletd/internal/broker"
	"github.com/synnergy-network/walletd/internal/logging"
	"github.com/synnergy-network/walletd/internal/primitives"
)

// lookbackWindow bounds how long an already-fired alert stays suppressed:
// a notified_at older than this is due again.
const lookbackWindow = 24 * time.Hour

// AlertStore resolves due alerts and marks them notified. Satisfied by
// *store.Store.
type AlertStore interface {
	GetDuePriceAlerts(ctx context.Context, before time.Time) ([]primitives.PriceAlert, error)
	MarkPriceAlertsNotified(ctx context.Context, ids []string, at time.Time) error
}

// AssetPriceLookup resolves current price rows. Satisfied by *store.Store.
type AssetPriceLookup interface {
	GetAssetsWithPrices(ctx context.Context, ids []primitives.AssetID) ([]primitives.AssetPriceMetadata, error)
}

// DeviceLookup resolves device push registrations. Satisfied by
// *store.Store.
type DeviceLookup interface {
	GetDevicesByIDs(ctx context.Context, ids []string) ([]primitives.Device, error)
}

// FiatRateLookup resolves a currency's rate against the base currency.
// Satisfied by *store.Store.
type FiatRateLookup interface {
	GetFiatRate(ctx context.Context, currency string) (float64, error)
}

// Publisher is the narrow broker dependency this engine needs. Satisfied by
// *broker.Broker.
type Publisher interface {
	Publish(ctx context.Context, queue string, payload any) error
}

// Engine runs one evaluation pass over every due PriceAlert.
type Engine struct {
	alerts    AlertStore
	prices    AssetPriceLookup
	devices   DeviceLookup
	fiat      FiatRateLookup
	publisher Publisher
	composer  *Composer
	rules     func() Rules
}

// NewEngine builds an Engine. rules is called once per Evaluate so a config
// hot-reload of the global increase/decrease thresholds takes effect
// without restarting the task. A nil composer falls back to
// NewComposer(nil).
func NewEngine(alerts AlertStore, prices AssetPriceLookup, devices DeviceLookup, fiat FiatRateLookup, publisher Publisher, composer *Composer, rules func() Rules) *Engine {
	if composer == nil {
		composer = NewComposer(nil)
	}
	return &Engine{alerts: alerts, prices: prices, devices: devices, fiat: fiat, publisher: publisher, composer: composer, rules: rules}
}

// Evaluate scans every alert due for re-evaluation, marks the ones that
// trigger as notified, and publishes one batched notifications payload.
// Returns the count of alerts that triggered.
func (e *Engine) Evaluate(ctx context.Context) (int, error) {
	log := logging.L()
	now := time.Now()
	due, err := e.alerts.GetDuePriceAlerts(ctx, now.Add(-lookbackWindow))
	if err != nil {
		return 0, err
	}
	if len(due) == 0 {
		return 0, nil
	}

	assetIDs := collectAssetIDs(due)
	priced, err := e.prices.GetAssetsWithPrices(ctx, assetIDs)
	if err != nil {
		return 0, err
	}
	pricedByID := make(map[primitives.AssetID]primitives.AssetPriceMetadata, len(priced))
	for _, m := range priced {
		pricedByID[m.Asset.ID] = m
	}

	deviceIDs := collectDeviceIDs(due)
	deviceList, err := e.devices.GetDevicesByIDs(ctx, deviceIDs)
	if err != nil {
		return 0, err
	}
	devicesByID := make(map[string]primitives.Device, len(deviceList))
	for _, d := range deviceList {
		devicesByID[d.ID] = d
	}

	baseRate, err := e.fiat.GetFiatRate(ctx, primitives.DefaultFiatCurrency)
	if err != nil {
		return 0, err
	}

	rules := e.rules()
	rateCache := map[string]float64{primitives.DefaultFiatCurrency: baseRate}

	var triggeredIDs []string
	var notifications []primitives.GorushNotification
	for _, alert := range due {
		meta, ok := pricedByID[alert.AssetID]
		if !ok {
			continue
		}
		device, ok := devicesByID[alert.DeviceID]
		if !ok {
			continue
		}
		alertType, ok := classify(alert, meta.Price, rules)
		if !ok {
			continue
		}

		rate, ok := rateCache[device.Currency]
		if !ok {
			var err error
			rate, err = e.fiat.GetFiatRate(ctx, device.Currency)
			if err != nil {
				log.WithError(err).WithField("currency", device.Currency).Warn("pricealert: fiat rate lookup failed")
				continue
			}
			rateCache[device.Currency] = rate
		}

		price := primitives.NewPriceFromAssetPrice(meta.Price).ConvertedTo(decimal.NewFromFloat(baseRate), decimal.NewFromFloat(rate))
		triggeredIDs = append(triggeredIDs, alert.ID)

		n, sent, err := e.composer.Compose(Triggered{Device: device, Asset: meta.Asset, Price: price, AlertType: alertType, Alert: alert})
		if err != nil {
			log.WithError(err).Warn("pricealert: compose failed")
			continue
		}
		if sent {
			notifications = append(notifications, n)
		}
	}

	if len(triggeredIDs) == 0 {
		return 0, nil
	}

	// Mark notified before publishing: a crash after this point re-delivers
	// nothing, rather than double-notifying on the next evaluation pass.
	if err := e.alerts.MarkPriceAlertsNotified(ctx, triggeredIDs, now); err != nil {
		return 0, err
	}

	if len(notifications) > 0 {
		payload := primitives.NotificationsPayload{Notifications: notifications}
		if err := e.publisher.Publish(ctx, broker.QueueNotificationsPriceAlerts, payload); err != nil {
			return len(triggeredIDs), err
		}
	}
	return len(triggeredIDs), nil
}

func collectAssetIDs(alerts []primitives.PriceAlert) []primitives.AssetID {
	seen := make(map[primitives.AssetID]struct{})
	var out []primitives.AssetID
	for _, a := range alerts {
		if _, ok := seen[a.AssetID]; ok {
			continue
		}
		seen[a.AssetID] = struct{}{}
		out = append(out, a.AssetID)
	}
	return out
}

func collectDeviceIDs(alerts []primitives.PriceAlert) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, a := range alerts {
		if _, ok := seen[a.DeviceID]; ok {
			continue
		}
		seen[a.DeviceID] = struct{}{}
		out = append(out, a.DeviceID)
	}
	return out
}
