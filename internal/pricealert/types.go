// Package pricealert implements the price alert evaluation engine: it scans
// due PriceAlert rows, classifies each against the live Price, and composes
// a localized push notification for whichever alerts actually trigger.
package pricealert

// AlertType distinguishes the rule that triggered a notification, so the
// composer can pick between the "up" and "down" message templates.
type AlertType string

const (
	AlertTypePriceUp               AlertType = "price_up"
	AlertTypePriceDown             AlertType = "price_down"
	AlertTypePricePercentChangeUp  AlertType = "price_percent_change_up"
	AlertTypePricePercentChangeDown AlertType = "price_percent_change_down"
	AlertTypePriceChangesUp        AlertType = "price_changes_up"
	AlertTypePriceChangesDown      AlertType = "price_changes_down"
	// AlertTypeAllTimeHigh has a message template but no classifier path
	// produces it: no stored all-time-high reference is tracked by this
	// core, matching the upstream engine this was ported from.
	AlertTypeAllTimeHigh AlertType = "all_time_high"
)

// Rules mirrors config.Config's global price-change thresholds, decoupled
// from that package the same way internal/parser decouples its own Limits.
type Rules struct {
	IncreasePct float64
	DecreasePct float64
}
