package notification

import "fmt"

// Localizer looks up a message by key and formats it with args, the
// contract the composer consumes. The locale message catalogs themselves
// (the actual translated strings) are out of scope; LocalizerFactory below
// supplies a minimal English fallback sufficient to exercise the composer.
type Localizer interface {
	Localize(key string, args ...any) string
}

// LocalizerFactory resolves a Localizer for a device's locale, falling back
// to "en" when the requested locale has no catalog loaded.
type LocalizerFactory func(locale string) Localizer

// fallbackCatalog is the minimal English message set the composer's
// templates key into. It exists to make the composer exercisable without a
// real translation pipeline; production deployments supply their own
// LocalizerFactory.
var fallbackCatalog = map[string]string{
	"notification_transfer_sent_title":        "%s sent",
	"notification_transfer_received_title":    "%s received",
	"notification_transfer_sent_body":         "To %s",
	"notification_transfer_received_body":     "From %s",
	"notification_nft_sent_title":             "NFT sent",
	"notification_nft_received_title":         "NFT received",
	"notification_token_approval_title":       "%s approved for %s",
	"notification_stake_delegate_title":       "%s delegated to %s",
	"notification_stake_undelegate_title":     "%s undelegated from %s",
	"notification_stake_redelegate_title":     "%s redelegated to %s",
	"notification_stake_rewards_title":        "%s rewards claimed",
	"notification_stake_withdraw_title":       "%s withdrawn from %s",
	"notification_swap_title":                 "Swapped %s for %s",
	"notification_swap_body":                  "%s to %s",
	"notification_price_alert_up_title":       "%s is up",
	"notification_price_alert_up_body":        "%s (%s)",
	"notification_price_alert_down_title":     "%s is down",
	"notification_price_alert_down_body":      "%s (%s)",
	"notification_price_alert_all_time_high_title": "%s all-time high",
	"notification_price_alert_all_time_high_body":  "%s",
}

type englishLocalizer struct{}

func (englishLocalizer) Localize(key string, args ...any) string {
	tmpl, ok := fallbackCatalog[key]
	if !ok {
		return key
	}
	return fmt.Sprintf(tmpl, args...)
}

// DefaultLocalizerFactory is the built-in LocalizerFactory: every locale
// resolves to the English fallback catalog, matching spec.md's
// LocalizationMissing-never-fatal rule (§7) by construction.
func DefaultLocalizerFactory(locale string) Localizer {
	return englishLocalizer{}
}
