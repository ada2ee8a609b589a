package pricealert

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// currencySymbols covers the handful of fiat currencies a Device.Currency
// is expected to carry; an unmapped currency falls back to its ISO code as
// a prefix rather than failing the notification.
var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

// formatCurrency renders value to 2 decimal places with thousands
// separators and the currency's symbol (or ISO code) prefixed.
func formatCurrency(value decimal.Decimal, currency string) string {
	rounded := value.Round(2)
	sign := ""
	if rounded.Sign() < 0 {
		sign = "-"
		rounded = rounded.Neg()
	}
	whole := rounded.Truncate(0)
	frac := rounded.Sub(whole)
	fracStr := frac.StringFixed(2)[2:] // "0.45" -> "45"

	symbol, ok := currencySymbols[currency]
	if !ok {
		symbol = currency + " "
	}
	return fmt.Sprintf("%s%s%s.%s", sign, symbol, addThousandsSeparators(whole.String()), fracStr)
}

// formatPercent renders a signed percentage to 2 decimal places, e.g.
// "+3.45%" or "-1.20%".
func formatPercent(value decimal.Decimal) string {
	rounded := value.Round(2)
	sign := "+"
	if rounded.Sign() < 0 {
		sign = "-"
		rounded = rounded.Neg()
	}
	return fmt.Sprintf("%s%s%%", sign, rounded.StringFixed(2))
}

// addThousandsSeparators groups an unsigned decimal integer string by
// thousands, e.g. "1234567" -> "1,234,567".
func addThousandsSeparators(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var out []byte
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	out = append(out, digits[:lead]...)
	for i := lead; i < len(digits); i += 3 {
		out = append(out, ',')
		out = append(out, digits[i:i+3]...)
	}
	return string(out)
}
