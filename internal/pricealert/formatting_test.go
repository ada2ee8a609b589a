package pricealert

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$1,234.50", formatCurrency(decimal.NewFromFloat(1234.5), "USD"))
	assert.Equal(t, "€0.05", formatCurrency(decimal.NewFromFloat(0.05), "EUR"))
	assert.Equal(t, "XAU 1.00", formatCurrency(decimal.NewFromFloat(1), "XAU"))
	assert.Equal(t, "-$10.00", formatCurrency(decimal.NewFromFloat(-10), "USD"))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "+3.45%", formatPercent(decimal.NewFromFloat(3.45)))
	assert.Equal(t, "-1.20%", formatPercent(decimal.NewFromFloat(-1.2)))
	assert.Equal(t, "+0.00%", formatPercent(decimal.NewFromFloat(0)))
}
