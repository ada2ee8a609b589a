package notification

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// BigNumberFormatter renders raw integer chain amounts as decimal display
// strings. Its one invariant, carried from the source it's ported from: a
// nonzero value is never rounded down to a displayed zero.
type BigNumberFormatter struct{}

// splitScaled splits the raw integer string value into (sign, intPart,
// fracPadded) such that the true value equals sign + intPart + "." +
// fracPadded, with fracPadded exactly decimals digits long (zero-padded on
// the left when value has fewer digits than decimals).
func splitScaled(value string, decimals int32) (sign, intPart, fracPadded string, err error) {
	n, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return "", "", "", fmt.Errorf("notification: invalid integer %q", value)
	}
	if decimals < 0 {
		return "", "", "", fmt.Errorf("notification: negative decimals %d", decimals)
	}
	sign = ""
	if n.Sign() < 0 {
		sign = "-"
		n.Neg(n)
	}
	digits := n.String()
	if int32(len(digits)) <= decimals {
		digits = strings.Repeat("0", int(decimals)-len(digits)+1) + digits
	}
	split := len(digits) - int(decimals)
	return sign, digits[:split], digits[split:], nil
}

func trimTrailingZeros(s string) string {
	return strings.TrimRight(s, "0")
}

// Value renders value/10^decimals as a plain decimal string, trailing
// fractional zeros trimmed.
func (BigNumberFormatter) Value(value string, decimals int32) (string, error) {
	sign, intPart, frac, err := splitScaled(value, decimals)
	if err != nil {
		return "", err
	}
	frac = trimTrailingZeros(frac)
	if frac == "" {
		return sign + intPart, nil
	}
	return sign + intPart + "." + frac, nil
}

// ValueFromAmount is Value's inverse: it scales a human decimal amount up to
// its raw integer representation.
func (BigNumberFormatter) ValueFromAmount(amount string, decimals int32) (string, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return "", fmt.Errorf("notification: invalid amount %q: %w", amount, err)
	}
	return d.Shift(decimals).String(), nil
}

// getFormattedScale computes the rounding scale for value that guarantees a
// nonzero value is never rounded down to a displayed zero: leading zeros in
// the trimmed fractional part extend targetScale by however many places are
// needed to reach the first significant digit.
func (f BigNumberFormatter) getFormattedScale(value string, decimals, targetScale int32) (int32, error) {
	_, _, frac, err := splitScaled(value, decimals)
	if err != nil {
		return 0, err
	}
	frac = trimTrailingZeros(frac)
	if frac == "" {
		return targetScale, nil
	}

	var leadingZeros int32
	for _, r := range frac {
		if r != '0' {
			break
		}
		leadingZeros++
	}

	scale := leadingZeros + targetScale
	if scale > int32(len(frac)) {
		return leadingZeros, nil
	}
	return scale, nil
}

// LocalizedValueWithScale renders value/10^decimals rounded up (ceiling) to
// the scale getFormattedScale computes, with thousands separators on the
// integer part.
func (f BigNumberFormatter) LocalizedValueWithScale(value string, decimals, targetScale int32) (string, error) {
	scale, err := f.getFormattedScale(value, decimals, targetScale)
	if err != nil {
		return "", err
	}
	sign, intPart, fracPadded, err := splitScaled(value, decimals)
	if err != nil {
		return "", err
	}
	exact, err := decimal.NewFromString(sign + intPart + "." + fracPadded)
	if err != nil {
		return "", err
	}
	rounded := exact.RoundCeil(scale)

	s := rounded.String()
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	parts := strings.SplitN(s, ".", 2)
	formattedInt := addThousandsSeparators(parts[0])
	result := formattedInt
	if len(parts) > 1 {
		result += "." + parts[1]
	}
	if neg {
		result = "-" + result
	}
	return result, nil
}

func addThousandsSeparators(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
		if n > lead {
			b.WriteByte(',')
		}
	}
	for i := lead; i < n; i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < n {
			b.WriteByte(',')
		}
	}
	return b.String()
}
