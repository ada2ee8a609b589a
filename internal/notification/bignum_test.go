package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBigNumberFormatter_Value(t *testing.T) {
	f := BigNumberFormatter{}

	v, err := f.Value("123456", 3)
	require.NoError(t, err)
	assert.Equal(t, "123.456", v)

	v, err = f.Value("789123456", 4)
	require.NoError(t, err)
	assert.Equal(t, "78912.3456", v)

	v, err = f.Value("4567", 4)
	require.NoError(t, err)
	assert.Equal(t, "0.4567", v)

	v, err = f.Value("115792089237316195423570985008687907853269984665640564039457000000000000000000", 18)
	require.NoError(t, err)
	assert.Equal(t, "115792089237316195423570985008687907853269984665640564039457", v)

	_, err = f.Value("abc", 2)
	assert.Error(t, err)

	v, err = f.Value("1640000000000000", 18)
	require.NoError(t, err)
	assert.Equal(t, "0.00164", v)
}

func TestBigNumberFormatter_ValueFromAmount(t *testing.T) {
	f := BigNumberFormatter{}

	v, err := f.ValueFromAmount("1.123", 3)
	require.NoError(t, err)
	assert.Equal(t, "1123", v)

	v, err = f.ValueFromAmount("332131212.2321312", 8)
	require.NoError(t, err)
	assert.Equal(t, "33213121223213120", v)

	v, err = f.ValueFromAmount("0", 0)
	require.NoError(t, err)
	assert.Equal(t, "0", v)
}

func TestBigNumberFormatter_GetFormattedScale(t *testing.T) {
	f := BigNumberFormatter{}

	scale, err := f.getFormattedScale("123450000", 6, 2)
	require.NoError(t, err)
	assert.Equal(t, int32(2), scale)

	scale, err = f.getFormattedScale("123456666", 6, 2)
	require.NoError(t, err)
	assert.Equal(t, int32(2), scale)

	scale, err = f.getFormattedScale("12000", 8, 2)
	require.NoError(t, err)
	assert.Equal(t, int32(5), scale)

	scale, err = f.getFormattedScale("129999", 8, 2)
	require.NoError(t, err)
	assert.Equal(t, int32(4), scale)
}

func TestBigNumberFormatter_LocalizedValueWithScale(t *testing.T) {
	f := BigNumberFormatter{}

	v, err := f.LocalizedValueWithScale("1123450000", 6, 2)
	require.NoError(t, err)
	assert.Equal(t, "1,123.45", v)

	v, err = f.LocalizedValueWithScale("1123456666", 6, 2)
	require.NoError(t, err)
	assert.Equal(t, "1,123.46", v)

	v, err = f.LocalizedValueWithScale("12000", 8, 2)
	require.NoError(t, err)
	assert.Equal(t, "0.00012", v)

	v, err = f.LocalizedValueWithScale("129999", 8, 2)
	require.NoError(t, err)
	assert.Equal(t, "0.0013", v)
}
