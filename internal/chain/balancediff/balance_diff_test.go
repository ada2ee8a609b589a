package balancediff

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synnergy-network/walletd/internal/primitives"
)

func nativeAsset() primitives.AssetID {
	return primitives.NewNativeAssetID(primitives.Chain{Type: primitives.ChainTypeEthereum})
}

func tokenAsset(id string) primitives.AssetID {
	return primitives.NewTokenAssetID(primitives.Chain{Type: primitives.ChainTypeEthereum}, id)
}

func strPtr(s string) *string { return &s }

func TestMapSwap_NativeToToken(t *testing.T) {
	native := nativeAsset()
	token := tokenAsset("0x123")
	fee := big.NewInt(1000)

	diffs := []Diff{
		{AssetID: native, Delta: big.NewInt(-5000)},
		{AssetID: token, Delta: big.NewInt(100)},
	}

	swap := MapSwap(diffs, fee, native, strPtr("Uniswap"))
	require.NotNil(t, swap)
	assert.Equal(t, native, swap.FromAsset)
	assert.Equal(t, "4000", swap.FromValue)
	assert.Equal(t, token, swap.ToAsset)
	assert.Equal(t, "100", swap.ToValue)
	assert.Equal(t, "Uniswap", *swap.Provider)
}

func TestMapSwap_TokenToToken(t *testing.T) {
	native := nativeAsset()
	tokenA := tokenAsset("0x123")
	tokenB := tokenAsset("0x456")
	fee := big.NewInt(1000)

	diffs := []Diff{
		{AssetID: tokenA, Delta: big.NewInt(-200)},
		{AssetID: tokenB, Delta: big.NewInt(150)},
	}

	swap := MapSwap(diffs, fee, native, strPtr("Uniswap"))
	require.NotNil(t, swap)
	assert.Equal(t, tokenA, swap.FromAsset)
	assert.Equal(t, "200", swap.FromValue)
	assert.Equal(t, tokenB, swap.ToAsset)
	assert.Equal(t, "150", swap.ToValue)
}

func TestMapSwap_SameDirectionIsNotASwap(t *testing.T) {
	native := nativeAsset()
	token := tokenAsset("0x123")
	fee := big.NewInt(1000)

	diffs := []Diff{
		{AssetID: native, Delta: big.NewInt(5000)},
		{AssetID: token, Delta: big.NewInt(100)},
	}

	assert.Nil(t, MapSwap(diffs, fee, native, strPtr("Uniswap")))
}

func TestMapSwap_WrongCount(t *testing.T) {
	native := nativeAsset()
	fee := big.NewInt(1000)

	diffs := []Diff{
		{AssetID: native, Delta: big.NewInt(-5000)},
	}

	assert.Nil(t, MapSwap(diffs, fee, native, strPtr("Uniswap")))
}

func TestMapSwap_IgnoresZeroDiffs(t *testing.T) {
	native := nativeAsset()
	token := tokenAsset("0x123")
	zeroAsset := tokenAsset("0x789")
	fee := big.NewInt(1000)

	diffs := []Diff{
		{AssetID: native, Delta: big.NewInt(-5000)},
		{AssetID: token, Delta: big.NewInt(100)},
		{AssetID: zeroAsset, Delta: big.NewInt(0)},
	}

	swap := MapSwap(diffs, fee, native, strPtr("Uniswap"))
	require.NotNil(t, swap)
	assert.Equal(t, native, swap.FromAsset)
	assert.Equal(t, token, swap.ToAsset)
}

func TestMapSwap_FeeEatsEntireNativeLegIsAMint(t *testing.T) {
	native := nativeAsset()
	token := tokenAsset("0x123")
	fee := big.NewInt(5000)

	diffs := []Diff{
		{AssetID: native, Delta: big.NewInt(-5000)},
		{AssetID: token, Delta: big.NewInt(100)},
	}

	assert.Nil(t, MapSwap(diffs, fee, native, nil))
}
