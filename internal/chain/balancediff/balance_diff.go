// Package balancediff implements the balance-diff swap mapper shared across
// chain families: given a transaction's per-address, per-asset balance
// deltas, infer swap metadata when exactly two non-zero deltas of opposite
// sign are present.
package balancediff

import (
	"math/big"

	"github.com/synnergy-network/walletd/internal/primitives"
)

// Diff is one address's net change of one asset within a transaction.
type Diff struct {
	AssetID primitives.AssetID
	Delta *big.Int // signed: negative = sent, positive = received
}

// MapSwap inspects diffs and returns swap metadata when they represent a
// balance-diff swap, or nil when they don't.
//
// For the native asset, fee is subtracted from the magnitude of the sent side
// before recording FromValue, since the balance change includes both the
// swap amount and the fee payment. If the sent side's magnitude is reduced to
// zero after the fee adjustment, the apparent swap is actually a mint and is
// rejected (returns nil).
func MapSwap(diffs []Diff, fee *big.Int, nativeAssetID primitives.AssetID, provider *string) *primitives.SwapMetadata {
	nonZero := make([]Diff, 0, len(diffs))
	for _, d := range diffs {
		if d.Delta.Sign() != 0 {
			nonZero = append(nonZero, d)
		}
	}
	if len(nonZero) != 2 {
		return nil
	}

	first, second := nonZero[0], nonZero[1]
	if (first.Delta.Sign() > 0) == (second.Delta.Sign() > 0) {
		// Both same sign: not a swap.
		return nil
	}

	var sent, received Diff
	if first.Delta.Sign() < 0 {
		sent, received = first, second
	} else {
		sent, received = second, first
	}

	fromValue := actualValue(sent.Delta, sent.AssetID, fee, nativeAssetID)
	toValue := actualValue(received.Delta, received.AssetID, fee, nativeAssetID)

	if fromValue.Sign() == 0 {
		// Negative side evaporates entirely to fee: this is a mint, reject.
		return nil
	}

	return &primitives.SwapMetadata{
		FromAsset: sent.AssetID,
		FromValue: fromValue.String(),
		ToAsset: received.AssetID,
		ToValue: toValue.String(),
		Provider: provider,
	}
}

// actualValue returns the magnitude of amount, minus fee when asset is the
// chain's native asset and the magnitude is large enough to absorb it.
func actualValue(amount *big.Int, assetID primitives.AssetID, fee *big.Int, nativeAssetID primitives.AssetID) *big.Int {
	magnitude := new(big.Int).Abs(amount)
	if assetID == nativeAssetID && magnitude.Cmp(fee) >= 0 {
		return new(big.Int).Sub(magnitude, fee)
	}
	return magnitude
}
