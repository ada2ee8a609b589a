package sui

import (
	"math/big"

	"github.com/synnergy-network/walletd/internal/primitives"
)

// MapBlock decodes every transaction in block into zero or one Transaction
// each: a 2-entry SUI balance change split maps to Transfer, staking/
// unstaking events map to StakeDelegate/StakeUndelegate.
func MapBlock(c primitives.Chain, block RawBlock, blockNumber uint64) []primitives.Transaction {
	native := primitives.NewNativeAssetID(c)
	out := make([]primitives.Transaction, 0, len(block.Transactions))

	for seq, tx := range block.Transactions {
		state := primitives.TransactionStateConfirmed
		if tx.Effects.Status != "success" {
			state = primitives.TransactionStateFailed
		}
		fee := computeFee(tx.GasSummary)

		base := primitives.Transaction{
			ID: primitives.NewTransactionID(c, tx.Digest, -1),
			Hash: tx.Digest,
			Chain: c,
			State: state,
			BlockNumber: blockNumber,
			Sequence: uint64(seq),
			Fee: fee.String(),
			FeeAssetID: native,
		}

		if txn, ok := mapStakeEvent(base, tx); ok {
			out = append(out, txn)
			continue
		}
		if txn, ok := mapNativeTransfer(base, native, tx); ok {
			out = append(out, txn)
			continue
		}
	}
	return out
}

func mapStakeEvent(base primitives.Transaction, tx Tx) (primitives.Transaction, bool) {
	for _, ev := range tx.Events {
		switch ev.Type {
		case stakingRequestEventType:
			base.From = ev.Fields["staker_address"]
			base.To = ev.Fields["validator_address"]
			base.Type = primitives.TransactionTypeStakeDelegate
			base.Value = ev.Fields["amount"]
			base.AssetID = primitives.NewNativeAssetID(base.Chain)
			return base, true
		case unstakingRequestEventType:
			base.From = ev.Fields["staker_address"]
			base.To = ev.Fields["validator_address"]
			base.Type = primitives.TransactionTypeStakeUndelegate
			base.Value = ev.Fields["amount"]
			base.AssetID = primitives.NewNativeAssetID(base.Chain)
			return base, true
		}
	}
	return primitives.Transaction{}, false
}

func mapNativeTransfer(base primitives.Transaction, native primitives.AssetID, tx Tx) (primitives.Transaction, bool) {
	var suiChanges []BalanceChange
	for _, bc := range tx.BalanceChanges {
		if bc.Denom == suiDenom {
			suiChanges = append(suiChanges, bc)
		}
	}
	if len(suiChanges) != 2 {
		return primitives.Transaction{}, false
	}

	a, okA := parseSignedBigInt(suiChanges[0].Amount)
	b, okB := parseSignedBigInt(suiChanges[1].Amount)
	if !okA || !okB {
		return primitives.Transaction{}, false
	}
	if a.Sign() == 0 || b.Sign() == 0 || a.Sign() == b.Sign() {
		return primitives.Transaction{}, false
	}

	var from, to BalanceChange
	var value *big.Int
	if a.Sign() < 0 {
		from, to = suiChanges[0], suiChanges[1]
		value = new(big.Int).Neg(a)
	} else {
		from, to = suiChanges[1], suiChanges[0]
		value = new(big.Int).Neg(b)
	}

	base.From = from.Owner
	base.To = to.Owner
	base.AssetID = native
	base.Type = primitives.TransactionTypeTransfer
	base.Value = value.String()
	return base, true
}

// computeFee sums computation and storage cost, net of the storage rebate,
// clamped at zero.
func computeFee(g GasSummary) *big.Int {
	comp, _ := new(big.Int).SetString(g.ComputationCost, 10)
	if comp == nil {
		comp = new(big.Int)
	}
	storage, _ := new(big.Int).SetString(g.StorageCost, 10)
	if storage == nil {
		storage = new(big.Int)
	}
	rebate, _ := new(big.Int).SetString(g.StorageRebate, 10)
	if rebate == nil {
		rebate = new(big.Int)
	}

	fee := new(big.Int).Add(comp, storage)
	fee.Sub(fee, rebate)
	if fee.Sign() < 0 {
		return new(big.Int)
	}
	return fee
}

func parseSignedBigInt(s string) (*big.Int, bool) {
	return new(big.Int).SetString(s, 10)
}
