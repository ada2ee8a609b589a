package solana

import (
	"math/big"
	"strconv"

	"github.com/synnergy-network/walletd/internal/primitives"
)

// MapBlock decodes every transaction in block into zero or one Transaction
// each. Known RPC errors (cleaned-up/missing/not available slot) yield an
// empty block rather than a failure.
func MapBlock(c primitives.Chain, block RawBlock, blockNumber uint64) []primitives.Transaction {
	if block.Error != nil {
		return nil
	}

	native := primitives.NewNativeAssetID(c)
	out := make([]primitives.Transaction, 0, len(block.Transactions))

	for seq, tx := range block.Transactions {
		txn, ok := mapOne(c, native, tx)
		if !ok {
			continue
		}
		txn.ID = primitives.NewTransactionID(c, tx.Signature, -1)
		txn.Hash = tx.Signature
		txn.Chain = c
		txn.BlockNumber = blockNumber
		txn.Sequence = uint64(seq)
		out = append(out, txn)
	}
	return out
}

func mapOne(c primitives.Chain, native primitives.AssetID, tx Tx) (primitives.Transaction, bool) {
	state := primitives.TransactionStateConfirmed
	if tx.Meta.Err != nil {
		state = primitives.TransactionStateFailed
	}
	fee := strconv.FormatUint(tx.Meta.Fee, 10)

	base := primitives.Transaction{
		Chain: c,
		State: state,
		Fee: fee,
		FeeAssetID: native,
	}

	// (a) Jupiter swap: program present in account keys, inner
	// transferChecked instructions decoded.
	if hasKey(tx.AccountKeys, jupiterProgramID) {
		if txn, ok := mapJupiterSwap(base, native, tx); ok {
			return txn, true
		}
	}

	// (b) SPL token transfer.
	if hasKey(tx.AccountKeys, tokenProgramID) && len(tx.AccountKeys) <= 7 {
		if txn, ok := mapSPLTransfer(c, base, tx); ok {
			return txn, true
		}
	}

	// (c) native transfer.
	if (len(tx.AccountKeys) == 2 || len(tx.AccountKeys) == 3) && hasKey(tx.AccountKeys, systemProgramID) && tx.NumSignatures == 1 {
		if txn, ok := mapNativeTransfer(base, native, tx); ok {
			return txn, true
		}
	}

	// (d)/(e): no generic balance-diff swap heuristic defined for Solana;
	// unmatched transactions are dropped.
	return primitives.Transaction{}, false
}

func mapNativeTransfer(base primitives.Transaction, native primitives.AssetID, tx Tx) (primitives.Transaction, bool) {
	if len(tx.Meta.PreBalances) < 1 || len(tx.Meta.PostBalances) < 1 || len(tx.AccountKeys) < 2 {
		return primitives.Transaction{}, false
	}
	value := new(big.Int).SetUint64(tx.Meta.PreBalances[0])
	value.Sub(value, new(big.Int).SetUint64(tx.Meta.PostBalances[0]))
	value.Sub(value, new(big.Int).SetUint64(tx.Meta.Fee))
	if value.Sign() <= 0 {
		return primitives.Transaction{}, false
	}

	base.From = tx.AccountKeys[0]
	base.To = tx.AccountKeys[len(tx.AccountKeys)-2]
	base.AssetID = native
	base.Type = primitives.TransactionTypeTransfer
	base.Value = value.String()
	return base, true
}

func mapSPLTransfer(c primitives.Chain, base primitives.Transaction, tx Tx) (primitives.Transaction, bool) {
	pre := tx.Meta.PreTokenBalances
	post := tx.Meta.PostTokenBalances
	if len(pre) != 1 && len(pre) != 2 {
		return primitives.Transaction{}, false
	}
	if len(post) != 2 {
		return primitives.Transaction{}, false
	}

	postByAccount := make(map[int]TokenBalance, len(post))
	for _, b := range post {
		postByAccount[b.AccountIndex] = b
	}

	var senderPre TokenBalance
	if len(pre) == 1 {
		senderPre = pre[0]
	} else {
		a, b := pre[0], pre[1]
		if a.Amount >= b.Amount {
			senderPre = a
		} else {
			senderPre = b
		}
	}

	senderPost, ok := postByAccount[senderPre.AccountIndex]
	if !ok || senderPost.Amount > senderPre.Amount {
		return primitives.Transaction{}, false // reject: post > pre for sender
	}

	var recipientPost TokenBalance
	found := false
	for _, b := range post {
		if b.AccountIndex != senderPre.AccountIndex {
			recipientPost = b
			found = true
			break
		}
	}
	if !found {
		return primitives.Transaction{}, false
	}

	value := senderPre.Amount - senderPost.Amount
	if value == 0 {
		return primitives.Transaction{}, false
	}

	base.From = senderPre.Owner
	base.To = recipientPost.Owner
	mint := senderPre.Mint
	base.Contract = &mint
	base.AssetID = primitives.NewTokenAssetID(c, mint)
	base.Type = primitives.TransactionTypeTransfer
	base.Value = strconv.FormatUint(value, 10)
	return base, true
}

// mapJupiterSwap takes the first and last decoded transferChecked
// instructions as (input, output). The 3-instruction case is the common
// direct-route swap; generalizing to any run of 2+ distinct-mint legs means
// a router path with extra intermediate hops still resolves correctly.
func mapJupiterSwap(base primitives.Transaction, native primitives.AssetID, tx Tx) (primitives.Transaction, bool) {
	instrs := tx.Meta.InnerTransferChecked
	if len(instrs) < 2 {
		return primitives.Transaction{}, false
	}
	first, last := instrs[0], instrs[len(instrs)-1]
	if first.Mint == last.Mint {
		return primitives.Transaction{}, false
	}

	base.From = first.Authority
	base.To = first.Authority
	base.AssetID = primitives.NewTokenAssetID(base.Chain, first.Mint)
	base.Type = primitives.TransactionTypeSwap
	base.Value = strconv.FormatUint(first.Amount, 10)
	base.Metadata = &primitives.Metadata{Swap: &primitives.SwapMetadata{
		FromAsset: primitives.NewTokenAssetID(base.Chain, first.Mint),
		FromValue: strconv.FormatUint(first.Amount, 10),
		ToAsset: primitives.NewTokenAssetID(base.Chain, last.Mint),
		ToValue: strconv.FormatUint(last.Amount, 10),
		Provider: strPtr("jupiter"),
	}}
	return base, true
}

func strPtr(s string) *string { return &s }

func hasKey(keys []string, target string) bool {
	for _, k := range keys {
		if k == target {
			return true
		}
	}
	return false
}
