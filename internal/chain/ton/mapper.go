package ton

import (
	"math/big"

	"github.com/synnergy-network/walletd/internal/primitives"
)

// MapBlock decodes every transaction in block into zero or one Transaction
// each. Only transaction_type == "TransOrd" is considered; everything else
// is dropped.
func MapBlock(c primitives.Chain, block RawBlock, blockNumber uint64) []primitives.Transaction {
	native := primitives.NewNativeAssetID(c)
	out := make([]primitives.Transaction, 0, len(block.Transactions))

	for seq, tx := range block.Transactions {
		if tx.TransactionType != transOrdType {
			continue
		}

		base := primitives.Transaction{
			ID: primitives.NewTransactionID(c, tx.Hash, -1),
			Hash: tx.Hash,
			Chain: c,
			State: primitives.TransactionStateConfirmed,
			BlockNumber: blockNumber,
			Sequence: uint64(seq),
			Fee: normalizeAmount(tx.Fee),
			FeeAssetID: native,
			AssetID: native,
			Type: primitives.TransactionTypeTransfer,
		}

		if txn, ok := mapOutgoing(base, tx); ok {
			out = append(out, txn)
			continue
		}
		if txn, ok := mapIncoming(base, tx); ok {
			out = append(out, txn)
			continue
		}
	}
	return out
}

func mapOutgoing(base primitives.Transaction, tx Tx) (primitives.Transaction, bool) {
	if len(tx.OutMessages) != 1 {
		return primitives.Transaction{}, false
	}
	out := tx.OutMessages[0]
	if out.OpCode != "" && out.OpCode != "0x00000000" {
		return primitives.Transaction{}, false
	}

	base.From = rebaseAddress(out.Source)
	base.To = rebaseAddress(out.Destination)
	base.Value = normalizeAmount(out.Value)
	if memo := pickMemo(out); memo != "" {
		base.Memo = &memo
	}
	return base, true
}

func mapIncoming(base primitives.Transaction, tx Tx) (primitives.Transaction, bool) {
	if len(tx.OutMessages) != 0 || tx.InMessage == nil {
		return primitives.Transaction{}, false
	}
	in := tx.InMessage
	if in.Type != "int_msg" {
		return primitives.Transaction{}, false
	}
	value, ok := new(big.Int).SetString(in.Value, 10)
	if !ok || value.Sign() <= 0 {
		return primitives.Transaction{}, false
	}

	base.From = rebaseAddress(in.Source)
	base.To = rebaseAddress(in.Destination)
	base.Value = value.String()
	if memo := pickMemo(*in); memo != "" {
		base.Memo = &memo
	}
	return base, true
}

func pickMemo(m Message) string {
	if m.Comment != "" {
		return m.Comment
	}
	return m.DecodedText
}

func normalizeAmount(s string) string {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return "0"
	}
	return n.String()
}

// rebaseAddress re-encodes a raw "workchain:hash" Ton address into its
// base64-url user-friendly form.
func rebaseAddress(raw string) string {
	if raw == "" {
		return ""
	}
	return encodeBase64URLAddress(raw)
}
