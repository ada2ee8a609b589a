package evm

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/synnergy-network/walletd/internal/chain/balancediff"
	"github.com/synnergy-network/walletd/internal/logging"
	"github.com/synnergy-network/walletd/internal/primitives"
)

const (
	erc20TransferSelector = "0xa9059cbb"
	tokenApprovalSelector = "0x095ea7b3"
	oneInchSwapSelector = "0x12aa3caf"

	// erc20TransferLogTopic0 is keccak256("Transfer(address,address,uint256)").
	erc20TransferLogTopic0 = "0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"
	// wethDepositLogTopic0 is keccak256("Deposit(address,uint256)"), emitted by
	// WETH9 when native ETH is wrapped as part of a router swap path.
	wethDepositLogTopic0 = "0xe1fffcc4923d04b559f4d29a8bfc6cda04eb5b0d3c460751c2402c5c5cc9109c"
)

// MapBlock decodes every transaction in block into zero or one Transaction
// each, trying router match, then token transfer, then native transfer,
// then balance-diff swap, then dropping the transaction. Malformed items
// are skipped, never surfaced as an error.
func MapBlock(c primitives.Chain, block RawBlock, blockNumber uint64, minTransferAmount uint64, routers []RouterConfig) []primitives.Transaction {
	native := primitives.NewNativeAssetID(c)
	out := make([]primitives.Transaction, 0, len(block.Transactions))

	for seq, tx := range block.Transactions {
		receipt, ok := block.Receipts[tx.Hash]
		if !ok {
			logging.WithChain(c.String()).WithField("hash", tx.Hash).Debug("evm: missing receipt, skipping")
			continue
		}

		state := primitives.TransactionStateFailed
		if receipt.Status == 1 {
			state = primitives.TransactionStateConfirmed
		}

		gasUsed := new(big.Int).SetUint64(receipt.GasUsed)
		gasPrice, ok := parseBigInt(receipt.EffectiveGasPrice)
		if !ok {
			gasPrice = new(big.Int)
		}
		fee := new(big.Int).Mul(gasUsed, gasPrice)

		txn, matched := mapOne(c, native, tx, receipt, state, fee, blockNumber, uint64(seq), routers)
		if !matched {
			continue
		}
		if txn.Type == primitives.TransactionTypeTransfer && txn.AssetID.IsNative() {
			value, ok := parseBigInt(txn.Value)
			if ok && value.Cmp(new(big.Int).SetUint64(minTransferAmount)) < 0 {
				continue // pre-publish dust filter
			}
		}
		out = append(out, txn)
	}
	return out
}

func mapOne(c primitives.Chain, native primitives.AssetID, tx Tx, receipt Receipt, state primitives.TransactionState, fee *big.Int, blockNumber, seq uint64, routers []RouterConfig) (primitives.Transaction, bool) {
	base := primitives.Transaction{
		ID: primitives.NewTransactionID(c, tx.Hash, -1),
		Hash: tx.Hash,
		Chain: c,
		From: checksum(tx.From),
		State: state,
		BlockNumber: blockNumber,
		Sequence: seq,
		Fee: fee.String(),
		FeeAssetID: native,
	}

	// (a) known router match.
	if tx.To != nil {
		toAddr := checksum(*tx.To)
		for _, r := range routers {
			if !strings.EqualFold(checksum(r.Address), toAddr) {
				continue
			}
			if !strings.HasPrefix(strings.ToLower(tx.Input), strings.ToLower(r.Selector)) {
				continue
			}
			if txn, ok := mapRouterSwap(base, tx, receipt, r.Name); ok {
				return txn, true
			}
		}
	}

	// (b) token (ERC-20) transfer.
	if strings.HasPrefix(strings.ToLower(tx.Input), strings.ToLower(tokenApprovalSelector)) {
		return primitives.Transaction{}, false // dropped, never produced
	}
	if strings.HasPrefix(strings.ToLower(tx.Input), strings.ToLower(erc20TransferSelector)) && len(tx.Input) >= 10+64+64 {
		if txn, ok := mapERC20Transfer(base, tx); ok {
			return txn, true
		}
	}

	// (c) native transfer.
	if tx.Input == "0x" || tx.Input == "" {
		base.To = checksum(derefOr(tx.To, ""))
		base.AssetID = native
		base.Type = primitives.TransactionTypeTransfer
		base.Value = normalizeDecimal(tx.Value)
		return base, true
	}

	// (d) balance-diff swap.
	if txn, ok := mapBalanceDiffSwap(base, native, tx, receipt, fee); ok {
		return txn, true
	}

	// (e) drop.
	return primitives.Transaction{}, false
}

func mapERC20Transfer(base primitives.Transaction, tx Tx) (primitives.Transaction, bool) {
	data := strings.TrimPrefix(tx.Input, "0x")
	if len(data) < 8+64+64 {
		return primitives.Transaction{}, false
	}
	argsHex := data[8:]
	recipientHex := argsHex[:64]
	amountHex := argsHex[64:128]

	recipient := "0x" + recipientHex[24:] // last 20 bytes
	amount, ok := new(big.Int).SetString(amountHex, 16)
	if !ok {
		return primitives.Transaction{}, false
	}

	if tx.To == nil {
		return primitives.Transaction{}, false
	}
	base.To = checksum(recipient)
	contract := checksum(*tx.To)
	base.Contract = &contract
	base.AssetID = primitives.NewTokenAssetID(base.Chain, contract)
	base.Type = primitives.TransactionTypeTransfer
	base.Value = amount.String()
	return base, true
}

func mapRouterSwap(base primitives.Transaction, tx Tx, receipt Receipt, providerName string) (primitives.Transaction, bool) {
	var transferLogs []Log
	for _, l := range receipt.Logs {
		if len(l.Topics) > 0 && strings.EqualFold(l.Topics[0], erc20TransferLogTopic0) {
			transferLogs = append(transferLogs, l)
		}
	}
	if len(transferLogs) == 0 {
		return primitives.Transaction{}, false
	}

	first, last := transferLogs[0], transferLogs[len(transferLogs)-1]

	fromValue := ""
	fromAsset := primitives.NewTokenAssetID(base.Chain, checksum(first.Address))
	if len(receipt.Logs) > 0 && strings.EqualFold(receipt.Logs[0].Topics[0], wethDepositLogTopic0) {
		fromValue = normalizeDecimal(tx.Value)
		fromAsset = primitives.NewNativeAssetID(base.Chain)
	} else if amt, ok := logAmount(first); ok {
		fromValue = amt.String()
	}

	toValue, ok := logAmount(last)
	if !ok {
		return primitives.Transaction{}, false
	}
	toAsset := primitives.NewTokenAssetID(base.Chain, checksum(last.Address))

	if fromAsset == toAsset {
		return primitives.Transaction{}, false
	}

	provider := providerName
	base.AssetID = fromAsset
	base.To = base.From
	base.Type = primitives.TransactionTypeSwap
	base.Value = fromValue
	base.Metadata = &primitives.Metadata{Swap: &primitives.SwapMetadata{
		FromAsset: fromAsset,
		FromValue: fromValue,
		ToAsset: toAsset,
		ToValue: toValue.String(),
		Provider: &provider,
	}}
	return base, true
}

func mapBalanceDiffSwap(base primitives.Transaction, native primitives.AssetID, tx Tx, receipt Receipt, fee *big.Int) (primitives.Transaction, bool) {
	deltas := map[primitives.AssetID]*big.Int{}
	addDelta := func(id primitives.AssetID, v *big.Int) {
		cur, ok := deltas[id]
		if !ok {
			cur = new(big.Int)
		}
		deltas[id] = new(big.Int).Add(cur, v)
	}

	from := strings.ToLower(tx.From)
	for _, l := range receipt.Logs {
		if len(l.Topics) != 3 || !strings.EqualFold(l.Topics[0], erc20TransferLogTopic0) {
			continue
		}
		logFrom := "0x" + l.Topics[1][len(l.Topics[1])-40:]
		logTo := "0x" + l.Topics[2][len(l.Topics[2])-40:]
		amount, ok := logAmount(l)
		if !ok {
			continue
		}
		asset := primitives.NewTokenAssetID(base.Chain, checksum(l.Address))
		if strings.ToLower(logFrom) == from {
			addDelta(asset, new(big.Int).Neg(amount))
		}
		if strings.ToLower(logTo) == from {
			addDelta(asset, amount)
		}
	}
	if value, ok := parseBigInt(tx.Value); ok && value.Sign() > 0 {
		addDelta(native, new(big.Int).Neg(value))
	}

	diffs := make([]balancediff.Diff, 0, len(deltas))
	for asset, d := range deltas {
		diffs = append(diffs, balancediff.Diff{AssetID: asset, Delta: d})
	}

	swap := balancediff.MapSwap(diffs, fee, native, nil)
	if swap == nil {
		return primitives.Transaction{}, false
	}

	base.AssetID = swap.FromAsset
	base.To = base.From
	base.Type = primitives.TransactionTypeSwap
	base.Value = swap.FromValue
	base.Metadata = &primitives.Metadata{Swap: swap}
	return base, true
}

func logAmount(l Log) (*big.Int, bool) {
	return parseBigInt(l.Data)
}

func parseBigInt(s string) (*big.Int, bool) {
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		return new(big.Int), true
	}
	if n, ok := new(big.Int).SetString(s, 16); ok {
		return n, true
	}
	return new(big.Int).SetString(s, 10)
}

func normalizeDecimal(hexOrDec string) string {
	n, ok := parseBigInt(hexOrDec)
	if !ok {
		return "0"
	}
	return n.String()
}

func checksum(addr string) string {
	if addr == "" {
		return ""
	}
	return common.HexToAddress(addr).Hex()
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
