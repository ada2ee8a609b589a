package cosmos

import (
	"strings"

	"github.com/synnergy-network/walletd/internal/primitives"
)

const (
	msgSendTypeURL = "/cosmos.bank.v1beta1.MsgSend"
	msgThorchainSendTypeURL = "/types.MsgSend"
	msgWithdrawRewardTypeURL = "/cosmos.distribution.v1beta1.MsgWithdrawDelegatorReward"
	withdrawRewardsEventType = "withdraw_rewards"
	withdrawRewardsAmountAttr = "amount"
)

// MapBlock decodes every transaction in block into zero or one Transaction
// each: recognized bank-send messages map to Transfer, withdraw-delegator-
// reward messages map to StakeRewards, anything else is dropped. nativeDenom
// identifies the chain's native asset denom, supplied by configuration
// rather than hardcoded per network.
func MapBlock(c primitives.Chain, block RawBlock, blockNumber uint64, nativeDenom string) []primitives.Transaction {
	out := make([]primitives.Transaction, 0, len(block.Transactions))

	for seq, tx := range block.Transactions {
		hash := primitives.Sha256Hex(tx.RawBytes)
		state := primitives.TransactionStateReverted
		if tx.Receipt.Code == 0 {
			state = primitives.TransactionStateConfirmed
		}

		for msgIdx, msg := range tx.Messages {
			txn, ok := mapMsg(c, msg, tx.Receipt, nativeDenom)
			if !ok {
				continue
			}
			txn.ID = primitives.NewTransactionID(c, hash, msgIdx)
			txn.Hash = hash
			txn.Chain = c
			txn.State = state
			txn.BlockNumber = blockNumber
			txn.Sequence = uint64(seq)
			out = append(out, txn)
		}
	}
	return out
}

func mapMsg(c primitives.Chain, msg Msg, receipt Receipt, nativeDenom string) (primitives.Transaction, bool) {
	switch msg.TypeURL {
	case msgSendTypeURL, msgThorchainSendTypeURL:
		return mapMsgSend(c, msg, nativeDenom)
	case msgWithdrawRewardTypeURL:
		return mapMsgWithdrawReward(c, msg, receipt, nativeDenom)
	default:
		return primitives.Transaction{}, false
	}
}

func mapMsgSend(c primitives.Chain, msg Msg, nativeDenom string) (primitives.Transaction, bool) {
	coin, ok := pickDenom(msg.Amount, nativeDenom)
	if !ok {
		return primitives.Transaction{}, false
	}
	return primitives.Transaction{
		From: msg.FromAddress,
		To: msg.ToAddress,
		AssetID: assetForDenom(c, coin.Denom, nativeDenom),
		Type: primitives.TransactionTypeTransfer,
		Value: coin.Amount,
	}, true
}

func mapMsgWithdrawReward(c primitives.Chain, msg Msg, receipt Receipt, nativeDenom string) (primitives.Transaction, bool) {
	total := sumWithdrawRewardEvents(receipt, nativeDenom)
	if total == "" {
		return primitives.Transaction{}, false
	}
	return primitives.Transaction{
		From: msg.DelegatorAddress,
		To: msg.ValidatorAddress,
		AssetID: primitives.NewNativeAssetID(c),
		Type: primitives.TransactionTypeStakeRewards,
		Value: total,
	}, true
}

// sumWithdrawRewardEvents sums the native-denom amount attribute across all
// withdraw_rewards events in the receipt, since a single
// MsgWithdrawDelegatorReward can emit more than one reward event.
func sumWithdrawRewardEvents(receipt Receipt, nativeDenom string) string {
	total := int64(0)
	found := false
	for _, ev := range receipt.Events {
		if ev.Type != withdrawRewardsEventType {
			continue
		}
		raw, ok := ev.Attributes[withdrawRewardsAmountAttr]
		if !ok {
			continue
		}
		amount, denom := splitAmountDenom(raw)
		if denom != nativeDenom || amount == 0 {
			continue
		}
		total += amount
		found = true
	}
	if !found {
		return ""
	}
	return itoa(total)
}

// splitAmountDenom parses a Cosmos coin string like "1000uatom" into its
// numeric amount and denom suffix.
func splitAmountDenom(s string) (int64, string) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, ""
	}
	amount := int64(0)
	for _, r := range s[:i] {
		amount = amount*10 + int64(r-'0')
	}
	return amount, s[i:]
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

func pickDenom(coins []Coin, nativeDenom string) (Coin, bool) {
	for _, coin := range coins {
		if strings.EqualFold(coin.Denom, nativeDenom) {
			return coin, true
		}
	}
	if len(coins) > 0 {
		return coins[0], true
	}
	return Coin{}, false
}

func assetForDenom(c primitives.Chain, denom, nativeDenom string) primitives.AssetID {
	if strings.EqualFold(denom, nativeDenom) {
		return primitives.NewNativeAssetID(c)
	}
	return primitives.NewTokenAssetID(c, denom)
}
