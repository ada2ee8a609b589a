package evm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synnergy-network/walletd/internal/primitives"
)

func ethChain() primitives.Chain { return primitives.Chain{Type: primitives.ChainTypeEthereum, NetworkID: "1"} }

func strp(s string) *string { return &s }

// S1: EVM native transfer below dust threshold is filtered out entirely.
func TestMapBlock_DustNativeTransferDropped(t *testing.T) {
	block := RawBlock{
		Transactions: []Tx{
			{Hash: "0xabc", From: "0x1111111111111111111111111111111111111111", To: strp("0x2222222222222222222222222222222222222222"), Input: "0x", Value: "100"},
		},
		Receipts: map[string]Receipt{
			"0xabc": {Status: 1, GasUsed: 21000, EffectiveGasPrice: "1000000000"},
		},
	}

	txs := MapBlock(ethChain(), block, 100, 1000, nil)
	assert.Empty(t, txs)
}

// S2: ERC-20 transfer decodes correctly; the consumer (not the mapper) is
// responsible for the min-amount-usd notification suppression.
func TestMapBlock_ERC20Transfer(t *testing.T) {
	recipient := "1111111111111111111111111111111111111111"
	amount := "0000000000000000000000000000000000000000000000000000000000000064" // 100
	input := "0xa9059cbb" + "000000000000000000000000" + recipient + amount

	block := RawBlock{
		Transactions: []Tx{
			{Hash: "0xdef", From: "0x2222222222222222222222222222222222222222", To: strp("0x3333333333333333333333333333333333333333"), Input: input, Value: "0"},
		},
		Receipts: map[string]Receipt{
			"0xdef": {Status: 1, GasUsed: 50000, EffectiveGasPrice: "1000000000"},
		},
	}

	txs := MapBlock(ethChain(), block, 200, 0, nil)
	require.Len(t, txs, 1)
	tx := txs[0]
	assert.Equal(t, primitives.TransactionTypeTransfer, tx.Type)
	assert.Equal(t, "100", tx.Value)
	assert.Equal(t, primitives.TransactionStateConfirmed, tx.State)
	assert.False(t, tx.AssetID.IsNative())
}

func TestMapBlock_TokenApprovalIsDropped(t *testing.T) {
	input := "0x095ea7b3" + "000000000000000000000000" + "1111111111111111111111111111111111111111" + "00000000000000000000000000000000000000000000000000000000000064"

	block := RawBlock{
		Transactions: []Tx{
			{Hash: "0x01", From: "0x2222222222222222222222222222222222222222", To: strp("0x3333333333333333333333333333333333333333"), Input: input, Value: "0"},
		},
		Receipts: map[string]Receipt{
			"0x01": {Status: 1, GasUsed: 50000, EffectiveGasPrice: "1000000000"},
		},
	}

	txs := MapBlock(ethChain(), block, 200, 0, nil)
	assert.Empty(t, txs)
}

func TestMapBlock_FailedReceiptMarksFailedState(t *testing.T) {
	block := RawBlock{
		Transactions: []Tx{
			{Hash: "0x02", From: "0x2222222222222222222222222222222222222222", To: strp("0x3333333333333333333333333333333333333333"), Input: "0x", Value: "5000"},
		},
		Receipts: map[string]Receipt{
			"0x02": {Status: 0, GasUsed: 21000, EffectiveGasPrice: "1000000000"},
		},
	}

	txs := MapBlock(ethChain(), block, 200, 0, nil)
	require.Len(t, txs, 1)
	assert.Equal(t, primitives.TransactionStateFailed, txs[0].State)
}

func TestMapBlock_MissingReceiptSkipsTransaction(t *testing.T) {
	block := RawBlock{
		Transactions: []Tx{
			{Hash: "0x03", From: "0x2222222222222222222222222222222222222222", To: strp("0x3333333333333333333333333333333333333333"), Input: "0x", Value: "5000"},
		},
		Receipts: map[string]Receipt{},
	}

	txs := MapBlock(ethChain(), block, 200, 0, nil)
	assert.Empty(t, txs)
}
