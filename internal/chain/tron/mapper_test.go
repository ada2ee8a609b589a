package tron

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synnergy-network/walletd/internal/primitives"
)

func trxChain() primitives.Chain { return primitives.Chain{Type: primitives.ChainTypeTron, NetworkID: "mainnet"} }

func TestMapBlock_NativeTransfer(t *testing.T) {
	block := RawBlock{
		Transactions: []Tx{
			{
				TxID: "tx1",
				Contracts: []Contract{
					{Type: transferContractType, OwnerAddress: "TOwner", ToAddress: "TTo", Amount: 1000000},
				},
				Ret: []Ret{{ContractRet: contractRetSuccess}},
			},
		},
		TransactionInfos: map[string]TransactionInfo{"tx1": {Fee: 1000}},
	}

	txs := MapBlock(trxChain(), block, 1)
	require.Len(t, txs, 1)
	tx := txs[0]
	assert.Equal(t, primitives.TransactionTypeTransfer, tx.Type)
	assert.Equal(t, "1000000", tx.Value)
	assert.Equal(t, "1000", tx.Fee)
	assert.True(t, tx.AssetID.IsNative())
	assert.Equal(t, primitives.TransactionStateConfirmed, tx.State)
}

func TestMapBlock_TRC20Transfer(t *testing.T) {
	input := "0xa9059cbb" + "000000000000000000000000" + "1111111111111111111111111111111111111111" + "0000000000000000000000000000000000000000000000000000000000000064"

	block := RawBlock{
		Transactions: []Tx{
			{
				TxID: "tx2",
				Contracts: []Contract{
					{Type: triggerSmartContractType, OwnerAddress: "TOwner", ContractAddress: "TContract", Data: input},
				},
				Ret: []Ret{{ContractRet: contractRetSuccess}},
			},
		},
	}

	txs := MapBlock(trxChain(), block, 1)
	require.Len(t, txs, 1)
	tx := txs[0]
	assert.Equal(t, primitives.TransactionTypeTransfer, tx.Type)
	assert.Equal(t, "100", tx.Value)
	assert.False(t, tx.AssetID.IsNative())
}

func TestMapBlock_FailedContractRetMarksFailed(t *testing.T) {
	block := RawBlock{
		Transactions: []Tx{
			{
				TxID: "tx3",
				Contracts: []Contract{{Type: transferContractType, OwnerAddress: "TOwner", ToAddress: "TTo", Amount: 1}},
				Ret: []Ret{{ContractRet: "REVERT"}},
			},
		},
	}

	txs := MapBlock(trxChain(), block, 1)
	require.Len(t, txs, 1)
	assert.Equal(t, primitives.TransactionStateFailed, txs[0].State)
}

func TestMapBlock_NoContractsDropped(t *testing.T) {
	block := RawBlock{Transactions: []Tx{{TxID: "tx4"}}}
	txs := MapBlock(trxChain(), block, 1)
	assert.Empty(t, txs)
}
