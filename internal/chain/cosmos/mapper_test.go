package cosmos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synnergy-network/walletd/internal/primitives"
)

func atomChain() primitives.Chain {
	return primitives.Chain{Type: primitives.ChainTypeCosmos, NetworkID: "cosmoshub-4"}
}

func TestMapBlock_MsgSendNative(t *testing.T) {
	block := RawBlock{
		Transactions: []Tx{
			{
				RawBytes: []byte("tx-1"),
				Messages: []Msg{{
					TypeURL: msgSendTypeURL,
					FromAddress: "cosmos1from",
					ToAddress: "cosmos1to",
					Amount: []Coin{{Denom: "uatom", Amount: "1000000"}},
				}},
				Receipt: Receipt{Code: 0},
			},
		},
	}

	txs := MapBlock(atomChain(), block, 100, "uatom")
	require.Len(t, txs, 1)
	tx := txs[0]
	assert.Equal(t, primitives.TransactionTypeTransfer, tx.Type)
	assert.Equal(t, "1000000", tx.Value)
	assert.True(t, tx.AssetID.IsNative())
	assert.Equal(t, primitives.TransactionStateConfirmed, tx.State)
}

func TestMapBlock_ThorchainMsgSend(t *testing.T) {
	block := RawBlock{
		Transactions: []Tx{
			{
				RawBytes: []byte("tx-2"),
				Messages: []Msg{{
					TypeURL: msgThorchainSendTypeURL,
					FromAddress: "thor1from",
					ToAddress: "thor1to",
					Amount: []Coin{{Denom: "rune", Amount: "500"}},
				}},
				Receipt: Receipt{Code: 0},
			},
		},
	}

	txs := MapBlock(atomChain(), block, 1, "rune")
	require.Len(t, txs, 1)
	assert.Equal(t, primitives.TransactionTypeTransfer, txs[0].Type)
	assert.Equal(t, "500", txs[0].Value)
}

func TestMapBlock_WithdrawDelegatorReward(t *testing.T) {
	block := RawBlock{
		Transactions: []Tx{
			{
				RawBytes: []byte("tx-3"),
				Messages: []Msg{{
					TypeURL: msgWithdrawRewardTypeURL,
					DelegatorAddress: "cosmos1delegator",
					ValidatorAddress: "cosmosvaloper1validator",
				}},
				Receipt: Receipt{
					Code: 0,
					Events: []Event{
						{Type: withdrawRewardsEventType, Attributes: map[string]string{"amount": "42uatom"}},
						{Type: withdrawRewardsEventType, Attributes: map[string]string{"amount": "8uatom"}},
					},
				},
			},
		},
	}

	txs := MapBlock(atomChain(), block, 1, "uatom")
	require.Len(t, txs, 1)
	tx := txs[0]
	assert.Equal(t, primitives.TransactionTypeStakeRewards, tx.Type)
	assert.Equal(t, "50", tx.Value)
	assert.True(t, tx.AssetID.IsNative())
}

func TestMapBlock_WithdrawDelegatorReward_NoEvents_Dropped(t *testing.T) {
	block := RawBlock{
		Transactions: []Tx{
			{
				RawBytes: []byte("tx-4"),
				Messages: []Msg{{
					TypeURL: msgWithdrawRewardTypeURL,
					DelegatorAddress: "cosmos1delegator",
					ValidatorAddress: "cosmosvaloper1validator",
				}},
				Receipt: Receipt{Code: 0},
			},
		},
	}

	txs := MapBlock(atomChain(), block, 1, "uatom")
	assert.Empty(t, txs)
}

func TestMapBlock_UnrecognizedMessageDropped(t *testing.T) {
	block := RawBlock{
		Transactions: []Tx{
			{
				RawBytes: []byte("tx-5"),
				Messages: []Msg{{TypeURL: "/cosmos.gov.v1beta1.MsgVote"}},
				Receipt: Receipt{Code: 0},
			},
		},
	}

	txs := MapBlock(atomChain(), block, 1, "uatom")
	assert.Empty(t, txs)
}

func TestMapBlock_FailedTxMarksReverted(t *testing.T) {
	block := RawBlock{
		Transactions: []Tx{
			{
				RawBytes: []byte("tx-6"),
				Messages: []Msg{{
					TypeURL: msgSendTypeURL,
					FromAddress: "cosmos1from",
					ToAddress: "cosmos1to",
					Amount: []Coin{{Denom: "uatom", Amount: "10"}},
				}},
				Receipt: Receipt{Code: 5},
			},
		},
	}

	txs := MapBlock(atomChain(), block, 1, "uatom")
	require.Len(t, txs, 1)
	assert.Equal(t, primitives.TransactionStateReverted, txs[0].State)
}
