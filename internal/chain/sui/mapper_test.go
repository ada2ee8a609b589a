package sui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synnergy-network/walletd/internal/primitives"
)

func suiChain() primitives.Chain {
	return primitives.Chain{Type: primitives.ChainTypeSui, NetworkID: "mainnet"}
}

// S4: Sui stake event.
func TestMapBlock_StakingRequestEvent(t *testing.T) {
	block := RawBlock{
		Transactions: []Tx{
			{
				Digest: "dig-1",
				Events: []Event{{
					Type: stakingRequestEventType,
					Fields: map[string]string{
						"staker_address": "0xstaker",
						"validator_address": "0xvalidator",
						"amount": "1000000000",
					},
				}},
				Effects: Effects{Status: "success"},
			},
		},
	}

	txs := MapBlock(suiChain(), block, 1)
	require.Len(t, txs, 1)
	tx := txs[0]
	assert.Equal(t, primitives.TransactionTypeStakeDelegate, tx.Type)
	assert.Equal(t, "0xstaker", tx.From)
	assert.Equal(t, "0xvalidator", tx.To)
	assert.Equal(t, "1000000000", tx.Value)
}

func TestMapBlock_UnstakingRequestEvent(t *testing.T) {
	block := RawBlock{
		Transactions: []Tx{
			{
				Digest: "dig-2",
				Events: []Event{{
					Type: unstakingRequestEventType,
					Fields: map[string]string{
						"staker_address": "0xstaker",
						"validator_address": "0xvalidator",
						"amount": "500",
					},
				}},
				Effects: Effects{Status: "success"},
			},
		},
	}

	txs := MapBlock(suiChain(), block, 1)
	require.Len(t, txs, 1)
	assert.Equal(t, primitives.TransactionTypeStakeUndelegate, txs[0].Type)
}

func TestMapBlock_NativeTransferBalanceSplit(t *testing.T) {
	block := RawBlock{
		Transactions: []Tx{
			{
				Digest: "dig-3",
				BalanceChanges: []BalanceChange{
					{Owner: "0xsender", Denom: suiDenom, Amount: "-1000"},
					{Owner: "0xrecipient", Denom: suiDenom, Amount: "1000"},
				},
				GasSummary: GasSummary{ComputationCost: "100", StorageCost: "50", StorageRebate: "30"},
				Effects: Effects{Status: "success"},
			},
		},
	}

	txs := MapBlock(suiChain(), block, 1)
	require.Len(t, txs, 1)
	tx := txs[0]
	assert.Equal(t, primitives.TransactionTypeTransfer, tx.Type)
	assert.Equal(t, "0xsender", tx.From)
	assert.Equal(t, "0xrecipient", tx.To)
	assert.Equal(t, "1000", tx.Value)
	assert.Equal(t, "120", tx.Fee) // 100 + 50 - 30
}

func TestMapBlock_FeeClampedAtZeroWhenRebateExceedsCost(t *testing.T) {
	block := RawBlock{
		Transactions: []Tx{
			{
				Digest: "dig-4",
				BalanceChanges: []BalanceChange{
					{Owner: "0xsender", Denom: suiDenom, Amount: "-10"},
					{Owner: "0xrecipient", Denom: suiDenom, Amount: "10"},
				},
				GasSummary: GasSummary{ComputationCost: "10", StorageCost: "10", StorageRebate: "100"},
				Effects: Effects{Status: "success"},
			},
		},
	}

	txs := MapBlock(suiChain(), block, 1)
	require.Len(t, txs, 1)
	assert.Equal(t, "0", txs[0].Fee)
}
