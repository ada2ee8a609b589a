package ton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synnergy-network/walletd/internal/primitives"
)

var tonChain = primitives.Chain{Type: primitives.ChainTypeTon, NetworkID: "mainnet"}

func TestMapBlock_OutgoingTransfer(t *testing.T) {
	block := RawBlock{
		Transactions: []Tx{
			{
				Hash: "h1",
				TransactionType: transOrdType,
				OutMessages: []Message{
					{Source: "0:aaaa", Destination: "0:bbbb", Value: "1000000000", Comment: "payment"},
				},
				Fee: "5000000",
			},
		},
	}
	// replace placeholder hex hashes with valid 32-byte hex so rebaseAddress succeeds
	block.Transactions[0].OutMessages[0].Source = "0:" + repeatHex("aa", 32)
	block.Transactions[0].OutMessages[0].Destination = "0:" + repeatHex("bb", 32)

	txs := MapBlock(tonChain, block, 1)
	require.Len(t, txs, 1)
	tx := txs[0]
	assert.Equal(t, primitives.TransactionTypeTransfer, tx.Type)
	assert.Equal(t, "1000000000", tx.Value)
	require.NotNil(t, tx.Memo)
	assert.Equal(t, "payment", *tx.Memo)
	assert.NotEqual(t, "0:"+repeatHex("aa", 32), tx.From) // rebased
}

func TestMapBlock_IncomingTransfer(t *testing.T) {
	block := RawBlock{
		Transactions: []Tx{
			{
				Hash: "h2",
				TransactionType: transOrdType,
				InMessage: &Message{
					Type: "int_msg",
					Source: "0:" + repeatHex("cc", 32),
					Destination: "0:" + repeatHex("dd", 32),
					Value: "2000000000",
				},
			},
		},
	}

	txs := MapBlock(tonChain, block, 1)
	require.Len(t, txs, 1)
	assert.Equal(t, "2000000000", txs[0].Value)
}

func TestMapBlock_NonTransOrdDropped(t *testing.T) {
	block := RawBlock{
		Transactions: []Tx{
			{Hash: "h3", TransactionType: "TickTock"},
		},
	}
	txs := MapBlock(tonChain, block, 1)
	assert.Empty(t, txs)
}

func TestMapBlock_MultipleOutMessagesDropped(t *testing.T) {
	block := RawBlock{
		Transactions: []Tx{
			{
				Hash: "h4",
				TransactionType: transOrdType,
				OutMessages: []Message{
					{Source: "0:" + repeatHex("aa", 32), Destination: "0:" + repeatHex("bb", 32), Value: "100"},
					{Source: "0:" + repeatHex("aa", 32), Destination: "0:" + repeatHex("cc", 32), Value: "100"},
				},
			},
		},
	}
	txs := MapBlock(tonChain, block, 1)
	assert.Empty(t, txs)
}

func repeatHex(pair string, totalBytes int) string {
	s := ""
	for i := 0; i < totalBytes; i++ {
		s += pair
	}
	return s
}
