package ton

import (
	"context"
	"fmt"

	"github.com/synnergy-network/walletd/internal/chain"
	"github.com/synnergy-network/walletd/internal/chain/httpprovider"
	"github.com/synnergy-network/walletd/internal/primitives"
)

// Provider implements chain.Provider for Ton over its HTTP API (toncenter-
// compatible JSON-RPC-shaped client).
type Provider struct {
	c primitives.Chain
	rpc *httpprovider.JSONRPCClient
}

// NewProvider builds a Ton Provider for c, using pool for RPC calls.
func NewProvider(c primitives.Chain, pool *httpprovider.EndpointPool) *Provider {
	return &Provider{c: c, rpc: httpprovider.NewJSONRPCClient(pool)}
}

var _ chain.Provider = (*Provider)(nil)

func (p *Provider) GetChain() primitives.Chain { return p.c }

func (p *Provider) GetLatestBlock(ctx context.Context) (uint64, error) {
	var result struct {
		Last struct {
			Seqno uint64 `json:"seqno"`
		} `json:"last"`
	}
	if err := p.rpc.Call(ctx, "getMasterchainInfo", nil, &result); err != nil {
		return 0, fmt.Errorf("ton: get masterchain info: %w", err)
	}
	return result.Last.Seqno, nil
}

type rpcMessage struct {
	MsgType string `json:"msg_type"`
	Source string `json:"source"`
	Destination string `json:"destination"`
	Value string `json:"value"`
	OpCode string `json:"op_code"`
	Comment string `json:"comment"`
	DecodedBody struct {
		Text string `json:"text"`
		Comment string `json:"comment"`
	} `json:"decoded_body"`
}

type rpcTransaction struct {
	Hash string `json:"hash"`
	TransactionType string `json:"transaction_type"`
	InMsg *rpcMessage `json:"in_msg"`
	OutMsgs []rpcMessage `json:"out_msgs"`
	TotalFees string `json:"total_fees"`
}

type blockTransactionsRPCResult struct {
	Transactions []rpcTransaction `json:"transactions"`
}

func (p *Provider) GetTransactions(ctx context.Context, blockNumber uint64) ([]primitives.Transaction, error) {
	var result blockTransactionsRPCResult
	params := map[string]any{"seqno": blockNumber, "workchain": -1}
	if err := p.rpc.Call(ctx, "getBlockTransactions", params, &result); err != nil {
		return nil, fmt.Errorf("ton: get block transactions %d: %w", blockNumber, err)
	}

	raw := RawBlock{Transactions: make([]Tx, 0, len(result.Transactions))}
	for _, rt := range result.Transactions {
		tx := Tx{
			Hash: rt.Hash,
			TransactionType: rt.TransactionType,
			Fee: rt.TotalFees,
		}
		if rt.InMsg != nil {
			in := toMessage(*rt.InMsg)
			tx.InMessage = &in
		}
		for _, m := range rt.OutMsgs {
			tx.OutMessages = append(tx.OutMessages, toMessage(m))
		}
		raw.Transactions = append(raw.Transactions, tx)
	}

	return MapBlock(p.c, raw, blockNumber), nil
}

func toMessage(m rpcMessage) Message {
	memo := m.Comment
	if memo == "" {
		memo = m.DecodedBody.Comment
	}
	decoded := m.DecodedBody.Text
	return Message{
		Type: m.MsgType,
		Source: m.Source,
		Destination: m.Destination,
		Value: m.Value,
		OpCode: m.OpCode,
		Comment: memo,
		DecodedText: decoded,
	}
}

func (p *Provider) GetTokenData(ctx context.Context, tokenID string) (chain.AssetMeta, error) {
	var result struct {
		Symbol string `json:"symbol"`
		Name string `json:"name"`
		Decimals int32 `json:"decimals"`
	}
	if err := p.rpc.Call(ctx, "getJettonData", map[string]string{"address": tokenID}, &result); err != nil {
		return chain.AssetMeta{}, fmt.Errorf("ton: get jetton data %q: %w", tokenID, err)
	}
	return chain.AssetMeta{Symbol: result.Symbol, Name: result.Name, Decimals: result.Decimals}, nil
}
