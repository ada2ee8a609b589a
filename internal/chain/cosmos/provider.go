package cosmos

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"

	"github.com/synnergy-network/walletd/internal/chain"
	"github.com/synnergy-network/walletd/internal/chain/httpprovider"
	"github.com/synnergy-network/walletd/internal/primitives"
)

// Provider implements chain.Provider for one Cosmos SDK network over its
// Tendermint RPC/REST endpoint.
type Provider struct {
	c primitives.Chain
	rpc *httpprovider.JSONRPCClient
	nativeDenom string
}

// NewProvider builds a Cosmos Provider for c, using pool for RPC calls.
func NewProvider(c primitives.Chain, pool *httpprovider.EndpointPool, nativeDenom string) *Provider {
	return &Provider{c: c, rpc: httpprovider.NewJSONRPCClient(pool), nativeDenom: nativeDenom}
}

var _ chain.Provider = (*Provider)(nil)

func (p *Provider) GetChain() primitives.Chain { return p.c }

func (p *Provider) GetLatestBlock(ctx context.Context) (uint64, error) {
	var result struct {
		Block struct {
			Header struct {
				Height string `json:"height"`
			} `json:"header"`
		} `json:"block"`
	}
	if err := p.rpc.Call(ctx, "block", nil, &result); err != nil {
		return 0, fmt.Errorf("cosmos: get latest block: %w", err)
	}
	n, err := strconv.ParseUint(result.Block.Header.Height, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("cosmos: parse height %q: %w", result.Block.Header.Height, err)
	}
	return n, nil
}

// blockResultsRPCResult is the subset of block_results this Provider
// consumes; decoding raw tx bytes into Msg/Receipt is delegated to a
// protobuf-aware decode step performed before MapBlock is called.
type blockResultsRPCResult struct {
	TxsResults []struct {
		Code uint32 `json:"code"`
		Events []struct {
			Type string `json:"type"`
			Attributes []struct {
				Key string `json:"key"`
				Value string `json:"value"`
			} `json:"attributes"`
		} `json:"events"`
	} `json:"txs_results"`
}

type blockRPCResult struct {
	Block struct {
		Data struct {
			Txs []string `json:"txs"` // base64-encoded raw tx bytes
		} `json:"data"`
	} `json:"block"`
}

func (p *Provider) GetTransactions(ctx context.Context, blockNumber uint64) ([]primitives.Transaction, error) {
	height := strconv.FormatUint(blockNumber, 10)

	var block blockRPCResult
	if err := p.rpc.Call(ctx, "block", map[string]string{"height": height}, &block); err != nil {
		return nil, fmt.Errorf("cosmos: get block %d: %w", blockNumber, err)
	}

	var results blockResultsRPCResult
	if err := p.rpc.Call(ctx, "block_results", map[string]string{"height": height}, &results); err != nil {
		return nil, fmt.Errorf("cosmos: get block results %d: %w", blockNumber, err)
	}

	raw := RawBlock{Transactions: make([]Tx, 0, len(block.Block.Data.Txs))}
	for i, encoded := range block.Block.Data.Txs {
		rawBytes, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			continue // malformed tx bytes: skip, never fail the whole block
		}
		msgs, err := decodeTxMessages(rawBytes)
		if err != nil {
			continue
		}
		receipt := Receipt{}
		if i < len(results.TxsResults) {
			r := results.TxsResults[i]
			receipt.Code = r.Code
			for _, ev := range r.Events {
				attrs := make(map[string]string, len(ev.Attributes))
				for _, a := range ev.Attributes {
					attrs[a.Key] = a.Value
				}
				receipt.Events = append(receipt.Events, Event{Type: ev.Type, Attributes: attrs})
			}
		}
		raw.Transactions = append(raw.Transactions, Tx{RawBytes: rawBytes, Messages: msgs, Receipt: receipt})
	}

	return MapBlock(p.c, raw, blockNumber, p.nativeDenom), nil
}

func (p *Provider) GetTokenData(ctx context.Context, tokenID string) (chain.AssetMeta, error) {
	var result struct {
		Metadata struct {
			Symbol string `json:"symbol"`
			Name string `json:"name"`
			Display string `json:"display"`
		} `json:"metadata"`
	}
	if err := p.rpc.Call(ctx, "bank/denom_metadata", map[string]string{"denom": tokenID}, &result); err != nil {
		return chain.AssetMeta{}, fmt.Errorf("cosmos: get denom metadata %q: %w", tokenID, err)
	}
	return chain.AssetMeta{Symbol: result.Metadata.Symbol, Name: result.Metadata.Name, Decimals: 6}, nil
}
