package tron

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/synnergy-network/walletd/internal/chain"
	"github.com/synnergy-network/walletd/internal/chain/httpprovider"
	"github.com/synnergy-network/walletd/internal/primitives"
)

// Provider implements chain.Provider for Tron over its TronGrid-compatible
// HTTP API.
type Provider struct {
	c primitives.Chain
	rpc *httpprovider.JSONRPCClient
}

// NewProvider builds a Tron Provider for c, using pool for RPC calls.
func NewProvider(c primitives.Chain, pool *httpprovider.EndpointPool) *Provider {
	return &Provider{c: c, rpc: httpprovider.NewJSONRPCClient(pool)}
}

var _ chain.Provider = (*Provider)(nil)

func (p *Provider) GetChain() primitives.Chain { return p.c }

func (p *Provider) GetLatestBlock(ctx context.Context) (uint64, error) {
	var result struct {
		BlockHeader struct {
			RawData struct {
				Number uint64 `json:"number"`
			} `json:"raw_data"`
		} `json:"block_header"`
	}
	if err := p.rpc.Call(ctx, "wallet/getnowblock", map[string]any{}, &result); err != nil {
		return 0, fmt.Errorf("tron: get now block: %w", err)
	}
	return result.BlockHeader.RawData.Number, nil
}

type rpcContractParameter struct {
	Value struct {
		OwnerAddress string `json:"owner_address"`
		ToAddress string `json:"to_address"`
		Amount int64 `json:"amount"`
		ContractAddress string `json:"contract_address"`
		Data string `json:"data"`
	} `json:"value"`
}

type rpcContract struct {
	Type string `json:"type"`
	Parameter rpcContractParameter `json:"parameter"`
}

type rpcTx struct {
	TxID string `json:"txID"`
	Ret []struct {
		ContractRet string `json:"contractRet"`
	} `json:"ret"`
	RawData struct {
		Contract []rpcContract `json:"contract"`
	} `json:"raw_data"`
}

type blockRPCResult struct {
	Transactions []rpcTx `json:"transactions"`
}

func (p *Provider) GetTransactions(ctx context.Context, blockNumber uint64) ([]primitives.Transaction, error) {
	var block blockRPCResult
	if err := p.rpc.Call(ctx, "wallet/getblockbynum", map[string]any{"num": blockNumber}, &block); err != nil {
		return nil, fmt.Errorf("tron: get block %d: %w", blockNumber, err)
	}

	raw := RawBlock{
		Transactions: make([]Tx, 0, len(block.Transactions)),
		TransactionInfos: make(map[string]TransactionInfo, len(block.Transactions)),
	}
	for _, rt := range block.Transactions {
		tx := Tx{TxID: rt.TxID}
		for _, ret := range rt.Ret {
			tx.Ret = append(tx.Ret, Ret{ContractRet: ret.ContractRet})
		}
		for _, c := range rt.RawData.Contract {
			v := c.Parameter.Value
			tx.Contracts = append(tx.Contracts, Contract{
				Type: c.Type,
				OwnerAddress: decodeHexAddress(v.OwnerAddress),
				ToAddress: decodeHexAddress(v.ToAddress),
				Amount: v.Amount,
				ContractAddress: decodeHexAddress(v.ContractAddress),
				Data: v.Data,
			})
		}
		raw.Transactions = append(raw.Transactions, tx)

		var info struct {
			Fee int64 `json:"fee"`
		}
		if err := p.rpc.Call(ctx, "wallet/gettransactioninfobyid", map[string]string{"value": rt.TxID}, &info); err == nil {
			raw.TransactionInfos[rt.TxID] = TransactionInfo{Fee: info.Fee}
		}
	}

	return MapBlock(p.c, raw, blockNumber), nil
}

func (p *Provider) GetTokenData(ctx context.Context, tokenID string) (chain.AssetMeta, error) {
	var result struct {
		Name string `json:"name"`
		Symbol string `json:"symbol"`
		Decimals int32 `json:"decimals"`
	}
	if err := p.rpc.Call(ctx, "wallet/gettokeninfobyid", map[string]string{"value": tokenID}, &result); err != nil {
		return chain.AssetMeta{}, fmt.Errorf("tron: get token info %q: %w", tokenID, err)
	}
	return chain.AssetMeta{Symbol: result.Symbol, Name: result.Name, Decimals: result.Decimals}, nil
}

// decodeHexAddress converts a raw hex-encoded 21-byte Tron address (as
// returned by the node's raw_data contract parameters) into Base58Check.
// Already-encoded or malformed input passes through unchanged.
func decodeHexAddress(s string) string {
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 21 {
		return s
	}
	return encodeBase58CheckAddress(raw)
}
