package evm

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/synnergy-network/walletd/internal/chain"
	"github.com/synnergy-network/walletd/internal/chain/httpprovider"
	"github.com/synnergy-network/walletd/internal/primitives"
)

// Provider implements chain.Provider for one EVM network over JSON-RPC.
type Provider struct {
	c primitives.Chain
	rpc *httpprovider.JSONRPCClient
	minTransfer uint64
	routers []RouterConfig
}

// NewProvider builds an EVM Provider for c, using pool for JSON-RPC calls.
func NewProvider(c primitives.Chain, pool *httpprovider.EndpointPool, minTransferAmount uint64, routers []RouterConfig) *Provider {
	return &Provider{c: c, rpc: httpprovider.NewJSONRPCClient(pool), minTransfer: minTransferAmount, routers: routers}
}

var _ chain.Provider = (*Provider)(nil)

func (p *Provider) GetChain() primitives.Chain { return p.c }

func (p *Provider) GetLatestBlock(ctx context.Context) (uint64, error) {
	var hexResult string
	if err := p.rpc.Call(ctx, "eth_blockNumber", []any{}, &hexResult); err != nil {
		return 0, fmt.Errorf("evm: get latest block: %w", err)
	}
	n, ok := parseBigInt(hexResult)
	if !ok {
		return 0, fmt.Errorf("evm: parse block number %q", hexResult)
	}
	return n.Uint64(), nil
}

// blockRPCResult is the subset of eth_getBlockByNumber's result this
// Provider consumes before handing off to MapBlock; receipt data is fetched
// separately via eth_getTransactionReceipt per transaction.
type blockRPCResult struct {
	Transactions []Tx `json:"transactions"`
}

func (p *Provider) GetTransactions(ctx context.Context, blockNumber uint64) ([]primitives.Transaction, error) {
	var block blockRPCResult
	if err := p.rpc.Call(ctx, "eth_getBlockByNumber", []any{hexUint(blockNumber), true}, &block); err != nil {
		return nil, fmt.Errorf("evm: get block %d: %w", blockNumber, err)
	}

	receipts := make(map[string]Receipt, len(block.Transactions))
	for _, tx := range block.Transactions {
		var r Receipt
		if err := p.rpc.Call(ctx, "eth_getTransactionReceipt", []any{tx.Hash}, &r); err != nil {
			continue // receipt fetch failure: tx is skipped by MapBlock, never a batch failure
		}
		receipts[tx.Hash] = r
	}

	raw := RawBlock{Transactions: block.Transactions, Receipts: receipts}
	return MapBlock(p.c, raw, blockNumber, p.minTransfer, p.routers), nil
}

func (p *Provider) GetTokenData(ctx context.Context, tokenID string) (chain.AssetMeta, error) {
	// ERC-20 metadata (symbol/name/decimals) requires an eth_call against the
	// token contract; left as a thin call-site using the same JSON-RPC
	// client, decoding the ABI-encoded string/uint8 return values.
	var symbolHex, nameHex, decimalsHex string
	if err := p.rpc.Call(ctx, "eth_call", []any{map[string]string{"to": tokenID, "data": "0x95d89b41"}, "latest"}, &symbolHex); err != nil {
		return chain.AssetMeta{}, fmt.Errorf("evm: get symbol: %w", err)
	}
	if err := p.rpc.Call(ctx, "eth_call", []any{map[string]string{"to": tokenID, "data": "0x06fdde03"}, "latest"}, &nameHex); err != nil {
		return chain.AssetMeta{}, fmt.Errorf("evm: get name: %w", err)
	}
	if err := p.rpc.Call(ctx, "eth_call", []any{map[string]string{"to": tokenID, "data": "0x313ce567"}, "latest"}, &decimalsHex); err != nil {
		return chain.AssetMeta{}, fmt.Errorf("evm: get decimals: %w", err)
	}
	decimals, _ := parseBigInt(decimalsHex)
	return chain.AssetMeta{
		Symbol: decodeABIString(symbolHex),
		Name: decodeABIString(nameHex),
		Decimals: int32(decimals.Int64()),
	}, nil
}

func hexUint(n uint64) string { return fmt.Sprintf("0x%x", n) }

// decodeABIString decodes a dynamic ABI-encoded string return value's tail
// bytes into a Go string, tolerating truncated/malformed input by returning
// whatever is decodable rather than erroring (mapper contract: never panic).
func decodeABIString(hexData string) string {
	data, err := hex.DecodeString(strings.TrimPrefix(hexData, "0x"))
	if err != nil || len(data) < 64 {
		return ""
	}
	offset := new(big.Int).SetBytes(data[:32])
	if !offset.IsUint64() || offset.Uint64() > uint64(len(data)-32) {
		return ""
	}
	start := offset.Uint64() + 32
	length := new(big.Int).SetBytes(data[start-32 : start])
	end := uint64(len(data))
	if length.Cmp(new(big.Int).SetUint64(end-start)) < 0 {
		end = start + length.Uint64()
	}
	return string(data[start:end])
}
