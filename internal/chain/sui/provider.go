package sui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/synnergy-network/walletd/internal/chain"
	"github.com/synnergy-network/walletd/internal/chain/httpprovider"
	"github.com/synnergy-network/walletd/internal/primitives"
)

// Provider implements chain.Provider for Sui over its JSON-RPC endpoint.
type Provider struct {
	c primitives.Chain
	rpc *httpprovider.JSONRPCClient
}

// NewProvider builds a Sui Provider for c, using pool for JSON-RPC calls.
func NewProvider(c primitives.Chain, pool *httpprovider.EndpointPool) *Provider {
	return &Provider{c: c, rpc: httpprovider.NewJSONRPCClient(pool)}
}

var _ chain.Provider = (*Provider)(nil)

func (p *Provider) GetChain() primitives.Chain { return p.c }

func (p *Provider) GetLatestBlock(ctx context.Context) (uint64, error) {
	var result string
	if err := p.rpc.Call(ctx, "sui_getLatestCheckpointSequenceNumber", []any{}, &result); err != nil {
		return 0, fmt.Errorf("sui: get latest checkpoint: %w", err)
	}
	n, err := strconv.ParseUint(result, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("sui: parse checkpoint %q: %w", result, err)
	}
	return n, nil
}

type checkpointRPCResult struct {
	Transactions []string `json:"transactions"` // digests
}

type txRPCResult struct {
	Digest string `json:"digest"`
	BalanceChanges []struct {
		Owner struct {
			AddressOwner string `json:"AddressOwner"`
		} `json:"owner"`
		CoinType string `json:"coinType"`
		Amount string `json:"amount"`
	} `json:"balanceChanges"`
	Events []struct {
		Type string `json:"type"`
		ParsedJSON map[string]string `json:"parsedJson"`
	} `json:"events"`
	Effects struct {
		Status struct {
			Status string `json:"status"`
		} `json:"status"`
		GasUsed struct {
			ComputationCost string `json:"computationCost"`
			StorageCost string `json:"storageCost"`
			StorageRebate string `json:"storageRebate"`
		} `json:"gasUsed"`
	} `json:"effects"`
}

func (p *Provider) GetTransactions(ctx context.Context, blockNumber uint64) ([]primitives.Transaction, error) {
	var checkpoint checkpointRPCResult
	if err := p.rpc.Call(ctx, "sui_getCheckpoint", []any{strconv.FormatUint(blockNumber, 10)}, &checkpoint); err != nil {
		return nil, fmt.Errorf("sui: get checkpoint %d: %w", blockNumber, err)
	}

	raw := RawBlock{Transactions: make([]Tx, 0, len(checkpoint.Transactions))}
	for _, digest := range checkpoint.Transactions {
		var txResult txRPCResult
		opts := map[string]any{"showBalanceChanges": true, "showEvents": true, "showEffects": true}
		if err := p.rpc.Call(ctx, "sui_getTransactionBlock", []any{digest, opts}, &txResult); err != nil {
			continue // per-tx fetch failure: skip, never fail the whole checkpoint
		}

		tx := Tx{
			Digest: txResult.Digest,
			Effects: Effects{Status: txResult.Effects.Status.Status},
			GasSummary: GasSummary{
				ComputationCost: txResult.Effects.GasUsed.ComputationCost,
				StorageCost: txResult.Effects.GasUsed.StorageCost,
				StorageRebate: txResult.Effects.GasUsed.StorageRebate,
			},
		}
		for _, bc := range txResult.BalanceChanges {
			tx.BalanceChanges = append(tx.BalanceChanges, BalanceChange{
				Owner: bc.Owner.AddressOwner, Denom: bc.CoinType, Amount: bc.Amount,
			})
		}
		for _, ev := range txResult.Events {
			tx.Events = append(tx.Events, Event{Type: ev.Type, Fields: ev.ParsedJSON})
		}
		raw.Transactions = append(raw.Transactions, tx)
	}

	return MapBlock(p.c, raw, blockNumber), nil
}

func (p *Provider) GetTokenData(ctx context.Context, tokenID string) (chain.AssetMeta, error) {
	var result struct {
		Symbol string `json:"symbol"`
		Name string `json:"name"`
		Decimals int32 `json:"decimals"`
	}
	if err := p.rpc.Call(ctx, "suix_getCoinMetadata", []any{tokenID}, &result); err != nil {
		return chain.AssetMeta{}, fmt.Errorf("sui: get coin metadata %q: %w", tokenID, err)
	}
	return chain.AssetMeta{Symbol: result.Symbol, Name: result.Name, Decimals: result.Decimals}, nil
}
