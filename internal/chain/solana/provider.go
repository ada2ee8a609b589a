package solana

import (
	"context"
	"fmt"

	"github.com/synnergy-network/walletd/internal/chain"
	"github.com/synnergy-network/walletd/internal/chain/httpprovider"
	"github.com/synnergy-network/walletd/internal/primitives"
)

// Provider implements chain.Provider for Solana mainnet/devnet over its
// JSON-RPC endpoint.
type Provider struct {
	c primitives.Chain
	rpc *httpprovider.JSONRPCClient
}

// NewProvider builds a Solana Provider for c, using pool for JSON-RPC calls.
func NewProvider(c primitives.Chain, pool *httpprovider.EndpointPool) *Provider {
	return &Provider{c: c, rpc: httpprovider.NewJSONRPCClient(pool)}
}

var _ chain.Provider = (*Provider)(nil)

func (p *Provider) GetChain() primitives.Chain { return p.c }

func (p *Provider) GetLatestBlock(ctx context.Context) (uint64, error) {
	var slot uint64
	if err := p.rpc.Call(ctx, "getSlot", []any{map[string]string{"commitment": "confirmed"}}, &slot); err != nil {
		return 0, fmt.Errorf("solana: get slot: %w", err)
	}
	return slot, nil
}

// getBlockRPCResult is the subset of getBlock's result this Provider
// consumes. A non-nil err in the RPC envelope for a known benign reason
// (block cleaned up, slot skipped, not yet available) is translated to a
// RawBlock{Error:...} rather than a Go error.
type getBlockRPCResult struct {
	Transactions []struct {
		Transaction struct {
			Signatures []string `json:"signatures"`
			Message struct {
				AccountKeys []string `json:"accountKeys"`
			} `json:"message"`
		} `json:"transaction"`
		Meta struct {
			Err any `json:"err"`
			Fee uint64 `json:"fee"`
			PreBalances []uint64 `json:"preBalances"`
			PostBalances []uint64 `json:"postBalances"`
			PreTokenBalances []rpcTokenBalance `json:"preTokenBalances"`
			PostTokenBalances []rpcTokenBalance `json:"postTokenBalances"`
			InnerInstructions []rpcInnerInstructionGroup `json:"innerInstructions"`
		} `json:"meta"`
	} `json:"transactions"`
}

type rpcTokenBalance struct {
	AccountIndex int `json:"accountIndex"`
	Owner string `json:"owner"`
	Mint string `json:"mint"`
	UITokenAmount struct {
		Amount string `json:"amount"`
	} `json:"uiTokenAmount"`
}

type rpcInnerInstructionGroup struct {
	Instructions []rpcParsedInstruction `json:"instructions"`
}

type rpcParsedInstruction struct {
	Parsed struct {
		Type string `json:"type"`
		Info struct {
			Authority string `json:"authority"`
			Source string `json:"source"`
			Destination string `json:"destination"`
			Mint string `json:"mint"`
			TokenAmount struct {
				Amount string `json:"amount"`
			} `json:"tokenAmount"`
		} `json:"info"`
	} `json:"parsed"`
}

func (p *Provider) GetTransactions(ctx context.Context, blockNumber uint64) ([]primitives.Transaction, error) {
	var result getBlockRPCResult
	params := []any{blockNumber, map[string]any{
		"encoding": "jsonParsed",
		"transactionDetails": "full",
		"maxSupportedTransactionVersion": 0,
	}}
	if err := p.rpc.Call(ctx, "getBlock", params, &result); err != nil {
		if benignReason, ok := classifyBlockError(err); ok {
			return MapBlock(p.c, RawBlock{Error: &BlockError{Reason: benignReason}}, blockNumber), nil
		}
		return nil, fmt.Errorf("solana: get block %d: %w", blockNumber, err)
	}

	raw := RawBlock{Transactions: make([]Tx, 0, len(result.Transactions))}
	for _, rt := range result.Transactions {
		tx := Tx{
			Signature: firstOrEmpty(rt.Transaction.Signatures),
			AccountKeys: rt.Transaction.Message.AccountKeys,
			NumSignatures: len(rt.Transaction.Signatures),
			Meta: Meta{
				Err: rt.Meta.Err,
				Fee: rt.Meta.Fee,
				PreBalances: rt.Meta.PreBalances,
				PostBalances: rt.Meta.PostBalances,
			},
		}
		for _, b := range rt.Meta.PreTokenBalances {
			tx.Meta.PreTokenBalances = append(tx.Meta.PreTokenBalances, TokenBalance{
				AccountIndex: b.AccountIndex, Owner: b.Owner, Mint: b.Mint, Amount: parseUint(b.UITokenAmount.Amount),
			})
		}
		for _, b := range rt.Meta.PostTokenBalances {
			tx.Meta.PostTokenBalances = append(tx.Meta.PostTokenBalances, TokenBalance{
				AccountIndex: b.AccountIndex, Owner: b.Owner, Mint: b.Mint, Amount: parseUint(b.UITokenAmount.Amount),
			})
		}
		for _, group := range rt.Meta.InnerInstructions {
			for _, instr := range group.Instructions {
				if instr.Parsed.Type != "transferChecked" {
					continue
				}
				tx.Meta.InnerTransferChecked = append(tx.Meta.InnerTransferChecked, TransferCheckedInstruction{
					Authority: instr.Parsed.Info.Authority,
					Source: instr.Parsed.Info.Source,
					Destination: instr.Parsed.Info.Destination,
					Mint: instr.Parsed.Info.Mint,
					Amount: parseUint(instr.Parsed.Info.TokenAmount.Amount),
				})
			}
		}
		raw.Transactions = append(raw.Transactions, tx)
	}

	return MapBlock(p.c, raw, blockNumber), nil
}

func (p *Provider) GetTokenData(ctx context.Context, tokenID string) (chain.AssetMeta, error) {
	var result struct {
		Value struct {
			Data struct {
				Parsed struct {
					Info struct {
						Decimals int32 `json:"decimals"`
					} `json:"info"`
				} `json:"parsed"`
			} `json:"data"`
		} `json:"value"`
	}
	params := []any{tokenID, map[string]string{"encoding": "jsonParsed"}}
	if err := p.rpc.Call(ctx, "getAccountInfo", params, &result); err != nil {
		return chain.AssetMeta{}, fmt.Errorf("solana: get mint account %q: %w", tokenID, err)
	}
	return chain.AssetMeta{Decimals: result.Value.Data.Parsed.Info.Decimals}, nil
}

// classifyBlockError recognizes the known benign getBlock error reasons:
// cleaned-up, missing, or not-yet-available slots. Any other error
// propagates as a transient RPC failure.
func classifyBlockError(err error) (string, bool) {
	msg := err.Error()
	switch {
	case containsAny(msg, "was skipped, or missing"):
		return "missing_slot", true
	case containsAny(msg, "has been cleaned up"):
		return "cleaned_up", true
	case containsAny(msg, "not available for block"):
		return "not_available", true
	default:
		return "", false
	}
}

func containsAny(s, substr string) bool {
	return len(s) >= len(substr) && indexOf(s, substr) >= 0
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}

func firstOrEmpty(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

func parseUint(s string) uint64 {
	var n uint64
	for _, r := range s {
		if r < '0' || r > '9' {
			return n
		}
		n = n*10 + uint64(r-'0')
	}
	return n
}
