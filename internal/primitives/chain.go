// Package primitives declares the storage-independent entities shared across
// the ingestion, classification and fan-out pipeline: chains, assets,
// transactions, subscriptions, devices and parser cursors.
package primitives

import (
	"fmt"
	"strings"
)

// ChainType identifies a blockchain family. The set is closed: every value a
// Provider or mapper can produce is enumerated here.
type ChainType string

const (
	ChainTypeEthereum ChainType = "ethereum"
	ChainTypeSolana ChainType = "solana"
	ChainTypeCosmos ChainType = "cosmos"
	ChainTypeSui ChainType = "sui"
	ChainTypeTon ChainType = "ton"
	ChainTypeTron ChainType = "tron"
	ChainTypeBitcoin ChainType = "bitcoin"
	ChainTypeXrp ChainType = "xrp"
	ChainTypeAptos ChainType = "aptos"
	ChainTypeNear ChainType = "near"
	ChainTypeStellar ChainType = "stellar"
	ChainTypePolkadot ChainType = "polkadot"
	ChainTypeCardano ChainType = "cardano"
	ChainTypeAlgorand ChainType = "algorand"
	ChainTypeHyperCore ChainType = "hypercore"
)

// Chain is a closed enum tag identifying a specific network of a chain
// family, e.g. {Ethereum, "1"} (mainnet) vs {Ethereum, "11155111"} (sepolia).
type Chain struct {
	Type ChainType
	NetworkID string
}

// String renders the chain as "<type>_<network>", or just "<type>" when the
// network id is the family's canonical default ("" is never persisted).
func (c Chain) String() string {
	if c.NetworkID == "" {
		return string(c.Type)
	}
	return fmt.Sprintf("%s_%s", c.Type, c.NetworkID)
}

// AssetID identifies either a chain-native asset (TokenID == "") or a
// specific token/contract on that chain.
type AssetID struct {
	Chain Chain
	TokenID string
}

// NewNativeAssetID returns the AssetID of chain's native asset.
func NewNativeAssetID(chain Chain) AssetID { return AssetID{Chain: chain} }

// NewTokenAssetID returns the AssetID of a specific token on chain.
func NewTokenAssetID(chain Chain, tokenID string) AssetID {
	return AssetID{Chain: chain, TokenID: tokenID}
}

// IsNative reports whether this AssetID denotes the chain's native asset.
func (a AssetID) IsNative() bool { return a.TokenID == "" }

// String renders the AssetID as "<chain>" or "<chain>_<token_id>".
func (a AssetID) String() string {
	if a.IsNative() {
		return a.Chain.String()
	}
	return fmt.Sprintf("%s_%s", a.Chain.String(), a.TokenID)
}

// ParseAssetID parses the serialized form produced by String. It is tolerant
// of token ids that themselves contain underscores (e.g. EVM addresses never
// do, but some chains' token ids may); only the first underscore after the
// chain token is treated as the separator.
func ParseAssetID(s string) (AssetID, error) {
	parts := strings.SplitN(s, "_", 2)
	chainPart := parts[0]
	chain, err := parseChainToken(chainPart)
	if err != nil {
		return AssetID{}, err
	}
	if len(parts) == 1 {
		return AssetID{Chain: chain}, nil
	}
	return AssetID{Chain: chain, TokenID: parts[1]}, nil
}

func parseChainToken(s string) (Chain, error) {
	for _, ct := range allChainTypes {
		if string(ct) == s {
			return Chain{Type: ct}, nil
		}
	}
	return Chain{}, fmt.Errorf("primitives: unknown chain token %q", s)
}

var allChainTypes = []ChainType{
	ChainTypeEthereum, ChainTypeSolana, ChainTypeCosmos, ChainTypeSui, ChainTypeTon,
	ChainTypeTron, ChainTypeBitcoin, ChainTypeXrp, ChainTypeAptos, ChainTypeNear,
	ChainTypeStellar, ChainTypePolkadot, ChainTypeCardano, ChainTypeAlgorand, ChainTypeHyperCore,
}
