package primitives

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// TransactionType enumerates the kinds of on-chain activity a mapper can
// produce.
type TransactionType string

const (
	TransactionTypeTransfer TransactionType = "transfer"
	TransactionTypeTransferNFT TransactionType = "transferNFT"
	TransactionTypeSmartContractCall TransactionType = "smartContractCall"
	TransactionTypeTokenApproval TransactionType = "tokenApproval"
	TransactionTypeStakeDelegate TransactionType = "stakeDelegate"
	TransactionTypeStakeUndelegate TransactionType = "stakeUndelegate"
	TransactionTypeStakeRedelegate TransactionType = "stakeRedelegate"
	TransactionTypeStakeRewards TransactionType = "stakeRewards"
	TransactionTypeStakeWithdraw TransactionType = "stakeWithdraw"
	TransactionTypeSwap TransactionType = "swap"
	TransactionTypeAssetActivation TransactionType = "assetActivation"
	TransactionTypePerpetual TransactionType = "perpetual"
)

// TransactionState tracks the lifecycle of a Transaction: created Pending,
// mutated only to upgrade state.
type TransactionState string

const (
	TransactionStatePending TransactionState = "pending"
	TransactionStateConfirmed TransactionState = "confirmed"
	TransactionStateFailed TransactionState = "failed"
	TransactionStateReverted TransactionState = "reverted"
)

// SwapMetadata describes the two legs of an inferred or router-decoded swap.
type SwapMetadata struct {
	FromAsset AssetID `json:"from_asset"`
	FromValue string `json:"from_value"`
	ToAsset AssetID `json:"to_asset"`
	ToValue string `json:"to_value"`
	Provider *string `json:"provider,omitempty"`
}

// PerpetualMetadata carries perpetual-position specific detail. Referenced by
// the Transaction type enum but not produced by any mapper in this core: the
// type exists for forward compatibility with HyperCore-family mappers that
// are out of this core's implemented set.
type PerpetualMetadata struct {
	Symbol string `json:"symbol"`
	Direction string `json:"direction"`
}

// Metadata is a tagged union; exactly one of Swap or
// Perpetual is non-nil, or both are nil for transaction types that carry no
// metadata.
type Metadata struct {
	Swap *SwapMetadata `json:"swap,omitempty"`
	Perpetual *PerpetualMetadata `json:"perpetual,omitempty"`
}

// Transaction is the uniform record every chain mapper produces.
type Transaction struct {
	ID string `json:"id"`
	Hash string `json:"hash"`
	Chain Chain `json:"-"`
	AssetID AssetID `json:"asset_id"`
	From string `json:"from"`
	To string `json:"to"`
	Contract *string `json:"contract,omitempty"`
	Type TransactionType `json:"type"`
	State TransactionState `json:"state"`
	BlockNumber uint64 `json:"block_number,string"`
	Sequence uint64 `json:"sequence,string"`
	Fee string `json:"fee"`
	FeeAssetID AssetID `json:"fee_asset_id"`
	Value string `json:"value"`
	Memo *string `json:"memo,omitempty"`
	Metadata *Metadata `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTransactionID derives the deterministic, duplicate-collapsing id for a
// (chain, hash[, subIndex]) triple.
//
// subIndex distinguishes multiple logical transactions mapped from the same
// underlying hash (e.g. multiple transferChecked legs); pass -1 when there is
// only one.
func NewTransactionID(chain Chain, hash string, subIndex int) string {
	if subIndex < 0 {
		return fmt.Sprintf("%s_%s", chain.String(), hash)
	}
	return fmt.Sprintf("%s_%s_%d", chain.String(), hash, subIndex)
}

// Addresses returns the set of addresses this transaction touches, used by
// the store-transactions consumer to look up subscriptions.
func (t Transaction) Addresses() []string {
	addrs := []string{t.From, t.To}
	if t.Contract != nil && *t.Contract != "" {
		addrs = append(addrs, *t.Contract)
	}
	return dedupStrings(addrs)
}

// AssetIDs returns every AssetID this transaction references: its own asset,
// its fee asset, and (for swaps) both legs of the swap metadata.
func (t Transaction) AssetIDs() []AssetID {
	ids := []AssetID{t.AssetID, t.FeeAssetID}
	if t.Metadata != nil && t.Metadata.Swap != nil {
		ids = append(ids, t.Metadata.Swap.FromAsset, t.Metadata.Swap.ToAsset)
	}
	return dedupAssetIDs(ids)
}

// AssetAddressPair associates one asset with one address the transaction
// moved it to or from; used to populate the assets-addresses link table.
type AssetAddressPair struct {
	AssetID AssetID
	Address string
}

// AssetsAddressesWithFee returns the (asset, address) pairs implied by this
// transaction, including the fee asset against the sender.
func (t Transaction) AssetsAddressesWithFee() []AssetAddressPair {
	pairs := []AssetAddressPair{
		{AssetID: t.AssetID, Address: t.From},
		{AssetID: t.AssetID, Address: t.To},
		{AssetID: t.FeeAssetID, Address: t.From},
	}
	if t.Metadata != nil && t.Metadata.Swap != nil {
		pairs = append(pairs,
			AssetAddressPair{AssetID: t.Metadata.Swap.FromAsset, Address: t.From},
			AssetAddressPair{AssetID: t.Metadata.Swap.ToAsset, Address: t.To},
		)
	}
	return dedupAssetAddressPairs(pairs)
}

func dedupStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func dedupAssetIDs(in []AssetID) []AssetID {
	seen := make(map[AssetID]struct{}, len(in))
	out := make([]AssetID, 0, len(in))
	for _, id := range in {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func dedupAssetAddressPairs(in []AssetAddressPair) []AssetAddressPair {
	seen := make(map[AssetAddressPair]struct{}, len(in))
	out := make([]AssetAddressPair, 0, len(in))
	for _, p := range in {
		if p.Address == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Sha256Hex returns the uppercase hex SHA-256 digest of data, matching the
// Cosmos-family hash rule.
func Sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}
