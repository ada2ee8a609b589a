// Package sui implements the Sui chain mapper and
// Provider.
package sui

const (
	stakingRequestEventType = "0x3::validator::StakingRequestEvent"
	unstakingRequestEventType = "0x3::validator::UnstakingRequestEvent"
	suiDenom = "0x2::sui::SUI"
)

// BalanceChange is one entry of a transaction's balanceChanges list.
type BalanceChange struct {
	Owner string
	Denom string
	Amount string // signed decimal string
}

// Event is one decoded Move event emitted by the transaction.
type Event struct {
	Type string
	Fields map[string]string // staker_address/validator_address/amount etc.
}

// GasSummary is the transaction's gasUsed breakdown.
type GasSummary struct {
	ComputationCost string
	StorageCost string
	StorageRebate string
}

// Effects is the subset of a Sui transaction's effects the mapper needs.
type Effects struct {
	Status string // "success" | "failure"
}

// Tx is one decoded Sui transaction.
type Tx struct {
	Digest string
	BalanceChanges []BalanceChange
	Events []Event
	GasSummary GasSummary
	Effects Effects
}

// RawBlock is the raw chain payload for one Sui checkpoint.
type RawBlock struct {
	Transactions []Tx
}
