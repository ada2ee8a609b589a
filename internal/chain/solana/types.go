// Package solana implements the Solana chain mapper
// and Provider.
package solana

// TokenBalance is one pre/post token balance entry keyed by account index.
type TokenBalance struct {
	AccountIndex int
	Owner string
	Mint string
	Amount uint64 // raw token amount in base units (uiTokenAmount.amount), not decimal-shifted
}

// TransferCheckedInstruction is one parsed SPL-Token transferChecked
// instruction as surfaced in a transaction's inner instructions.
type TransferCheckedInstruction struct {
	Authority string
	Source string
	Destination string
	Mint string
	Amount uint64
}

// Meta is the subset of a Solana transaction's meta the mapper needs.
type Meta struct {
	Err any // non-nil ⇒ failed transaction
	Fee uint64
	PreBalances []uint64
	PostBalances []uint64
	PreTokenBalances []TokenBalance
	PostTokenBalances []TokenBalance
	// InnerTransferChecked is the flattened list of transferChecked
	// instructions found across all inner instruction groups, in order.
	InnerTransferChecked []TransferCheckedInstruction
}

// Tx is one Solana transaction as returned by getBlock.
type Tx struct {
	Signature string
	AccountKeys []string
	NumSignatures int
	Meta Meta
}

// BlockError, when non-nil, marks the whole block as unavailable for a
// known, benign reason.
type BlockError struct {
	Reason string // "cleaned_up" | "missing_slot" | "not_available"
}

// RawBlock is the raw chain payload for one Solana slot.
type RawBlock struct {
	Transactions []Tx
	Error *BlockError
}

const (
	systemProgramID = "11111111111111111111111111111111"
	tokenProgramID = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	jupiterProgramID = "JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4"
)
