// Package tron implements the Tron chain mapper and Provider.
package tron

const (
	transferContractType = "TransferContract"
	triggerSmartContractType = "TriggerSmartContract"
	erc20TransferSelector = "0xa9059cbb" // shared ABI shape with EVM TRC-20
	contractRetSuccess = "SUCCESS"
)

// Contract is one decoded contract call within a Tron transaction.
type Contract struct {
	Type string

	// TransferContract fields (native TRX).
	OwnerAddress string
	ToAddress string
	Amount int64

	// TriggerSmartContract fields (TRC-20 via ABI call data).
	ContractAddress string
	Data string // hex, 0x-prefixed ABI call data
}

// Ret is one entry of a transaction's ret list.
type Ret struct {
	ContractRet string
}

// Tx is one decoded Tron transaction.
type Tx struct {
	TxID string
	Contracts []Contract
	Ret []Ret
}

// TransactionInfo carries the fee charged, reported out-of-band from the
// transaction itself via the node's transaction info record.
type TransactionInfo struct {
	Fee int64
}

// RawBlock is the raw chain payload for one Tron block.
type RawBlock struct {
	Transactions []Tx
	TransactionInfos map[string]TransactionInfo // keyed by TxID
}
