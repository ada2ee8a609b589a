package tron

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/synnergy-network/walletd/internal/primitives"
)

// MapBlock decodes every transaction in block into zero or one Transaction
// each: native TRX transfer from a TransferContract, TRC-20 transfer from a
// TriggerSmartContract whose call data matches the ERC-20 transfer selector.
func MapBlock(c primitives.Chain, block RawBlock, blockNumber uint64) []primitives.Transaction {
	native := primitives.NewNativeAssetID(c)
	out := make([]primitives.Transaction, 0, len(block.Transactions))

	for seq, tx := range block.Transactions {
		if len(tx.Contracts) == 0 {
			continue
		}
		state := primitives.TransactionStateFailed
		if len(tx.Ret) > 0 && tx.Ret[0].ContractRet == contractRetSuccess {
			state = primitives.TransactionStateConfirmed
		}

		fee := int64(0)
		if info, ok := block.TransactionInfos[tx.TxID]; ok {
			fee = info.Fee
		}

		base := primitives.Transaction{
			ID: primitives.NewTransactionID(c, tx.TxID, -1),
			Hash: tx.TxID,
			Chain: c,
			State: state,
			BlockNumber: blockNumber,
			Sequence: uint64(seq),
			Fee: strconv.FormatInt(fee, 10),
			FeeAssetID: native,
		}

		contract := tx.Contracts[0]
		switch contract.Type {
		case transferContractType:
			out = append(out, mapNativeTransfer(base, native, contract))
		case triggerSmartContractType:
			if txn, ok := mapTRC20Transfer(base, contract); ok {
				out = append(out, txn)
			}
		}
	}
	return out
}

func mapNativeTransfer(base primitives.Transaction, native primitives.AssetID, contract Contract) primitives.Transaction {
	base.From = contract.OwnerAddress
	base.To = contract.ToAddress
	base.AssetID = native
	base.Type = primitives.TransactionTypeTransfer
	base.Value = strconv.FormatInt(contract.Amount, 10)
	return base
}

func mapTRC20Transfer(base primitives.Transaction, contract Contract) (primitives.Transaction, bool) {
	data := strings.TrimPrefix(strings.ToLower(contract.Data), "0x")
	selector := strings.TrimPrefix(erc20TransferSelector, "0x")
	if !strings.HasPrefix(data, selector) || len(data) < 8+64+64 {
		return primitives.Transaction{}, false
	}

	args := data[8:]
	recipientHex := args[:64]
	amountHex := args[64:128]

	recipient := decodeHexAddress("41" + recipientHex[24:]) // last 20 bytes, 0x41-prefixed and Base58Check-encoded like the provider's owner/to addresses
	amount, ok := parseHexInt(amountHex)
	if !ok {
		return primitives.Transaction{}, false
	}

	base.From = contract.OwnerAddress
	base.To = recipient
	contractAddr := contract.ContractAddress
	base.Contract = &contractAddr
	base.AssetID = primitives.NewTokenAssetID(base.Chain, contractAddr)
	base.Type = primitives.TransactionTypeTransfer
	base.Value = amount
	return base, true
}

func parseHexInt(hexDigits string) (string, bool) {
	n, ok := new(big.Int).SetString(hexDigits, 16)
	if !ok {
		return "", false
	}
	return n.String(), true
}
