package notification

import (
	"fmt"

	"github.com/synnergy-network/walletd/internal/errs"
	"github.com/synnergy-network/walletd/internal/primitives"
)

// Composer builds a push envelope for one (subscription, transaction) pair,
// or reports that none should be sent.
type Composer struct {
	factory   LocalizerFactory
	formatter BigNumberFormatter
}

// NewComposer builds a Composer. A nil factory falls back to
// DefaultLocalizerFactory.
func NewComposer(factory LocalizerFactory) *Composer {
	if factory == nil {
		factory = DefaultLocalizerFactory
	}
	return &Composer{factory: factory, formatter: BigNumberFormatter{}}
}

// Compose renders tx as a push envelope for device/sub. ok is false (err
// nil) when the device is gated out (push disabled or no token); err is
// non-nil for a transaction type the composer has no template for, and for
// a swap that carries no swap metadata.
//
// assets must contain an entry for every id in tx.AssetIDs() (and, for a
// swap, both swap legs); a missing entry degrades to the asset's own string
// id as its symbol rather than failing the whole notification.
func (c *Composer) Compose(device primitives.Device, sub primitives.Subscription, tx primitives.Transaction, assets map[primitives.AssetID]primitives.Asset) (primitives.GorushNotification, bool, error) {
	if !device.IsPushEnabled || device.Token == "" {
		return primitives.GorushNotification{}, false, nil
	}

	loc := c.factory(device.Locale)
	asset := c.lookupAsset(assets, tx.AssetID)
	amount, err := c.formatter.Value(tx.Value, asset.Decimals)
	if err != nil {
		amount = tx.Value
	}
	// Our Transaction has no separate "input addresses" set (an EVM-specific
	// concept the source's Transaction carries); From/To is sufficient here.
	isSent := tx.From == sub.Address

	title, body, err := c.message(loc, tx, assets, asset, amount, isSent)
	if err != nil {
		return primitives.GorushNotification{}, false, err
	}

	data := primitives.NotificationData{
		Type: primitives.NotificationDataTypeTransaction,
		Payload: primitives.TransactionNotificationData{
			WalletIndex:   sub.WalletIdx,
			TransactionID: tx.ID,
			AssetID:       tx.AssetID.String(),
		},
	}
	return primitives.GorushNotification{
		Tokens:   []string{device.Token},
		Platform: device.Platform,
		Title:    title,
		Message:  body,
		Data:     data,
	}, true, nil
}

func (c *Composer) lookupAsset(assets map[primitives.AssetID]primitives.Asset, id primitives.AssetID) primitives.Asset {
	if a, ok := assets[id]; ok {
		return a
	}
	return primitives.Asset{ID: id, Symbol: id.String()}
}

func (c *Composer) message(loc Localizer, tx primitives.Transaction, assets map[primitives.AssetID]primitives.Asset, asset primitives.Asset, amount string, isSent bool) (title, body string, err error) {
	switch tx.Type {
	case primitives.TransactionTypeTransfer, primitives.TransactionTypeSmartContractCall:
		if isSent {
			return loc.Localize("notification_transfer_sent_title", withSymbol(amount, asset.Symbol)),
				loc.Localize("notification_transfer_sent_body", tx.To), nil
		}
		return loc.Localize("notification_transfer_received_title", withSymbol(amount, asset.Symbol)),
			loc.Localize("notification_transfer_received_body", tx.From), nil

	case primitives.TransactionTypeTransferNFT:
		if isSent {
			return loc.Localize("notification_nft_sent_title"), "", nil
		}
		return loc.Localize("notification_nft_received_title"), "", nil

	case primitives.TransactionTypeTokenApproval:
		return loc.Localize("notification_token_approval_title", asset.Symbol, tx.To), "", nil

	case primitives.TransactionTypeStakeDelegate:
		return loc.Localize("notification_stake_delegate_title", withSymbol(amount, asset.Symbol), tx.To), "", nil

	case primitives.TransactionTypeStakeUndelegate:
		return loc.Localize("notification_stake_undelegate_title", withSymbol(amount, asset.Symbol), tx.To), "", nil

	case primitives.TransactionTypeStakeRedelegate:
		return loc.Localize("notification_stake_redelegate_title", withSymbol(amount, asset.Symbol), tx.To), "", nil

	case primitives.TransactionTypeStakeRewards:
		return loc.Localize("notification_stake_rewards_title", withSymbol(amount, asset.Symbol)), "", nil

	case primitives.TransactionTypeStakeWithdraw:
		return loc.Localize("notification_stake_withdraw_title", withSymbol(amount, asset.Symbol), tx.To), "", nil

	case primitives.TransactionTypeSwap:
		if tx.Metadata == nil || tx.Metadata.Swap == nil {
			return "", "", fmt.Errorf("notification: swap transaction %q missing metadata", tx.ID)
		}
		swap := tx.Metadata.Swap
		fromAsset := c.lookupAsset(assets, swap.FromAsset)
		toAsset := c.lookupAsset(assets, swap.ToAsset)
		fromAmount, err := c.formatter.Value(swap.FromValue, fromAsset.Decimals)
		if err != nil {
			fromAmount = swap.FromValue
		}
		toAmount, err := c.formatter.Value(swap.ToValue, toAsset.Decimals)
		if err != nil {
			toAmount = swap.ToValue
		}
		return loc.Localize("notification_swap_title", fromAsset.Symbol, toAsset.Symbol),
			loc.Localize("notification_swap_body", withSymbol(fromAmount, fromAsset.Symbol), withSymbol(toAmount, toAsset.Symbol)), nil

	case primitives.TransactionTypeAssetActivation:
		// No mapper in this core produces AssetActivation; left unimplemented
		// and test-visible rather than silently dropped.
		return "", "", errs.ErrUnsupportedTransactionType

	default:
		return "", "", errs.ErrUnsupportedTransactionType
	}
}

func withSymbol(amount, symbol string) string {
	return amount + " " + symbol
}
