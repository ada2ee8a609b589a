package consumer

import "github.com/synnergy-network/walletd/internal/primitives"

// deviceStreamKey identifies one device's activity digest for one wallet
// within a single consumed payload.
type deviceStreamKey struct {
	deviceID string
	walletID string
}

// DeviceStreamAggregator folds a payload's per-(device, wallet) transaction
// and asset touches into one DeviceStreamPayload per key, so a device that
// owns several matching transactions in the same window gets a single
// digest event instead of one per transaction.
type DeviceStreamAggregator struct {
	entries map[deviceStreamKey]*primitives.DeviceStreamPayload
	order   []deviceStreamKey
}

// NewDeviceStreamAggregator builds an empty aggregator.
func NewDeviceStreamAggregator() *DeviceStreamAggregator {
	return &DeviceStreamAggregator{entries: make(map[deviceStreamKey]*primitives.DeviceStreamPayload)}
}

// Add records that tx touched sub's (device, wallet) pair.
func (a *DeviceStreamAggregator) Add(sub primitives.Subscription, tx primitives.Transaction) {
	key := deviceStreamKey{deviceID: sub.DeviceID, walletID: sub.WalletID}
	entry, ok := a.entries[key]
	if !ok {
		entry = &primitives.DeviceStreamPayload{
			DeviceID: sub.DeviceID,
			Event: primitives.DeviceStreamEvent{
				Type:     primitives.DeviceStreamEventTypeTransactions,
				WalletID: sub.WalletID,
			},
		}
		a.entries[key] = entry
		a.order = append(a.order, key)
	}
	entry.Event.TransactionIDs = appendUniqueString(entry.Event.TransactionIDs, tx.ID)
	for _, id := range tx.AssetIDs() {
		entry.Event.AssetIDs = appendUniqueString(entry.Event.AssetIDs, id.String())
	}
}

// Events returns the accumulated digests in first-seen order.
func (a *DeviceStreamAggregator) Events() []primitives.DeviceStreamPayload {
	out := make([]primitives.DeviceStreamPayload, 0, len(a.order))
	for _, key := range a.order {
		out = append(out, *a.entries[key])
	}
	return out
}

func appendUniqueString(s []string, v string) []string {
	for _, existing := range s {
		if existing == v {
			return s
		}
	}
	return append(s, v)
}
