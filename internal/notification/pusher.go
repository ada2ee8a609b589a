package notification

import (
	"context"

	"github.com/synnergy-network/walletd/internal/primitives"
)

// PushResult is one device token's outcome from a Sender.Send call.
type PushResult struct {
	Token  string
	Failed bool
}

// Sender delivers a batch of push envelopes to the (out-of-scope) transport,
// gorush or otherwise, and reports a per-token outcome for each.
type Sender interface {
	Send(ctx context.Context, notifications []primitives.GorushNotification) ([]PushResult, error)
}

// DeviceDisabler flips a device's push eligibility; satisfied by
// *store.Store.
type DeviceDisabler interface {
	SetDevicePushEnabled(ctx context.Context, deviceID string, enabled bool) error
}

// Envelope pairs a composed notification with the device it targets, so the
// Pusher can disable that specific device on a transport failure.
type Envelope struct {
	DeviceID     string
	Notification primitives.GorushNotification
}

// Pusher sends composed envelopes and disables any device the transport
// reports a delivery failure for (§7: "the transaction remains stored; no
// retry to the dead token").
type Pusher struct {
	sender   Sender
	disabler DeviceDisabler
}

// NewPusher builds a Pusher. disabler may be nil, in which case failed
// tokens are simply not retried by this process (no persistence update).
func NewPusher(sender Sender, disabler DeviceDisabler) *Pusher {
	return &Pusher{sender: sender, disabler: disabler}
}

// Push sends every envelope in one batch and returns the count actually
// delivered.
func (p *Pusher) Push(ctx context.Context, envelopes []Envelope) (int, error) {
	if len(envelopes) == 0 {
		return 0, nil
	}

	notifications := make([]primitives.GorushNotification, len(envelopes))
	deviceByToken := make(map[string]string, len(envelopes))
	for i, e := range envelopes {
		notifications[i] = e.Notification
		if len(e.Notification.Tokens) > 0 {
			deviceByToken[e.Notification.Tokens[0]] = e.DeviceID
		}
	}

	results, err := p.sender.Send(ctx, notifications)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, r := range results {
		if !r.Failed {
			sent++
			continue
		}
		deviceID, ok := deviceByToken[r.Token]
		if !ok || p.disabler == nil {
			continue
		}
		_ = p.disabler.SetDevicePushEnabled(ctx, deviceID, false)
	}
	return sent, nil
}
