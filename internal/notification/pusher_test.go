package notification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synnergy-network/walletd/internal/primitives"
)

type fakeSender struct {
	results []PushResult
}

func (f *fakeSender) Send(ctx context.Context, notifications []primitives.GorushNotification) ([]PushResult, error) {
	return f.results, nil
}

type fakeDisabler struct {
	disabled []string
}

func (f *fakeDisabler) SetDevicePushEnabled(ctx context.Context, deviceID string, enabled bool) error {
	if !enabled {
		f.disabled = append(f.disabled, deviceID)
	}
	return nil
}

func TestPusher_DisablesFailedDeviceOnly(t *testing.T) {
	sender := &fakeSender{results: []PushResult{
		{Token: "tok-good", Failed: false},
		{Token: "tok-bad", Failed: true},
	}}
	disabler := &fakeDisabler{}
	p := NewPusher(sender, disabler)

	envelopes := []Envelope{
		{DeviceID: "d-good", Notification: primitives.GorushNotification{Tokens: []string{"tok-good"}}},
		{DeviceID: "d-bad", Notification: primitives.GorushNotification{Tokens: []string{"tok-bad"}}},
	}

	sent, err := p.Push(context.Background(), envelopes)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []string{"d-bad"}, disabler.disabled)
}

func TestPusher_EmptyBatchIsNoop(t *testing.T) {
	p := NewPusher(&fakeSender{}, &fakeDisabler{})
	sent, err := p.Push(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
}
