package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/synnergy-network/walletd/internal/errs"
	"github.com/synnergy-network/walletd/internal/primitives"
)

// GorushSender posts a batch of envelopes to a gorush push server's
// /api/push endpoint. The response schema gorush returns (per-log success
// detail) is transport internals and out of scope here: a non-2xx response
// fails every token in the batch, a 2xx succeeds every token in the batch.
type GorushSender struct {
	endpoint string
	client   *http.Client
}

// NewGorushSender builds a GorushSender posting to endpoint (e.g.
// "http://localhost:8088/api/push") with the given per-request timeout.
func NewGorushSender(endpoint string, timeout time.Duration) *GorushSender {
	return &GorushSender{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Send implements Sender.
func (g *GorushSender) Send(ctx context.Context, notifications []primitives.GorushNotification) ([]PushResult, error) {
	body, err := json.Marshal(primitives.NotificationsPayload{Notifications: notifications})
	if err != nil {
		return nil, fmt.Errorf("notification: marshal gorush payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("notification: build gorush request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("notification: gorush request: %w", errs.ErrPushTransportUnavailable)
	}
	defer resp.Body.Close()

	failed := resp.StatusCode < 200 || resp.StatusCode >= 300
	results := make([]PushResult, 0, len(notifications))
	for _, n := range notifications {
		for _, tok := range n.Tokens {
			results = append(results, PushResult{Token: tok, Failed: failed})
		}
	}
	return results, nil
}
