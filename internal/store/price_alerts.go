package store

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/synnergy-network/walletd/internal/errs"
	"github.com/synnergy-network/walletd/internal/primitives"
)

// GetDuePriceAlerts returns every PriceAlert whose notified_at is null or
// older than before, the set the price alert engine re-evaluates each run.
func (s *Store) GetDuePriceAlerts(ctx context.Context, before time.Time) ([]primitives.PriceAlert, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, device_id, asset_id, price, price_percent_change, direction, notified_at
		FROM price_alerts
		WHERE notified_at IS NULL OR notified_at < $1`, before)
	if err != nil {
		return nil, fmt.Errorf("store: get due price alerts: %w", errs.ErrStorageUnavailable)
	}
	defer rows.Close()

	var out []primitives.PriceAlert
	for rows.Next() {
		var alert primitives.PriceAlert
		var assetIDStr string
		var price, percentChange *float64
		var direction *string
		if err := rows.Scan(&alert.ID, &alert.DeviceID, &assetIDStr, &price, &percentChange, &direction, &alert.NotifiedAt); err != nil {
			return nil, fmt.Errorf("store: scan price alert: %w", errs.ErrStorageUnavailable)
		}
		assetID, err := primitives.ParseAssetID(assetIDStr)
		if err != nil {
			continue // stored rows are always well-formed; defensive skip only
		}
		alert.AssetID = assetID
		alert.Price = price
		alert.PricePercentChange = percentChange
		if direction != nil {
			dir := primitives.PriceAlertDirection(*direction)
			alert.Direction = &dir
		}
		out = append(out, alert)
	}
	return out, rows.Err()
}

// MarkPriceAlertsNotified stamps notified_at = at on every id in ids.
// Callers mark before publishing the composed notifications so a crash
// between marking and publishing suppresses a re-send rather than
// duplicating it on the next evaluation pass.
func (s *Store) MarkPriceAlertsNotified(ctx context.Context, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE price_alerts SET notified_at = $1 WHERE id = ANY($2)`, at, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("store: mark price alerts notified: %w", errs.ErrStorageUnavailable)
	}
	return nil
}
