package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/synnergy-network/walletd/internal/errs"
	"github.com/synnergy-network/walletd/internal/primitives"
)

// GetDevicesByIDs returns every registered device among ids; ids with no
// matching row are simply absent from the result.
func (s *Store) GetDevicesByIDs(ctx context.Context, ids []string) ([]primitives.Device, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, token, platform, locale, currency, is_push_enabled
		FROM devices WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("store: get devices: %w", errs.ErrStorageUnavailable)
	}
	defer rows.Close()

	var out []primitives.Device
	for rows.Next() {
		var d primitives.Device
		if err := rows.Scan(&d.ID, &d.Token, &d.Platform, &d.Locale, &d.Currency, &d.IsPushEnabled); err != nil {
			return nil, fmt.Errorf("store: scan device: %w", errs.ErrStorageUnavailable)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// SetDevicePushEnabled flips a device's push eligibility, used by the pusher
// to disable a device whose token the push transport rejected.
func (s *Store) SetDevicePushEnabled(ctx context.Context, deviceID string, enabled bool) error {
	_, err := s.db.ExecContext(ctx, `UPDATE devices SET is_push_enabled = $1 WHERE id = $2`, enabled, deviceID)
	if err != nil {
		return fmt.Errorf("store: set device push enabled: %w", errs.ErrStorageUnavailable)
	}
	return nil
}

// GetFiatRate returns the USD-relative exchange rate for currency, falling
// back to 1.0 (i.e. treat as USD) when no rate row exists: fiat on/off-ramp
// providers are out of this core's scope, but a missing rate must degrade
// gracefully rather than block a price alert notification.
func (s *Store) GetFiatRate(ctx context.Context, currency string) (float64, error) {
	var rate float64
	row := s.db.QueryRowContext(ctx, `SELECT rate FROM fiat_rates WHERE symbol = $1`, currency)
	err := row.Scan(&rate)
	if errors.Is(err, sql.ErrNoRows) {
		return 1.0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("store: get fiat rate: %w", errs.ErrStorageUnavailable)
	}
	return rate, nil
}
