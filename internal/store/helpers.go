package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/synnergy-network/walletd/internal/errs"
	"github.com/synnergy-network/walletd/internal/primitives"
)

func marshalMetadata(m *primitives.Metadata) ([]byte, error) {
	return json.Marshal(m)
}

// classifyWriteError maps a raw driver error to the store's taxonomy: a
// unique-violation is a recoverable conflict the store itself resolves
// (callers treat it as success), anything else is unavailable.
func classifyWriteError(err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return nil
	}
	return fmt.Errorf("store: write: %w", errs.ErrStorageUnavailable)
}

// isUniqueViolation recognizes Postgres error code 23505 without requiring
// a type assertion on *pq.Error, so a conflict surfaced via ON CONFLICT DO
// NOTHING being bypassed (e.g. a partial index miss) still degrades
// gracefully instead of failing the whole batch.
func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "23505") || strings.Contains(err.Error(), "duplicate key")
}
