package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/synnergy-network/walletd/internal/errs"
	"github.com/synnergy-network/walletd/internal/primitives"
)

// GetParserState loads the persisted cursor for chain, or (zero, false, nil)
// if none has been observed yet.
func (s *Store) GetParserState(ctx context.Context, chain primitives.Chain) (primitives.ParserState, bool, error) {
	var st primitives.ParserState
	var awaitBlocks, parallelBlocks int64
	var timeoutBetween, timeoutLatest int64

	row := s.db.QueryRowContext(ctx, `
		SELECT is_enabled, current_block, latest_block, await_blocks, parallel_blocks,
		 timeout_between_blocks_ms, timeout_latest_block_ms
		FROM parser_states WHERE chain = $1`, chain.String())
	err := row.Scan(&st.IsEnabled, &st.CurrentBlock, &st.LatestBlock, &awaitBlocks, &parallelBlocks,
		&timeoutBetween, &timeoutLatest)
	if errors.Is(err, sql.ErrNoRows) {
		return primitives.ParserState{}, false, nil
	}
	if err != nil {
		return primitives.ParserState{}, false, fmt.Errorf("store: get parser state: %w", errs.ErrStorageUnavailable)
	}

	st.Chain = chain
	st.AwaitBlocks = uint64(awaitBlocks)
	st.ParallelBlocks = uint64(parallelBlocks)
	st.TimeoutBetweenBlocks = time.Duration(timeoutBetween) * time.Millisecond
	st.TimeoutLatestBlock = time.Duration(timeoutLatest) * time.Millisecond
	return st, true, nil
}

// UpsertParserState persists st, creating the row on first observation and
// otherwise updating current_block/latest_block only.
func (s *Store) UpsertParserState(ctx context.Context, st primitives.ParserState) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO parser_states (chain, is_enabled, current_block, latest_block, await_blocks,
		 parallel_blocks, timeout_between_blocks_ms, timeout_latest_block_ms)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (chain) DO UPDATE SET
			current_block = EXCLUDED.current_block,
			latest_block = EXCLUDED.latest_block`,
		st.Chain.String(), st.IsEnabled, st.CurrentBlock, st.LatestBlock, st.AwaitBlocks,
		st.ParallelBlocks, st.TimeoutBetweenBlocks.Milliseconds(), st.TimeoutLatestBlock.Milliseconds())
	if err != nil {
		return fmt.Errorf("store: upsert parser state: %w", errs.ErrStorageUnavailable)
	}
	return nil
}
