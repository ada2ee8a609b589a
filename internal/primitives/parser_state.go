package primitives

import (
	"fmt"
	"time"
)

// ParserState is the persisted cursor for one chain's Parser.
// Invariant: 0 <= CurrentBlock <= LatestBlock; AwaitBlocks >= 0.
type ParserState struct {
	Chain Chain
	IsEnabled bool
	CurrentBlock uint64
	LatestBlock uint64
	AwaitBlocks uint64
	ParallelBlocks uint64
	TimeoutBetweenBlocks time.Duration
	TimeoutLatestBlock time.Duration
}

// Validate checks the ParserState invariant.
func (s ParserState) Validate() error {
	if s.CurrentBlock > s.LatestBlock {
		return fmt.Errorf("primitives: parser state invariant violated: current_block %d > latest_block %d", s.CurrentBlock, s.LatestBlock)
	}
	return nil
}
