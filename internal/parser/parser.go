// Package parser implements the per-chain cursor engine: it advances one
// chain's cursor and publishes decoded transactions as soon as they're
// available.
package parser

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/synnergy-network/walletd/internal/broker"
	"github.com/synnergy-network/walletd/internal/chain"
	"github.com/synnergy-network/walletd/internal/logging"
	"github.com/synnergy-network/walletd/internal/primitives"
)

// Publisher is the narrow broker dependency the parser needs: messages are
// routed by the chain's canonical string form. Satisfied by *broker.Broker.
type Publisher interface {
	PublishWithRoutingKey(ctx context.Context, queue, routingKey string, payload any) error
}

// StateStore is the narrow persistence dependency the parser needs.
// Satisfied by *store.Store.
type StateStore interface {
	GetParserState(ctx context.Context, chain primitives.Chain) (primitives.ParserState, bool, error)
	UpsertParserState(ctx context.Context, st primitives.ParserState) error
}

// refreshInterval caps how many blocks a single Fetching run advances
// before forcing a latest-block refresh.
const refreshInterval = 100

// Parser advances the cursor for one chain. It is a long-lived task; Run
// blocks until ctx is cancelled.
type Parser struct {
	chain     primitives.Chain
	provider  chain.Provider
	store     StateStore
	publisher Publisher
	limits    func() Limits
}

// Limits mirrors internal/config's per-chain ChainLimits, decoupled from
// that package so parser doesn't import config directly (limits are
// resolved by the caller from the live config cache on every poll).
type Limits struct {
	AwaitBlocks          uint64
	ParallelBlocks       uint64
	TimeoutBetweenBlocks time.Duration
	TimeoutLatestBlock   time.Duration
	MinTransferAmount    uint64
}

// New builds a Parser for chain c. limits is called once per loop
// iteration so config hot-reloads (including MinTransferAmount) take effect
// without restarting the task.
func New(c primitives.Chain, provider chain.Provider, store StateStore, publisher Publisher, limits func() Limits) *Parser {
	return &Parser{chain: c, provider: provider, store: store, publisher: publisher, limits: limits}
}

// Run executes the state machine until ctx is cancelled.
func (p *Parser) Run(ctx context.Context) error {
	log := logging.WithChain(p.chain.String())

	st, ok, err := p.store.GetParserState(ctx, p.chain)
	if err != nil {
		return err
	}
	if !ok {
		st = primitives.ParserState{Chain: p.chain, IsEnabled: true}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		limits := p.limits()
		st.AwaitBlocks = limits.AwaitBlocks
		st.ParallelBlocks = limits.ParallelBlocks
		st.TimeoutBetweenBlocks = limits.TimeoutBetweenBlocks
		st.TimeoutLatestBlock = limits.TimeoutLatestBlock

		if !st.IsEnabled {
			sleep(ctx, limits.TimeoutLatestBlock)
			continue
		}

		latest, err := p.provider.GetLatestBlock(ctx)
		if err != nil {
			log.WithError(err).Warn("parser: get latest block failed")
			sleep(ctx, 5*limits.TimeoutLatestBlock)
			continue
		}
		st.LatestBlock = latest

		// Initial: no historical replay on first observation.
		if st.CurrentBlock == 0 {
			st.CurrentBlock = latest
			if err := p.store.UpsertParserState(ctx, st); err != nil {
				return err
			}
			continue
		}

		if st.CurrentBlock+st.AwaitBlocks >= st.LatestBlock {
			sleep(ctx, limits.TimeoutLatestBlock)
			continue
		}

		advanced, err := p.fetchWindow(ctx, &st, limits.MinTransferAmount)
		if err != nil {
			log.WithError(err).Warn("parser: fetch window failed")
			sleep(ctx, limits.TimeoutBetweenBlocks)
			continue
		}
		if !advanced {
			continue // refresh latest immediately
		}
	}
}

// fetchWindow runs one Fetching iteration: compute [start, end], fetch all
// blocks concurrently (all-or-nothing), publish, and advance the cursor.
func (p *Parser) fetchWindow(ctx context.Context, st *primitives.ParserState, minTransferAmount uint64) (bool, error) {
	start := st.CurrentBlock + 1
	end := start + st.ParallelBlocks - 1
	if cap := st.LatestBlock - st.AwaitBlocks; end > cap {
		end = cap
	}
	if end < start {
		return false, nil
	}
	if end-start+1 > refreshInterval {
		end = start + refreshInterval - 1
	}

	blockNumbers := make([]uint64, 0, end-start+1)
	for n := start; n <= end; n++ {
		blockNumbers = append(blockNumbers, n)
	}

	results := make([][]primitives.Transaction, len(blockNumbers))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, n := range blockNumbers {
		i, n := i, n
		group.Go(func() error {
			txs, err := p.provider.GetTransactions(groupCtx, n)
			if err != nil {
				return err
			}
			results[i] = txs
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return false, err
	}

	var allTxs []primitives.Transaction
	for _, txs := range results {
		allTxs = append(allTxs, dustFilter(txs, minTransferAmount)...)
	}

	payload := primitives.TransactionsPayload{Chain: p.chain, Blocks: blockNumbers, Transactions: allTxs}
	if err := p.publisher.PublishWithRoutingKey(ctx, broker.QueueStoreTransactions, p.chain.String(), payload); err != nil {
		return false, err
	}

	st.CurrentBlock = end
	if err := p.store.UpsertParserState(ctx, *st); err != nil {
		return false, err
	}
	return true, nil
}

// dustFilter drops native transfers below minTransferAmount before
// publishing. Non-native and non-transfer transactions pass through
// untouched.
func dustFilter(txs []primitives.Transaction, minTransferAmount uint64) []primitives.Transaction {
	if minTransferAmount == 0 {
		return txs
	}
	out := make([]primitives.Transaction, 0, len(txs))
	for _, t := range txs {
		if t.Type == primitives.TransactionTypeTransfer && t.AssetID.IsNative() {
			v, ok := parseDecimalUint(t.Value)
			if ok && v < minTransferAmount {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

func parseDecimalUint(s string) (uint64, bool) {
	var n uint64
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + uint64(r-'0')
	}
	return n, true
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		d = time.Second
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
