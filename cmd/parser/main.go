// Command parser runs one chain's cursor engine: it advances that chain's
// block window and publishes decoded transactions onto StoreTransactions.
// One process is started per configured (chain, network) pair, mirroring
// the teacher's one-binary-per-concern cmd/ layout.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/synnergy-network/walletd/internal/broker"
	"github.com/synnergy-network/walletd/internal/chain"
	"github.com/synnergy-network/walletd/internal/chain/cosmos"
	"github.com/synnergy-network/walletd/internal/chain/evm"
	"github.com/synnergy-network/walletd/internal/chain/httpprovider"
	"github.com/synnergy-network/walletd/internal/chain/solana"
	"github.com/synnergy-network/walletd/internal/chain/sui"
	"github.com/synnergy-network/walletd/internal/chain/ton"
	"github.com/synnergy-network/walletd/internal/chain/tron"
	"github.com/synnergy-network/walletd/internal/config"
	"github.com/synnergy-network/walletd/internal/logging"
	"github.com/synnergy-network/walletd/internal/parser"
	"github.com/synnergy-network/walletd/internal/primitives"
	"github.com/synnergy-network/walletd/internal/store"
)

func main() {
	var (
		configPath = flag.String("config", envOr("WALLETD_CONFIG", "config.yaml"), "path to the YAML config file")
		chainType  = flag.String("chain", os.Getenv("WALLETD_CHAIN"), "chain family to parse, e.g. ethereum")
		networkID  = flag.String("network", os.Getenv("WALLETD_NETWORK"), "network id, e.g. 1 (mainnet)")
		rpcURLs    = flag.String("rpc-urls", os.Getenv("WALLETD_RPC_URLS"), "comma-separated RPC endpoint URLs")
	)
	flag.Parse()

	log := logging.L()
	if *chainType == "" {
		log.Fatal("parser: --chain is required")
	}
	c := primitives.Chain{Type: primitives.ChainType(*chainType), NetworkID: *networkID}

	cacher := config.NewCacher(*configPath, 30*time.Second)
	if err := cacher.Load(); err != nil {
		log.WithError(err).Fatal("parser: load config")
	}
	cacher.Start()
	defer cacher.Stop()
	logging.SetLevel(cacher.Snapshot().LogLevel)

	st, err := store.Open(cacher.Snapshot().PostgresDSN, store.DefaultOptions())
	if err != nil {
		log.WithError(err).Fatal("parser: open store")
	}
	defer st.Close()

	b, err := broker.Dial(cacher.Snapshot().RabbitMQURL)
	if err != nil {
		log.WithError(err).Fatal("parser: dial broker")
	}
	defer b.Close()

	urls := splitCSV(*rpcURLs)
	pool := httpprovider.NewEndpointPool(urls, 10*time.Second, 10)
	provider, err := newProvider(c, pool)
	if err != nil {
		log.WithError(err).Fatal("parser: build provider")
	}

	limits := func() parser.Limits {
		cl := cacher.Snapshot().ChainLimitsFor(c.String())
		return parser.Limits{
			AwaitBlocks:          cl.AwaitBlocks,
			ParallelBlocks:       cl.ParallelBlocks,
			TimeoutBetweenBlocks: cl.TimeoutBetweenBlocks,
			TimeoutLatestBlock:   cl.TimeoutLatestBlock,
			MinTransferAmount:    cl.MinTransferAmount,
		}
	}

	p := parser.New(c, provider, st, b, limits)

	ctx, cancel := context.WithCancel(context.Background())
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Info("parser: shutdown signal received")
		cancel()
	}()

	log.WithField("chain", c.String()).Info("parser: starting")
	if err := p.Run(ctx); err != nil {
		log.WithError(err).Fatal("parser: run")
	}
}

// newProvider builds the Provider for c's chain family. The arguments some
// families take beyond the endpoint pool are left at their zero value: the
// EVM provider gets a zero minimum transfer amount and no DEX routers, so
// router-specific swap decoding is off, and the Cosmos provider gets an
// empty native denom. None of the provider packages reads these from the
// environment.
func newProvider(c primitives.Chain, pool *httpprovider.EndpointPool) (chain.Provider, error) {
	switch c.Type {
	case primitives.ChainTypeEthereum:
		return evm.NewProvider(c, pool, 0, nil), nil
	case primitives.ChainTypeSolana:
		return solana.NewProvider(c, pool), nil
	case primitives.ChainTypeCosmos:
		return cosmos.NewProvider(c, pool, ""), nil
	case primitives.ChainTypeSui:
		return sui.NewProvider(c, pool), nil
	case primitives.ChainTypeTon:
		return ton.NewProvider(c, pool), nil
	case primitives.ChainTypeTron:
		return tron.NewProvider(c, pool), nil
	default:
		return nil, &unsupportedChainError{chain: c}
	}
}

type unsupportedChainError struct{ chain primitives.Chain }

func (e *unsupportedChainError) Error() string {
	return "parser: no provider registered for chain " + e.chain.String()
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
