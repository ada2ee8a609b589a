// Package config provides a reusable, TTL-refreshed configuration cacher for
// the ingestion/classification/fan-out pipeline. It is adapted from the
// teacher's pkg/config loader: where that package held one static AppConfig
// global mutated in place, this package swaps an atomic pointer so readers
// never observe a partially-written config.
package config

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/viper"

	"github.com/synnergy-network/walletd/pkg/utils"
)

// ChainLimits holds the per-chain tunables a Parser consults on every loop
// iteration.
type ChainLimits struct {
	MinTransferAmount    uint64        `mapstructure:"min_transfer_amount"`
	OutdatedThreshold    time.Duration `mapstructure:"outdated_threshold"`
	AwaitBlocks          uint64        `mapstructure:"await_blocks"`
	ParallelBlocks       uint64        `mapstructure:"parallel_blocks"`
	TimeoutBetweenBlocks time.Duration `mapstructure:"timeout_between_blocks"`
	TimeoutLatestBlock   time.Duration `mapstructure:"timeout_latest_block"`
}

// RewardsAbuseConfig mirrors the sibling rewards-abuse engine's config shape;
// no component in this core reads it, it's carried for completeness.
type RewardsAbuseConfig struct {
	DisableThreshold            float64 `mapstructure:"disable_threshold"`
	AttemptPenalty              float64 `mapstructure:"attempt_penalty"`
	VerifiedThresholdMultiplier float64 `mapstructure:"verified_threshold_multiplier"`
	LookbackDays                int     `mapstructure:"lookback_days"`
	MinReferralsToEvaluate      int     `mapstructure:"min_referrals_to_evaluate"`
}

// Config is the unified configuration surface recognized by this core.
type Config struct {
	TransactionsMinAmountUsd float64                `mapstructure:"transactions_min_amount_usd"`
	PriceAlertIncreasePct    float64                `mapstructure:"price_alert_increase_pct"`
	PriceAlertDecreasePct    float64                `mapstructure:"price_alert_decrease_pct"`
	ChainLimits              map[string]ChainLimits `mapstructure:"chain_limits"`
	RewardsAbuse             RewardsAbuseConfig      `mapstructure:"rewards_abuse"`

	RabbitMQURL    string `mapstructure:"rabbitmq_url"`
	PostgresDSN    string `mapstructure:"postgres_dsn"`
	PushGatewayURL string `mapstructure:"push_gateway_url"`
	LogLevel       string `mapstructure:"log_level"`
}

// defaultChainLimits applies when a chain has no explicit entry in
// ChainLimits, matching the teacher's fallback-default idiom in pkg/config.
var defaultChainLimits = ChainLimits{
	MinTransferAmount:    0,
	OutdatedThreshold:    30 * time.Minute,
	AwaitBlocks:          1,
	ParallelBlocks:       10,
	TimeoutBetweenBlocks: time.Second,
	TimeoutLatestBlock:   5 * time.Second,
}

// Cacher serves a TTL-refreshed Config snapshot. Refresh is performed by a
// single writer goroutine (Start); all readers call Snapshot, which is
// lock-free (atomic.Pointer load).
type Cacher struct {
	path     string
	ttl      time.Duration
	current  atomic.Pointer[Config]
	stopOnce sync.Once
	stop     chan struct{}
}

// NewCacher constructs a Cacher that reads its YAML config file from path and
// refreshes every ttl. Call Load once before Start to populate the initial
// snapshot synchronously.
func NewCacher(path string, ttl time.Duration) *Cacher {
	return &Cacher{path: path, ttl: ttl, stop: make(chan struct{})}
}

// Load reads the config file synchronously and stores the result, returning
// any error from the read (ErrConfigMissing-classed at the call site).
func (c *Cacher) Load() error {
	v := viper.New()
	v.SetConfigFile(c.path)
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		return utils.Wrap(err, "config: read")
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return utils.Wrap(err, "config: unmarshal")
	}
	c.current.Store(&cfg)
	return nil
}

// Start launches the background TTL-refresh loop. It returns immediately;
// call Stop to terminate it.
func (c *Cacher) Start() {
	go func() {
		ticker := time.NewTicker(c.ttl)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := c.Load(); err != nil {
					// A failed refresh keeps serving the last good snapshot;
					// ConfigMissing is not fatal to already-running consumers.
					continue
				}
			case <-c.stop:
				return
			}
		}
	}()
}

// Stop terminates the refresh loop. Safe to call multiple times.
func (c *Cacher) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// Snapshot returns the current Config. Safe for concurrent use; never blocks.
func (c *Cacher) Snapshot() *Config {
	return c.current.Load()
}

// ChainLimitsFor returns the tunables for chain, falling back to
// defaultChainLimits when unset.
func (cfg *Config) ChainLimitsFor(chain string) ChainLimits {
	if cfg == nil {
		return defaultChainLimits
	}
	if l, ok := cfg.ChainLimits[chain]; ok {
		return l
	}
	return defaultChainLimits
}
