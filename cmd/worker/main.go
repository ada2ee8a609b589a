// Command worker runs the downstream half of the pipeline: it drains the
// consumer queues a parser instance feeds (StoreTransactions, FetchAssets,
// StoreAssetsAssociations), pushes composed notifications to the device
// transport, and evaluates price alerts on a fixed interval. One worker
// process serves every chain; the queues themselves are the chain-sharding
// boundary.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/synnergy-network/walletd/internal/broker"
	"github.com/synnergy-network/walletd/internal/config"
	"github.com/synnergy-network/walletd/internal/consumer"
	"github.com/synnergy-network/walletd/internal/logging"
	"github.com/synnergy-network/walletd/internal/notification"
	"github.com/synnergy-network/walletd/internal/pricealert"
	"github.com/synnergy-network/walletd/internal/primitives"
	"github.com/synnergy-network/walletd/internal/store"
)

// priceAlertEvalInterval is how often the price alert engine re-scans for
// due alerts; independent of any per-chain parser cadence.
const priceAlertEvalInterval = time.Minute

func main() {
	var (
		configPath  = flag.String("config", envOr("WALLETD_CONFIG", "config.yaml"), "path to the YAML config file")
		gorushURL   = flag.String("gorush-url", envOr("WALLETD_GORUSH_URL", "http://localhost:8088/api/push"), "gorush /api/push endpoint")
		retries     = flag.Int("max-retries", 5, "per-delivery requeue attempts before dead-lettering")
		requeueWait = flag.Duration("requeue-delay", 2*time.Second, "delay before nacking a failed delivery for requeue")
	)
	flag.Parse()

	log := logging.L()

	cacher := config.NewCacher(*configPath, 30*time.Second)
	if err := cacher.Load(); err != nil {
		log.WithError(err).Fatal("worker: load config")
	}
	cacher.Start()
	defer cacher.Stop()
	logging.SetLevel(cacher.Snapshot().LogLevel)

	st, err := store.Open(cacher.Snapshot().PostgresDSN, store.DefaultOptions())
	if err != nil {
		log.WithError(err).Fatal("worker: open store")
	}
	defer st.Close()

	b, err := broker.Dial(cacher.Snapshot().RabbitMQURL)
	if err != nil {
		log.WithError(err).Fatal("worker: dial broker")
	}
	defer b.Close()

	composer := notification.NewComposer(nil)
	pusher := notification.NewPusher(notification.NewGorushSender(*gorushURL, 10*time.Second), st)

	txConsumer := consumer.NewStoreTransactionsConsumer(
		st, st, st, st, st, b, composer,
		func() float64 { return cacher.Snapshot().TransactionsMinAmountUsd },
		func(c primitives.Chain) time.Duration { return cacher.Snapshot().ChainLimitsFor(c.String()).OutdatedThreshold },
		nil,
	)
	fetchConsumer := consumer.NewFetchAssetsConsumer(noopFetcher{}, st)
	assetsAddrConsumer := consumer.NewStoreAssetsAddressesConsumer(st)

	alertEngine := pricealert.NewEngine(st, st, st, st, b, nil, func() pricealert.Rules {
		cfg := cacher.Snapshot()
		return pricealert.Rules{IncreasePct: cfg.PriceAlertIncreasePct, DecreasePct: cfg.PriceAlertDecreasePct}
	})

	cfg := broker.ConsumerConfig{MaxRetries: *retries, RequeueDelay: *requeueWait}

	ctx, cancel := context.WithCancel(context.Background())
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Info("worker: shutdown signal received")
		cancel()
	}()

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return b.Consume(gctx, broker.QueueStoreTransactions, cfg, func(ctx context.Context, body []byte) error {
			var payload primitives.TransactionsPayload
			if err := json.Unmarshal(body, &payload); err != nil {
				return err
			}
			_, err := txConsumer.Process(ctx, payload)
			return err
		})
	})

	group.Go(func() error {
		return b.Consume(gctx, broker.QueueFetchAssets, cfg, func(ctx context.Context, body []byte) error {
			var payload primitives.FetchAssetsPayload
			if err := json.Unmarshal(body, &payload); err != nil {
				return err
			}
			return fetchConsumer.Process(ctx, payload)
		})
	})

	group.Go(func() error {
		return b.Consume(gctx, broker.QueueStoreAssetsAssociations, cfg, func(ctx context.Context, body []byte) error {
			var payload primitives.AssetsAddressPayload
			if err := json.Unmarshal(body, &payload); err != nil {
				return err
			}
			return assetsAddrConsumer.Process(ctx, payload)
		})
	})

	group.Go(func() error {
		return consumePushQueue(gctx, b, broker.QueueNotificationsTransactions, cfg, pusher)
	})
	group.Go(func() error {
		return consumePushQueue(gctx, b, broker.QueueNotificationsPriceAlerts, cfg, pusher)
	})

	group.Go(func() error {
		ticker := time.NewTicker(priceAlertEvalInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if n, err := alertEngine.Evaluate(gctx); err != nil {
					log.WithError(err).Warn("worker: price alert evaluation failed")
				} else if n > 0 {
					log.WithField("triggered", n).Info("worker: price alerts evaluated")
				}
			}
		}
	})

	log.Info("worker: starting")
	if err := group.Wait(); err != nil {
		log.WithError(err).Fatal("worker: fatal error")
	}
}

// consumePushQueue drains a notification queue and hands each payload's
// envelopes to pusher as one batch, keyed by the device the composer
// targeted.
func consumePushQueue(ctx context.Context, b *broker.Broker, queue string, cfg broker.ConsumerConfig, pusher *notification.Pusher) error {
	return b.Consume(ctx, queue, cfg, func(ctx context.Context, body []byte) error {
		var payload primitives.NotificationsPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			return err
		}
		if payload.IsEmpty() {
			return nil
		}
		envelopes := make([]notification.Envelope, len(payload.Notifications))
		for i, n := range payload.Notifications {
			deviceID := ""
			if len(n.Tokens) > 0 {
				deviceID = n.Tokens[0]
			}
			envelopes[i] = notification.Envelope{DeviceID: deviceID, Notification: n}
		}
		_, err := pusher.Push(ctx, envelopes)
		return err
	})
}

// noopFetcher is a placeholder AssetMetadataFetcher: resolving asset
// metadata/price from a chain-specific on-chain/off-chain source is a
// per-deployment concern (price oracle, DEX pool reader, CEX API), each
// wired independently of this daemon's queue-draining responsibilities.
type noopFetcher struct{}

func (noopFetcher) Fetch(ctx context.Context, id primitives.AssetID) (primitives.Asset, primitives.AssetPrice, error) {
	return primitives.Asset{ID: id}, primitives.AssetPrice{AssetID: id}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
