package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/synnergy-network/walletd/internal/errs"
	"github.com/synnergy-network/walletd/internal/logging"
)

// ConsumerConfig governs nack-with-requeue behavior for Consume.
type ConsumerConfig struct {
	MaxRetries   int
	RequeueDelay time.Duration
}

// Handler processes one decoded message payload. Returning an error nacks
// the delivery per ConsumerConfig; returning nil acks it.
type Handler func(ctx context.Context, payload []byte) error

// Broker is the typed queue/exchange abstraction used across this core. A
// value shares its underlying connection: cloning/copying is not meaningful
// here, callers share one *Broker the way the teacher shares one connection
// pool handle across tasks.
type Broker struct {
	conn *amqp.Connection

	mu      sync.Mutex
	channel *amqp.Channel
}

// Dial connects to url and declares every queue/exchange this core uses.
func Dial(url string) (*Broker, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("broker: dial: %w", errs.ErrBroker)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("broker: open channel: %w", errs.ErrBroker)
	}

	b := &Broker{conn: conn, channel: ch}
	if err := b.declareTopology(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return b, nil
}

func (b *Broker) declareTopology() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, q := range AllQueues {
		if _, err := b.channel.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return fmt.Errorf("broker: declare queue %q: %w", q, errs.ErrBroker)
		}
	}
	if err := b.channel.ExchangeDeclare(ExchangeNewAddresses, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("broker: declare exchange %q: %w", ExchangeNewAddresses, errs.ErrBroker)
	}
	return nil
}

// Close shuts down the channel and connection.
func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_ = b.channel.Close()
	return b.conn.Close()
}

// Publish enqueues a single JSON-encoded message on queue.
func (b *Broker) Publish(ctx context.Context, queue string, payload any) error {
	return b.PublishWithRoutingKey(ctx, queue, "", payload)
}

// PublishBatch enqueues N messages on queue.
func (b *Broker) PublishBatch(ctx context.Context, queue string, payloads []any) error {
	for _, p := range payloads {
		if err := b.Publish(ctx, queue, p); err != nil {
			return err
		}
	}
	return nil
}

// PublishWithRoutingKey enqueues a JSON-encoded message directly on queue
// using the default exchange with routingKey == queue name convention, or a
// distinct routing key for chain-sharded consumption.
func (b *Broker) PublishWithRoutingKey(ctx context.Context, queue, routingKey string, payload any) error {
	return b.PublishToExchangeWithRoutingKey(ctx, "", firstNonEmpty(routingKey, queue), payload)
}

// PublishToExchangeWithRoutingKey enqueues a JSON-encoded message on the
// named exchange (empty string = default exchange) using routingKey.
func (b *Broker) PublishToExchangeWithRoutingKey(ctx context.Context, exchange, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("broker: marshal payload: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	err = b.channel.PublishWithContext(ctx, exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
	})
	if err != nil {
		return fmt.Errorf("broker: publish to %q/%q: %w", exchange, routingKey, errs.ErrBroker)
	}
	return nil
}

// Consume runs handler over every delivery on queue until ctx is cancelled,
// at-least-once with nack-with-requeue-up-to-N per cfg: beyond MaxRetries,
// route to NotificationsFailed.
func (b *Broker) Consume(ctx context.Context, queue string, cfg ConsumerConfig, handler Handler) error {
	ch, err := b.conn.Channel()
	if err != nil {
		return fmt.Errorf("broker: open consume channel: %w", errs.ErrBroker)
	}
	defer ch.Close()

	deliveries, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("broker: consume %q: %w", queue, errs.ErrBroker)
	}

	log := logging.WithQueue(queue)
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			b.handleDelivery(ctx, d, cfg, handler, log)
		}
	}
}

func (b *Broker) handleDelivery(ctx context.Context, d amqp.Delivery, cfg ConsumerConfig, handler Handler, log *logrus.Entry) {
	err := handler(ctx, d.Body)
	if err == nil {
		_ = d.Ack(false)
		return
	}

	retries := deliveryRetryCount(d)
	if retries >= cfg.MaxRetries {
		log.WithField("retries", retries).WithError(err).Warn("broker: max retries exceeded, routing to dead letter")
		_ = b.publishDeadLetter(ctx, d, err)
		_ = d.Ack(false)
		return
	}

	if cfg.RequeueDelay > 0 {
		time.Sleep(cfg.RequeueDelay)
	}
	_ = d.Nack(false, true)
}

func (b *Broker) publishDeadLetter(ctx context.Context, d amqp.Delivery, cause error) error {
	return b.Publish(ctx, QueueNotificationsFailed, map[string]any{
		"original_body": string(d.Body),
		"error":         cause.Error(),
	})
}

// deliveryRetryCount returns 1 for a delivery RabbitMQ has flagged as
// redelivered and 0 otherwise. The redelivered flag carries no count, and
// amqp091-go exposes no retry counter, so this never exceeds 1.
func deliveryRetryCount(d amqp.Delivery) int {
	if d.Redelivered {
		return 1
	}
	return 0
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
