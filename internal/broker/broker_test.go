package broker

import (
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
)

func TestAllQueues_NoDuplicates(t *testing.T) {
	seen := make(map[string]bool, len(AllQueues))
	for _, q := range AllQueues {
		assert.False(t, seen[q], "duplicate queue name %q", q)
		seen[q] = true
	}
}

func TestDeliveryRetryCount(t *testing.T) {
	assert.Equal(t, 0, deliveryRetryCount(amqp.Delivery{Redelivered: false}))
	assert.Equal(t, 1, deliveryRetryCount(amqp.Delivery{Redelivered: true}))
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "a", firstNonEmpty("a", "b"))
	assert.Equal(t, "b", firstNonEmpty("", "b"))
}
