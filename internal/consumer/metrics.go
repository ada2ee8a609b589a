package consumer

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds a per-instance registry, following the same
// construct-then-MustRegister idiom used throughout this core rather than
// the global promauto default-registry shortcut.
type Metrics struct {
	registry *prometheus.Registry

	transactionsStored     prometheus.Counter
	assetsFetchRequested   prometheus.Counter
	notificationsPublished prometheus.Counter
	insufficientAmount     prometheus.Counter
}

// NewMetrics builds a Metrics with its own registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		transactionsStored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "walletd_consumer_transactions_stored_total",
			Help: "Transactions persisted by the store-transactions consumer.",
		}),
		assetsFetchRequested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "walletd_consumer_assets_fetch_requested_total",
			Help: "FetchAssets requests published for assets missing a priced row.",
		}),
		notificationsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "walletd_consumer_notifications_published_total",
			Help: "Notification envelopes published by the store-transactions consumer.",
		}),
		insufficientAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "walletd_consumer_insufficient_amount_total",
			Help: "Transactions suppressed entirely for falling below the USD notification floor.",
		}),
	}
	reg.MustRegister(m.transactionsStored, m.assetsFetchRequested, m.notificationsPublished, m.insufficientAmount)
	return m
}

// Registry exposes the underlying registry for a push-gateway exporter.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
