// Package broker implements the message-broker runtime over
// RabbitMQ via amqp091-go.
package broker

// Queue names, a closed set.
const (
	QueueFetchBlocks = "FetchBlocks"
	QueueStoreTransactions = "StoreTransactions"
	QueueFetchAssets = "FetchAssets"
	QueueStoreAssetsAssociations = "StoreAssetsAssociations"
	QueueNotificationsTransactions = "NotificationsTransactions"
	QueueNotificationsPriceAlerts = "NotificationsPriceAlerts"
	QueueNotificationsObservers = "NotificationsObservers"
	QueueNotificationsSupport = "NotificationsSupport"
	QueueNotificationsRewards = "NotificationsRewards"
	QueueNotificationsFailed = "NotificationsFailed"
	QueueRewardsEvents = "RewardsEvents"
	QueueRewardsRedemptions = "RewardsRedemptions"
	QueueStorePrices = "StorePrices"
	QueueStoreCharts = "StoreCharts"
)

// ExchangeNewAddresses routes per-chain address-registration events by
// chain routing key.
const ExchangeNewAddresses = "NewAddresses"

// AllQueues lists every queue this core declares at startup.
var AllQueues = []string{
	QueueFetchBlocks,
	QueueStoreTransactions,
	QueueFetchAssets,
	QueueStoreAssetsAssociations,
	QueueNotificationsTransactions,
	QueueNotificationsPriceAlerts,
	QueueNotificationsObservers,
	QueueNotificationsSupport,
	QueueNotificationsRewards,
	QueueNotificationsFailed,
	QueueRewardsEvents,
	QueueRewardsRedemptions,
	QueueStorePrices,
	QueueStoreCharts,
}
