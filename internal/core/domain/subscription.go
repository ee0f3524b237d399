package domain

import "time"

// Subscription links a subscriber to a channel (another user). At most one
// row exists per (subscriber, channel) pair.
type Subscription struct {
	SubscriptionID string
	SubscriberID   string
	ChannelID      string
	CreatedAt      time.Time
}
