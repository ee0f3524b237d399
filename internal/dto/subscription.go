package dto

import (
	"time"

	"github.com/vidtube/vidtube_backend/internal/core/domain"
)

// SubscriptionResponse is returned when a subscription is created by a toggle.
type SubscriptionResponse struct {
	SubscriptionID string    `json:"subscriptionId"`
	SubscriberID   string    `json:"subscriberId"`
	ChannelID      string    `json:"channelId"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ToSubscriptionResponse converts a domain.Subscription.
func ToSubscriptionResponse(s *domain.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		SubscriptionID: s.SubscriptionID,
		SubscriberID:   s.SubscriberID,
		ChannelID:      s.ChannelID,
		CreatedAt:      s.CreatedAt,
	}
}

// ToggleSubscriptionResponse reports the state after a toggle.
type ToggleSubscriptionResponse struct {
	Subscribed   bool                  `json:"subscribed"`
	Subscription *SubscriptionResponse `json:"subscription,omitempty"`
}

// SubscriberCountResponse reports how many users subscribe to a channel.
type SubscriberCountResponse struct {
	ChannelID       string `json:"channelId"`
	SubscriberCount int64  `json:"subscriberCount"`
}

// SubscribedChannelCountResponse reports how many channels a user subscribes to.
type SubscribedChannelCountResponse struct {
	SubscriberID         string `json:"subscriberId"`
	SubscribedToChannels int64  `json:"subscribedToChannels"`
}
