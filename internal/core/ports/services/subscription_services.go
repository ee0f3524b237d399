package services

import (
	"context"

	"github.com/vidtube/vidtube_backend/internal/core/domain"
)

// SubscriptionSvcFacade defines channel subscription operations.
type SubscriptionSvcFacade interface {
	// ToggleSubscription subscribes the user to the channel, or unsubscribes
	// when a subscription already exists. The returned subscription is nil
	// when the toggle removed one.
	ToggleSubscription(ctx context.Context, subscriberID, channelID string) (*domain.Subscription, bool, error)

	// GetSubscriberCount returns how many users subscribe to the channel.
	GetSubscriberCount(ctx context.Context, channelID string) (int64, error)

	// GetSubscribedChannelCount returns how many channels the user subscribes to.
	GetSubscribedChannelCount(ctx context.Context, subscriberID string) (int64, error)
}
