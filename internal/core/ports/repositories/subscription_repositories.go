package repositories

import (
	"context"

	"github.com/vidtube/vidtube_backend/internal/core/domain"
)

// SubscriptionRepository defines persistence operations for channel subscriptions.
type SubscriptionRepository interface {
	// FindSubscription returns the subscription for the pair, or
	// apperrors.ErrNotFound when none exists.
	FindSubscription(ctx context.Context, subscriberID, channelID string) (*domain.Subscription, error)

	// SaveSubscription inserts a subscription. Returns apperrors.ErrDuplicate
	// when the pair already exists.
	SaveSubscription(ctx context.Context, sub domain.Subscription) error

	// DeleteSubscription removes the subscription for the pair. Deleting a
	// missing pair returns apperrors.ErrNotFound.
	DeleteSubscription(ctx context.Context, subscriberID, channelID string) error

	// CountSubscribers returns how many users subscribe to the channel.
	CountSubscribers(ctx context.Context, channelID string) (int64, error)

	// CountSubscribedChannels returns how many channels the user subscribes to.
	CountSubscribedChannels(ctx context.Context, subscriberID string) (int64, error)
}
