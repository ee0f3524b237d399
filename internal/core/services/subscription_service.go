package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vidtube/vidtube_backend/internal/apperrors"
	"github.com/vidtube/vidtube_backend/internal/core/domain"
	portsrepo "github.com/vidtube/vidtube_backend/internal/core/ports/repositories"
	portssvc "github.com/vidtube/vidtube_backend/internal/core/ports/services"
)

// subscriptionService implements SubscriptionSvcFacade.
type subscriptionService struct {
	subRepo  portsrepo.SubscriptionRepository
	userRepo portsrepo.UserRepository
}

// NewSubscriptionService creates a new subscriptionService.
func NewSubscriptionService(subRepo portsrepo.SubscriptionRepository, userRepo portsrepo.UserRepository) portssvc.SubscriptionSvcFacade {
	return &subscriptionService{
		subRepo:  subRepo,
		userRepo: userRepo,
	}
}

func (s *subscriptionService) ToggleSubscription(ctx context.Context, subscriberID, channelID string) (*domain.Subscription, bool, error) {
	if subscriberID == channelID {
		return nil, false, fmt.Errorf("cannot subscribe to own channel: %w", apperrors.ErrValidation)
	}

	if _, err := s.userRepo.FindUserByID(ctx, channelID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, false, fmt.Errorf("channel %s: %w", channelID, apperrors.ErrNotFound)
		}
		return nil, false, err
	}

	_, err := s.subRepo.FindSubscription(ctx, subscriberID, channelID)
	switch {
	case err == nil:
		if err := s.subRepo.DeleteSubscription(ctx, subscriberID, channelID); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, false, err
		}
		return nil, false, nil
	case errors.Is(err, apperrors.ErrNotFound):
		sub := domain.Subscription{
			SubscriptionID: uuid.NewString(),
			SubscriberID:   subscriberID,
			ChannelID:      channelID,
			CreatedAt:      time.Now(),
		}
		if err := s.subRepo.SaveSubscription(ctx, sub); err != nil {
			return nil, false, err
		}
		return &sub, true, nil
	default:
		return nil, false, err
	}
}

func (s *subscriptionService) GetSubscriberCount(ctx context.Context, channelID string) (int64, error) {
	if _, err := s.userRepo.FindUserByID(ctx, channelID); err != nil {
		return 0, err
	}
	return s.subRepo.CountSubscribers(ctx, channelID)
}

func (s *subscriptionService) GetSubscribedChannelCount(ctx context.Context, subscriberID string) (int64, error) {
	return s.subRepo.CountSubscribedChannels(ctx, subscriberID)
}
