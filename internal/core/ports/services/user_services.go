package services

import (
	"context"

	"github.com/vidtube/vidtube_backend/internal/core/domain"
	"github.com/vidtube/vidtube_backend/internal/dto"
)

// UserReaderSvc defines read operations for user data.
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetChannelProfile retrieves the public channel view for a username as
	// seen by viewerID.
	GetChannelProfile(ctx context.Context, username string, viewerID string) (*domain.ChannelProfile, error)

	// GetWatchHistory returns the viewer's watch history, most recent first.
	GetWatchHistory(ctx context.Context, userID string, limit, offset int) ([]domain.WatchHistoryEntry, error)
}

// UserWriterSvc defines write operations for user profiles.
type UserWriterSvc interface {
	// UpdateAccountDetails updates full name and email.
	UpdateAccountDetails(ctx context.Context, userID string, req dto.UpdateAccountRequest) (*domain.User, error)

	// UpdateAvatar uploads a replacement avatar from a local temp file,
	// deletes the previous remote asset best-effort, and persists the new URL.
	UpdateAvatar(ctx context.Context, userID string, localPath string) (*domain.User, error)

	// UpdateCoverImage does the same for the cover image.
	UpdateCoverImage(ctx context.Context, userID string, localPath string) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces.
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
}
