package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vidtube/vidtube_backend/internal/apperrors"
	"github.com/vidtube/vidtube_backend/internal/core/domain"
	portsrepo "github.com/vidtube/vidtube_backend/internal/core/ports/repositories"
	portssvc "github.com/vidtube/vidtube_backend/internal/core/ports/services"
	"github.com/vidtube/vidtube_backend/internal/dto"
)

// userService implements UserSvcFacade.
type userService struct {
	userRepo  portsrepo.UserRepository
	videoRepo portsrepo.VideoRepository
	uploader  portssvc.MediaUploaderSvc
}

// NewUserService creates a new userService.
func NewUserService(userRepo portsrepo.UserRepository, videoRepo portsrepo.VideoRepository, uploader portssvc.MediaUploaderSvc) portssvc.UserSvcFacade {
	return &userService{
		userRepo:  userRepo,
		videoRepo: videoRepo,
		uploader:  uploader,
	}
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetChannelProfile(ctx context.Context, username string, viewerID string) (*domain.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, fmt.Errorf("username is required: %w", apperrors.ErrValidation)
	}
	return s.userRepo.FindChannelProfile(ctx, username, viewerID)
}

func (s *userService) GetWatchHistory(ctx context.Context, userID string, limit, offset int) ([]domain.WatchHistoryEntry, error) {
	return s.videoRepo.FindWatchHistory(ctx, userID, limit, offset)
}

func (s *userService) UpdateAccountDetails(ctx context.Context, userID string, req dto.UpdateAccountRequest) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.FullName = strings.TrimSpace(req.FullName)
	user.Email = strings.ToLower(strings.TrimSpace(req.Email))
	user.UpdatedAt = time.Now()

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateAvatar(ctx context.Context, userID string, localPath string) (*domain.User, error) {
	return s.replaceImage(ctx, userID, localPath, "avatar",
		func(u *domain.User) *string { return &u.AvatarURL })
}

func (s *userService) UpdateCoverImage(ctx context.Context, userID string, localPath string) (*domain.User, error) {
	return s.replaceImage(ctx, userID, localPath, "cover image",
		func(u *domain.User) *string { return &u.CoverImageURL })
}

// replaceImage runs the replacement-asset flow: the new upload must succeed
// before the record is touched, and failure to delete the old remote asset
// never blocks the update.
func (s *userService) replaceImage(ctx context.Context, userID, localPath, label string, field func(*domain.User) *string) (*domain.User, error) {
	uploaded := s.uploader.UploadSimple(ctx, localPath)
	if uploaded == nil {
		return nil, fmt.Errorf("%s upload failed: %w", label, apperrors.ErrUpstream)
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	target := field(user)
	if old := *target; old != "" {
		_ = s.uploader.Delete(ctx, old) // best-effort, logged by the uploader
	}
	*target = uploaded.URL
	user.UpdatedAt = time.Now()

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, err
	}
	return user, nil
}
