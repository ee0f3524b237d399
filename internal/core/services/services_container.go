package services

import (
	"log/slog"

	portsrepo "github.com/vidtube/vidtube_backend/internal/core/ports/repositories"
	portssvc "github.com/vidtube/vidtube_backend/internal/core/ports/services"
	"github.com/vidtube/vidtube_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos *portsrepo.RepositoryProvider, uploader portssvc.MediaUploaderSvc, logger *slog.Logger) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Media = uploader
	container.Token = NewTokenService(cfg)
	container.Auth = NewAuthService(repos.UserRepo, container.Token, uploader)
	container.User = NewUserService(repos.UserRepo, repos.VideoRepo, uploader)
	container.Video = NewVideoService(repos.VideoRepo, uploader, logger)
	container.Subscription = NewSubscriptionService(repos.SubscriptionRepo, repos.UserRepo)

	return container
}

// Compile-time interface checks.
var (
	_ portssvc.TokenSvcFacade        = (*tokenService)(nil)
	_ portssvc.AuthSvcFacade         = (*authService)(nil)
	_ portssvc.UserSvcFacade         = (*userService)(nil)
	_ portssvc.VideoSvcFacade        = (*videoService)(nil)
	_ portssvc.SubscriptionSvcFacade = (*subscriptionService)(nil)
)
