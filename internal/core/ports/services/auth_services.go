package services

import (
	"context"
	"time"

	"github.com/vidtube/vidtube_backend/internal/core/domain"
	"github.com/vidtube/vidtube_backend/internal/dto"
	"github.com/vidtube/vidtube_backend/internal/utils"
)

// TokenSvcFacade defines token issuance and verification.
type TokenSvcFacade interface {
	// GenerateAccessToken signs a new access token for the user. Fails only
	// on signing misconfiguration.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// GenerateRefreshToken signs a new refresh token for the user.
	GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// VerifyAccessToken validates signature and expiry and returns the
	// claims, or apperrors.ErrUnauthorized.
	VerifyAccessToken(tokenString string) (*utils.AccessTokenClaims, error)

	// VerifyRefreshToken validates signature and expiry and returns the
	// subject user ID, or apperrors.ErrUnauthorized.
	VerifyRefreshToken(tokenString string) (string, error)
}

// AuthSvcFacade orchestrates the session lifecycle: registration, login,
// logout, refresh-token rotation, and password changes.
type AuthSvcFacade interface {
	// Register creates a new identity. avatarPath is a required local temp
	// file; coverPath may be empty. Both are consumed (uploaded then removed).
	Register(ctx context.Context, req dto.RegisterUserRequest, avatarPath, coverPath string) (*domain.User, error)

	// Login verifies credentials and issues a fresh token pair. The refresh
	// token hash is persisted before the pair is returned.
	Login(ctx context.Context, req dto.LoginRequest) (*domain.User, *dto.TokenPair, error)

	// Logout clears the stored refresh token. Idempotent.
	Logout(ctx context.Context, userID string) error

	// Refresh rotates the token pair. The presented token must verify
	// cryptographically and match the stored hash; after a successful
	// rotation the old token is permanently invalid.
	Refresh(ctx context.Context, presentedToken string) (*domain.User, *dto.TokenPair, error)

	// ChangePassword verifies the old password and stores a new hash.
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
}
