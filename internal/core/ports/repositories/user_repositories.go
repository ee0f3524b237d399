package repositories

import (
	"context"
	"time"

	"github.com/vidtube/vidtube_backend/internal/core/domain"
)

// UserRepository defines persistence operations for user identities.
type UserRepository interface {
	// SaveUser inserts a new user. Returns apperrors.ErrDuplicate when the
	// username or email is already taken.
	SaveUser(ctx context.Context, user domain.User) error

	// FindUserByID retrieves a user by ID. Returns apperrors.ErrNotFound when absent.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByIdentifier retrieves a user matching the given username or
	// email (either may be empty). Returns apperrors.ErrNotFound when absent.
	FindUserByIdentifier(ctx context.Context, username, email string) (*domain.User, error)

	// UpdateUser persists the mutable profile fields (full name, email,
	// avatar URL, cover image URL) and the password hash.
	UpdateUser(ctx context.Context, user domain.User) error

	// UpdateRefreshToken stores the refresh token hash and expiry for a user,
	// unconditionally replacing any previous value. Used at login.
	UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, expiresAt time.Time) error

	// RotateRefreshToken atomically replaces the stored refresh token hash,
	// but only if the currently stored hash equals oldHash. Returns
	// apperrors.ErrUnauthorized when the stored value does not match, so two
	// concurrent refreshes with the same stale token cannot both succeed.
	RotateRefreshToken(ctx context.Context, userID string, oldHash, newHash string, expiresAt time.Time) error

	// ClearRefreshToken unsets the stored refresh token. Clearing an already
	// cleared token is not an error.
	ClearRefreshToken(ctx context.Context, userID string) error

	// FindChannelProfile returns the public channel view for a username,
	// including subscriber counters and whether viewerID subscribes to it.
	FindChannelProfile(ctx context.Context, username string, viewerID string) (*domain.ChannelProfile, error)
}
