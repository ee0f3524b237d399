package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vidtube/vidtube_backend/internal/apperrors"
	"github.com/vidtube/vidtube_backend/internal/core/domain"
	portsrepo "github.com/vidtube/vidtube_backend/internal/core/ports/repositories"
	portssvc "github.com/vidtube/vidtube_backend/internal/core/ports/services"
	"github.com/vidtube/vidtube_backend/internal/dto"
	"github.com/vidtube/vidtube_backend/internal/platform/config"
	"github.com/vidtube/vidtube_backend/internal/utils"
)

// tokenService implements TokenSvcFacade on top of the JWT helpers. Access
// and refresh tokens are signed with distinct secrets, so a refresh token can
// never pass access-token verification and vice versa.
type tokenService struct {
	cfg *config.Config
}

// NewTokenService creates a new tokenService.
func NewTokenService(cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenService{cfg: cfg}
}

func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	expiry := time.Now().Add(s.cfg.JWTExpiryDuration)
	token, err := utils.GenerateAccessJWT(user, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return token, expiry, nil
}

func (s *tokenService) GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	expiry := time.Now().Add(s.cfg.RefreshTokenExpiryDuration)
	token, err := utils.GenerateRefreshJWT(user.UserID, s.cfg.RefreshTokenSecret, s.cfg.RefreshTokenExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return token, expiry, nil
}

func (s *tokenService) VerifyAccessToken(tokenString string) (*utils.AccessTokenClaims, error) {
	claims, err := utils.ParseAccessJWT(tokenString, s.cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("invalid access token: %w", apperrors.ErrUnauthorized)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("access token missing subject: %w", apperrors.ErrUnauthorized)
	}
	return claims, nil
}

func (s *tokenService) VerifyRefreshToken(tokenString string) (string, error) {
	claims, err := utils.ParseRefreshJWT(tokenString, s.cfg.RefreshTokenSecret)
	if err != nil {
		return "", fmt.Errorf("invalid refresh token: %w", apperrors.ErrUnauthorized)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("refresh token missing subject: %w", apperrors.ErrUnauthorized)
	}
	return claims.Subject, nil
}

// authService orchestrates the session lifecycle. The user row's refresh
// token hash is the single source of truth for refresh validity: one active
// refresh token per identity, rotated on every refresh.
type authService struct {
	userRepo portsrepo.UserRepository
	tokens   portssvc.TokenSvcFacade
	uploader portssvc.MediaUploaderSvc
}

// NewAuthService creates a new authService.
func NewAuthService(userRepo portsrepo.UserRepository, tokens portssvc.TokenSvcFacade, uploader portssvc.MediaUploaderSvc) portssvc.AuthSvcFacade {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		uploader: uploader,
	}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterUserRequest, avatarPath, coverPath string) (*domain.User, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.userRepo.FindUserByIdentifier(ctx, username, email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing user: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("username or email already taken: %w", apperrors.ErrDuplicate)
	}

	avatar := s.uploader.UploadSimple(ctx, avatarPath)
	if avatar == nil {
		return nil, fmt.Errorf("avatar upload failed: %w", apperrors.ErrUpstream)
	}

	coverURL := ""
	if coverPath != "" {
		// Cover image is optional; a failed upload registers the user without one.
		if cover := s.uploader.UploadSimple(ctx, coverPath); cover != nil {
			coverURL = cover.URL
		}
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := domain.User{
		UserID:        uuid.NewString(),
		Username:      username,
		Email:         email,
		FullName:      strings.TrimSpace(req.FullName),
		PasswordHash:  passwordHash,
		AvatarURL:     avatar.URL,
		CoverImageURL: coverURL,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*domain.User, *dto.TokenPair, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" && email == "" {
		return nil, nil, fmt.Errorf("username or email is required: %w", apperrors.ErrValidation)
	}

	user, err := s.userRepo.FindUserByIdentifier(ctx, username, email)
	if err != nil {
		return nil, nil, err
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, nil, fmt.Errorf("password mismatch: %w", apperrors.ErrUnauthorized)
	}

	pair, err := s.generatePair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	// The hash must be durably stored before the tokens leave the server;
	// otherwise a prompt refresh attempt could race the write and fail.
	hash := utils.HashRefreshToken(pair.RefreshToken)
	if err := s.userRepo.UpdateRefreshToken(ctx, user.UserID, hash, pair.RefreshTokenExpiresAt); err != nil {
		return nil, nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return user, pair, nil
}

func (s *authService) Logout(ctx context.Context, userID string) error {
	if err := s.userRepo.ClearRefreshToken(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}

func (s *authService) Refresh(ctx context.Context, presentedToken string) (*domain.User, *dto.TokenPair, error) {
	userID, err := s.tokens.VerifyRefreshToken(presentedToken)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, fmt.Errorf("refresh token subject unknown: %w", apperrors.ErrUnauthorized)
		}
		return nil, nil, err
	}

	if user.RefreshTokenHash == "" {
		return nil, nil, fmt.Errorf("no active refresh token: %w", apperrors.ErrUnauthorized)
	}
	if user.RefreshTokenExpiresAt != nil && time.Now().After(*user.RefreshTokenExpiresAt) {
		return nil, nil, fmt.Errorf("stored refresh token expired: %w", apperrors.ErrUnauthorized)
	}
	oldHash := utils.HashRefreshToken(presentedToken)
	if !utils.CompareRefreshTokenHash(presentedToken, user.RefreshTokenHash) {
		// A mismatch sees either a rotated-out token being replayed or a
		// token for a different session. Both are rejected the same way.
		return nil, nil, fmt.Errorf("refresh token mismatch: %w", apperrors.ErrUnauthorized)
	}

	pair, err := s.generatePair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	// Compare-and-set on the stored hash: of two concurrent refreshes with
	// the same stale token, exactly one rotation lands.
	newHash := utils.HashRefreshToken(pair.RefreshToken)
	if err := s.userRepo.RotateRefreshToken(ctx, user.UserID, oldHash, newHash, pair.RefreshTokenExpiresAt); err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if !utils.CheckPasswordHash(oldPassword, user.PasswordHash) {
		return fmt.Errorf("old password mismatch: %w", apperrors.ErrUnauthorized)
	}

	newHash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = newHash
	user.UpdatedAt = time.Now()
	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *authService) generatePair(ctx context.Context, user *domain.User) (*dto.TokenPair, error) {
	accessToken, accessExpiry, err := s.tokens.GenerateAccessToken(ctx, user)
	if err != nil {
		return nil, err
	}
	refreshToken, refreshExpiry, err := s.tokens.GenerateRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}
	return &dto.TokenPair{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresAt:  accessExpiry,
		RefreshTokenExpiresAt: refreshExpiry,
	}, nil
}
