package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/vidtube/vidtube_backend/internal/apperrors"
	"github.com/vidtube/vidtube_backend/internal/core/domain"
	portssvc "github.com/vidtube/vidtube_backend/internal/core/ports/services"
	"github.com/vidtube/vidtube_backend/internal/core/services"
	"github.com/vidtube/vidtube_backend/internal/dto"
	"github.com/vidtube/vidtube_backend/internal/media"
	"github.com/vidtube/vidtube_backend/internal/platform/config"
	"github.com/vidtube/vidtube_backend/internal/utils"
)

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByIdentifier(ctx context.Context, username, email string) (*domain.User, error) {
	args := m.Called(ctx, username, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, refreshTokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockUserRepository) RotateRefreshToken(ctx context.Context, userID string, oldHash, newHash string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, oldHash, newHash, expiresAt)
	return args.Error(0)
}

func (m *MockUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) FindChannelProfile(ctx context.Context, username string, viewerID string) (*domain.ChannelProfile, error) {
	args := m.Called(ctx, username, viewerID)
	var profile *domain.ChannelProfile
	if args.Get(0) != nil {
		profile = args.Get(0).(*domain.ChannelProfile)
	}
	return profile, args.Error(1)
}

// --- Stub uploader ---

type stubUploader struct {
	simpleResult *media.UploadResult
	retryResult  *media.UploadResult
	deleteErr    error
	deleted      []string
}

func (s *stubUploader) UploadSimple(ctx context.Context, localPath string) *media.UploadResult {
	return s.simpleResult
}

func (s *stubUploader) UploadWithRetry(ctx context.Context, localPath string) *media.UploadResult {
	return s.retryResult
}

func (s *stubUploader) Delete(ctx context.Context, remoteURL string) error {
	s.deleted = append(s.deleted, remoteURL)
	return s.deleteErr
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:                  "test-access-secret",
		JWTExpiryDuration:          time.Hour,
		JWTIssuer:                  "vidtube-test",
		RefreshTokenSecret:         "test-refresh-secret",
		RefreshTokenExpiryDuration: 24 * time.Hour,
	}
}

// --- Token service tests ---

type TokenServiceTestSuite struct {
	suite.Suite
	cfg *config.Config
}

func (s *TokenServiceTestSuite) SetupTest() {
	s.cfg = testConfig()
}

func TestTokenServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TokenServiceTestSuite))
}

func (s *TokenServiceTestSuite) testUser() *domain.User {
	return &domain.User{
		UserID:   "user-1",
		Username: "alice",
		Email:    "alice@example.com",
		FullName: "Alice Example",
	}
}

func (s *TokenServiceTestSuite) TestAccessTokenRoundTrip() {
	svc := services.NewTokenService(s.cfg)
	user := s.testUser()

	token, expiry, err := svc.GenerateAccessToken(context.Background(), user)
	s.Require().NoError(err)
	s.NotEmpty(token)
	s.WithinDuration(time.Now().Add(s.cfg.JWTExpiryDuration), expiry, time.Minute)

	claims, err := svc.VerifyAccessToken(token)
	s.Require().NoError(err)
	s.Equal(user.UserID, claims.Subject)
	s.Equal(user.Email, claims.Email)
	s.Equal(user.Username, claims.Username)
	s.Equal(user.FullName, claims.FullName)
}

func (s *TokenServiceTestSuite) TestExpiredAccessTokenRejected() {
	s.cfg.JWTExpiryDuration = -time.Minute
	svc := services.NewTokenService(s.cfg)

	token, _, err := svc.GenerateAccessToken(context.Background(), s.testUser())
	s.Require().NoError(err)

	_, err = svc.VerifyAccessToken(token)
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (s *TokenServiceTestSuite) TestRefreshTokenNotValidAsAccessToken() {
	svc := services.NewTokenService(s.cfg)

	refreshToken, _, err := svc.GenerateRefreshToken(context.Background(), s.testUser())
	s.Require().NoError(err)

	_, err = svc.VerifyAccessToken(refreshToken)
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (s *TokenServiceTestSuite) TestRefreshTokenRoundTrip() {
	svc := services.NewTokenService(s.cfg)

	token, _, err := svc.GenerateRefreshToken(context.Background(), s.testUser())
	s.Require().NoError(err)

	userID, err := svc.VerifyRefreshToken(token)
	s.Require().NoError(err)
	s.Equal("user-1", userID)
}

// --- Auth service tests ---

type AuthServiceTestSuite struct {
	suite.Suite
	cfg      *config.Config
	repo     *MockUserRepository
	uploader *stubUploader
	service  portssvc.AuthSvcFacade
	tokens   portssvc.TokenSvcFacade
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.cfg = testConfig()
	s.repo = new(MockUserRepository)
	s.uploader = &stubUploader{
		simpleResult: &media.UploadResult{URL: "https://cdn.example.com/avatar.png"},
	}
	tokenSvc := services.NewTokenService(s.cfg)
	s.tokens = tokenSvc
	s.service = services.NewAuthService(s.repo, tokenSvc, s.uploader)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (s *AuthServiceTestSuite) storedUser(password string) *domain.User {
	hash, err := utils.HashPassword(password)
	s.Require().NoError(err)
	return &domain.User{
		UserID:       "user-1",
		Username:     "alice",
		Email:        "alice@example.com",
		FullName:     "Alice Example",
		PasswordHash: hash,
		AvatarURL:    "https://cdn.example.com/avatar.png",
	}
}

func (s *AuthServiceTestSuite) TestRegisterSuccess() {
	ctx := context.Background()
	req := dto.RegisterUserRequest{
		Username: "Alice",
		Email:    "Alice@Example.com",
		FullName: "Alice Example",
		Password: "s3cret-pass",
	}

	s.repo.On("FindUserByIdentifier", ctx, "alice", "alice@example.com").Return(nil, apperrors.ErrNotFound).Once()
	s.repo.On("SaveUser", ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.Username == "alice" &&
			user.Email == "alice@example.com" &&
			user.AvatarURL == "https://cdn.example.com/avatar.png" &&
			user.PasswordHash != "" && user.PasswordHash != req.Password
	})).Return(nil).Once()

	user, err := s.service.Register(ctx, req, "/tmp/avatar.png", "")

	s.Require().NoError(err)
	s.Require().NotNil(user)
	s.Equal("alice", user.Username)
	s.True(utils.CheckPasswordHash("s3cret-pass", user.PasswordHash))
	s.repo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestRegisterDuplicateRejected() {
	ctx := context.Background()
	existing := s.storedUser("whatever1")
	s.repo.On("FindUserByIdentifier", ctx, "alice", "alice@example.com").Return(existing, nil).Once()

	_, err := s.service.Register(ctx, dto.RegisterUserRequest{
		Username: "alice", Email: "alice@example.com", FullName: "Alice", Password: "s3cret-pass",
	}, "/tmp/avatar.png", "")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrDuplicate)
	s.repo.AssertNotCalled(s.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestRegisterFailsWhenAvatarUploadFails() {
	ctx := context.Background()
	s.uploader.simpleResult = nil
	s.repo.On("FindUserByIdentifier", ctx, "alice", "alice@example.com").Return(nil, apperrors.ErrNotFound).Once()

	_, err := s.service.Register(ctx, dto.RegisterUserRequest{
		Username: "alice", Email: "alice@example.com", FullName: "Alice", Password: "s3cret-pass",
	}, "/tmp/avatar.png", "")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrUpstream)
	s.repo.AssertNotCalled(s.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestLoginPersistsRefreshHashBeforeReturning() {
	ctx := context.Background()
	user := s.storedUser("s3cret-pass")

	s.repo.On("FindUserByIdentifier", ctx, "alice", "").Return(user, nil).Once()

	var persistedHash string
	s.repo.On("UpdateRefreshToken", ctx, user.UserID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			persistedHash = args.String(2)
		}).Return(nil).Once()

	gotUser, pair, err := s.service.Login(ctx, dto.LoginRequest{Username: "alice", Password: "s3cret-pass"})

	s.Require().NoError(err)
	s.Require().NotNil(pair)
	s.Equal(user.UserID, gotUser.UserID)
	s.NotEmpty(pair.AccessToken)
	s.NotEmpty(pair.RefreshToken)
	s.Equal(utils.HashRefreshToken(pair.RefreshToken), persistedHash)
	s.repo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestLoginWrongPasswordRejected() {
	ctx := context.Background()
	user := s.storedUser("s3cret-pass")
	s.repo.On("FindUserByIdentifier", ctx, "alice", "").Return(user, nil).Once()

	_, _, err := s.service.Login(ctx, dto.LoginRequest{Username: "alice", Password: "wrong-pass"})

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrUnauthorized)
	s.repo.AssertNotCalled(s.T(), "UpdateRefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestLoginRequiresIdentifier() {
	_, _, err := s.service.Login(context.Background(), dto.LoginRequest{Password: "s3cret-pass"})

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *AuthServiceTestSuite) TestRefreshRotatesToken() {
	ctx := context.Background()
	user := s.storedUser("s3cret-pass")

	presented, expiry, err := s.tokens.GenerateRefreshToken(ctx, user)
	s.Require().NoError(err)
	user.RefreshTokenHash = utils.HashRefreshToken(presented)
	user.RefreshTokenExpiresAt = &expiry

	s.repo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()
	s.repo.On("RotateRefreshToken", ctx, user.UserID, user.RefreshTokenHash, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil).Once()

	_, pair, err := s.service.Refresh(ctx, presented)

	s.Require().NoError(err)
	s.Require().NotNil(pair)
	s.NotEqual(presented, pair.RefreshToken)
	s.repo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestRefreshRejectsReplayedToken() {
	ctx := context.Background()
	user := s.storedUser("s3cret-pass")

	stale, _, err := s.tokens.GenerateRefreshToken(ctx, user)
	s.Require().NoError(err)

	// The stored hash belongs to a newer token, so the stale one must fail.
	user.RefreshTokenHash = utils.HashRefreshToken("a different token")

	s.repo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()

	_, _, err = s.service.Refresh(ctx, stale)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrUnauthorized)
	s.repo.AssertNotCalled(s.T(), "RotateRefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestRefreshRejectsAfterLogout() {
	ctx := context.Background()
	user := s.storedUser("s3cret-pass")

	presented, _, err := s.tokens.GenerateRefreshToken(ctx, user)
	s.Require().NoError(err)
	user.RefreshTokenHash = "" // logout cleared it

	s.repo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()

	_, _, err = s.service.Refresh(ctx, presented)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (s *AuthServiceTestSuite) TestRefreshRejectsGarbageToken() {
	_, _, err := s.service.Refresh(context.Background(), "not-a-jwt")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (s *AuthServiceTestSuite) TestLogoutIsIdempotent() {
	ctx := context.Background()
	s.repo.On("ClearRefreshToken", ctx, "user-1").Return(nil).Twice()

	s.Require().NoError(s.service.Logout(ctx, "user-1"))
	s.Require().NoError(s.service.Logout(ctx, "user-1"))
	s.repo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestLogoutLeavesIssuedAccessTokensValid() {
	ctx := context.Background()
	user := s.storedUser("s3cret-pass")

	accessToken, _, err := s.tokens.GenerateAccessToken(ctx, user)
	s.Require().NoError(err)

	s.repo.On("ClearRefreshToken", ctx, user.UserID).Return(nil).Once()
	s.Require().NoError(s.service.Logout(ctx, user.UserID))

	// Logout only revokes the refresh token. The access token keeps
	// working until its own expiry.
	claims, err := s.tokens.VerifyAccessToken(accessToken)
	s.Require().NoError(err)
	s.Equal(user.UserID, claims.Subject)
	s.repo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestChangePasswordVerifiesOldPassword() {
	ctx := context.Background()
	user := s.storedUser("old-password")

	s.repo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Twice()
	s.repo.On("UpdateUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return utils.CheckPasswordHash("new-password", u.PasswordHash)
	})).Return(nil).Once()

	err := s.service.ChangePassword(ctx, user.UserID, "old-password", "new-password")
	s.Require().NoError(err)

	err = s.service.ChangePassword(ctx, user.UserID, "wrong-password", "new-password")
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrUnauthorized)
	s.repo.AssertExpectations(s.T())
}
