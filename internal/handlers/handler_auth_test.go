package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/vidtube/vidtube_backend/internal/apperrors"
	"github.com/vidtube/vidtube_backend/internal/core/domain"
	portssvc "github.com/vidtube/vidtube_backend/internal/core/ports/services"
	"github.com/vidtube/vidtube_backend/internal/core/services"
	"github.com/vidtube/vidtube_backend/internal/dto"
	"github.com/vidtube/vidtube_backend/internal/handlers"
	"github.com/vidtube/vidtube_backend/internal/platform/config"
)

// --- Mock AuthService ---

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req dto.RegisterUserRequest, avatarPath, coverPath string) (*domain.User, error) {
	args := m.Called(ctx, req, avatarPath, coverPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req dto.LoginRequest) (*domain.User, *dto.TokenPair, error) {
	args := m.Called(ctx, req)
	var user *domain.User
	var pair *dto.TokenPair
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	if args.Get(1) != nil {
		pair = args.Get(1).(*dto.TokenPair)
	}
	return user, pair, args.Error(2)
}

func (m *MockAuthService) Logout(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockAuthService) Refresh(ctx context.Context, presentedToken string) (*domain.User, *dto.TokenPair, error) {
	args := m.Called(ctx, presentedToken)
	var user *domain.User
	var pair *dto.TokenPair
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	if args.Get(1) != nil {
		pair = args.Get(1).(*dto.TokenPair)
	}
	return user, pair, args.Error(2)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	args := m.Called(ctx, userID, oldPassword, newPassword)
	return args.Error(0)
}

var _ portssvc.AuthSvcFacade = (*MockAuthService)(nil)

// --- Mock UserService (identity resolution for the auth middleware) ---

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetChannelProfile(ctx context.Context, username string, viewerID string) (*domain.ChannelProfile, error) {
	args := m.Called(ctx, username, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChannelProfile), args.Error(1)
}

func (m *MockUserService) GetWatchHistory(ctx context.Context, userID string, limit, offset int) ([]domain.WatchHistoryEntry, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WatchHistoryEntry), args.Error(1)
}

func (m *MockUserService) UpdateAccountDetails(ctx context.Context, userID string, req dto.UpdateAccountRequest) (*domain.User, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) UpdateAvatar(ctx context.Context, userID string, localPath string) (*domain.User, error) {
	args := m.Called(ctx, userID, localPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) UpdateCoverImage(ctx context.Context, userID string, localPath string) (*domain.User, error) {
	args := m.Called(ctx, userID, localPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

// --- Suite ---

type AuthHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	cfg         *config.Config
	authService *MockAuthService
	userService *MockUserService
	tokens      portssvc.TokenSvcFacade
}

func (s *AuthHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	s.cfg = &config.Config{
		JWTSecret:                  "handler-test-access-secret",
		JWTExpiryDuration:          time.Hour,
		JWTIssuer:                  "vidtube-test",
		RefreshTokenSecret:         "handler-test-refresh-secret",
		RefreshTokenExpiryDuration: 24 * time.Hour,
		UploadTempDir:              s.T().TempDir(),
	}
	s.authService = new(MockAuthService)
	s.userService = new(MockUserService)
	s.tokens = services.NewTokenService(s.cfg)

	s.router = gin.New()
	handlers.RegisterRoutes(s.router, s.cfg, &portssvc.ServiceContainer{
		User:  s.userService,
		Auth:  s.authService,
		Token: s.tokens,
	})
}

func TestAuthHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

func (s *AuthHandlerTestSuite) aliceUser() *domain.User {
	return &domain.User{
		UserID:    "user-1",
		Username:  "alice",
		Email:     "alice@example.com",
		FullName:  "Alice Example",
		AvatarURL: "https://cdn.example.com/avatar.png",
	}
}

func (s *AuthHandlerTestSuite) tokenPair() *dto.TokenPair {
	user := s.aliceUser()
	access, accessExpiry, err := s.tokens.GenerateAccessToken(context.Background(), user)
	s.Require().NoError(err)
	refresh, refreshExpiry, err := s.tokens.GenerateRefreshToken(context.Background(), user)
	s.Require().NoError(err)
	return &dto.TokenPair{
		AccessToken:           access,
		RefreshToken:          refresh,
		AccessTokenExpiresAt:  accessExpiry,
		RefreshTokenExpiresAt: refreshExpiry,
	}
}

func (s *AuthHandlerTestSuite) registerForm(username, email string) (*bytes.Buffer, string) {
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	s.Require().NoError(writer.WriteField("username", username))
	s.Require().NoError(writer.WriteField("email", email))
	s.Require().NoError(writer.WriteField("fullName", "Alice Example"))
	s.Require().NoError(writer.WriteField("password", "s3cret-pass"))
	part, err := writer.CreateFormFile("avatar", "avatar.png")
	s.Require().NoError(err)
	_, err = part.Write([]byte("fake-png-bytes"))
	s.Require().NoError(err)
	s.Require().NoError(writer.Close())
	return body, writer.FormDataContentType()
}

func (s *AuthHandlerTestSuite) TestRegisterReturnsSanitizedUser() {
	s.authService.On("Register", mock.Anything, mock.MatchedBy(func(req dto.RegisterUserRequest) bool {
		return req.Username == "alice" && req.Email == "alice@example.com"
	}), mock.AnythingOfType("string"), "").Return(s.aliceUser(), nil).Once()

	body, contentType := s.registerForm("alice", "alice@example.com")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusCreated, rec.Code)

	var resp dto.Response
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(http.StatusCreated, resp.StatusCode)

	payload, err := json.Marshal(resp.Data)
	s.Require().NoError(err)
	s.NotContains(string(payload), "passwordHash")
	s.NotContains(string(payload), "refreshToken")
	s.Contains(string(payload), "alice")
	s.authService.AssertExpectations(s.T())
}

func (s *AuthHandlerTestSuite) TestRegisterWithoutAvatarRejected() {
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	s.Require().NoError(writer.WriteField("username", "alice"))
	s.Require().NoError(writer.WriteField("email", "alice@example.com"))
	s.Require().NoError(writer.WriteField("fullName", "Alice Example"))
	s.Require().NoError(writer.WriteField("password", "s3cret-pass"))
	s.Require().NoError(writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.authService.AssertNotCalled(s.T(), "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *AuthHandlerTestSuite) TestRegisterDuplicateMapsToBadRequest() {
	s.authService.On("Register", mock.Anything, mock.Anything, mock.AnythingOfType("string"), "").
		Return(nil, apperrors.ErrDuplicate).Once()

	body, contentType := s.registerForm("alice", "alice@example.com")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusBadRequest, rec.Code)

	var resp dto.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.False(resp.Success)
}

func (s *AuthHandlerTestSuite) TestLoginSetsSessionCookies() {
	pair := s.tokenPair()
	s.authService.On("Login", mock.Anything, mock.MatchedBy(func(req dto.LoginRequest) bool {
		return req.Username == "alice" && req.Password == "s3cret-pass"
	})).Return(s.aliceUser(), pair, nil).Once()

	payload := `{"username":"alice","password":"s3cret-pass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusOK, rec.Code)

	cookies := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		cookies[c.Name] = c
	}
	s.Require().Contains(cookies, "accessToken")
	s.Require().Contains(cookies, "refreshToken")
	s.Require().Contains(cookies, "userName")
	s.Equal(pair.AccessToken, cookies["accessToken"].Value)
	s.Equal(pair.RefreshToken, cookies["refreshToken"].Value)
	s.True(cookies["accessToken"].HttpOnly)
	s.True(cookies["refreshToken"].HttpOnly)

	var resp dto.Response
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *AuthHandlerTestSuite) TestLoginWrongPasswordReturns401() {
	s.authService.On("Login", mock.Anything, mock.Anything).
		Return(nil, nil, apperrors.ErrUnauthorized).Once()

	payload := `{"username":"alice","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Empty(rec.Result().Cookies())
}

func (s *AuthHandlerTestSuite) TestRefreshFromCookie() {
	pair := s.tokenPair()
	s.authService.On("Refresh", mock.Anything, "presented-refresh-token").
		Return(s.aliceUser(), pair, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "presented-refresh-token"})
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusOK, rec.Code)

	cookies := map[string]string{}
	for _, c := range rec.Result().Cookies() {
		cookies[c.Name] = c.Value
	}
	s.Equal(pair.RefreshToken, cookies["refreshToken"], "rotated token replaces the cookie")
	s.authService.AssertExpectations(s.T())
}

func (s *AuthHandlerTestSuite) TestRefreshWithoutTokenReturns401() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusUnauthorized, rec.Code)
	s.authService.AssertNotCalled(s.T(), "Refresh", mock.Anything, mock.Anything)
}

func (s *AuthHandlerTestSuite) TestLogoutClearsCookies() {
	user := s.aliceUser()
	access, _, err := s.tokens.GenerateAccessToken(context.Background(), user)
	s.Require().NoError(err)

	s.userService.On("GetUserByID", mock.Anything, user.UserID).Return(user, nil).Once()
	s.authService.On("Logout", mock.Anything, user.UserID).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusOK, rec.Code)

	for _, c := range rec.Result().Cookies() {
		s.LessOrEqual(c.MaxAge, 0, "cookie %s should be expired", c.Name)
		s.Empty(c.Value, "cookie %s should be emptied", c.Name)
	}
	s.authService.AssertExpectations(s.T())
}

func (s *AuthHandlerTestSuite) TestLogoutLeavesAccessTokenUsable() {
	user := s.aliceUser()
	access, _, err := s.tokens.GenerateAccessToken(context.Background(), user)
	s.Require().NoError(err)

	s.userService.On("GetUserByID", mock.Anything, user.UserID).Return(user, nil).Twice()
	s.authService.On("Logout", mock.Anything, user.UserID).Return(nil).Twice()

	// A protected request with the same access token still succeeds after
	// logout; only the refresh token is revoked.
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
		req.Header.Set("Authorization", "Bearer "+access)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		s.Equal(http.StatusOK, rec.Code)
	}
	s.authService.AssertExpectations(s.T())
}

func (s *AuthHandlerTestSuite) TestRegisterFailureRemovesStagedFiles() {
	s.authService.On("Register", mock.Anything, mock.Anything, mock.AnythingOfType("string"), "").
		Return(nil, apperrors.ErrDuplicate).Once()

	body, contentType := s.registerForm("alice", "alice@example.com")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusBadRequest, rec.Code)

	entries, err := os.ReadDir(s.cfg.UploadTempDir)
	s.Require().NoError(err)
	s.Empty(entries, "staged upload files should be removed when registration fails")
}

func (s *AuthHandlerTestSuite) TestLoginRateLimited() {
	s.authService.On("Login", mock.Anything, mock.Anything).
		Return(nil, nil, apperrors.ErrUnauthorized)

	var lastCode int
	var lastBody []byte
	for i := 0; i < 6; i++ {
		payload := `{"username":"alice","password":"wrong"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		lastCode = rec.Code
		lastBody = rec.Body.Bytes()
	}

	s.Equal(http.StatusTooManyRequests, lastCode)

	var resp dto.ErrorResponse
	s.Require().NoError(json.Unmarshal(lastBody, &resp))
	s.False(resp.Success)
	s.Equal(http.StatusTooManyRequests, resp.StatusCode)
}

func (s *AuthHandlerTestSuite) TestLogoutWithoutTokenRejected() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusUnauthorized, rec.Code)
	s.authService.AssertNotCalled(s.T(), "Logout", mock.Anything, mock.Anything)
}

func (s *AuthHandlerTestSuite) TestChangePasswordDelegates() {
	user := s.aliceUser()
	access, _, err := s.tokens.GenerateAccessToken(context.Background(), user)
	s.Require().NoError(err)

	s.userService.On("GetUserByID", mock.Anything, user.UserID).Return(user, nil).Once()
	s.authService.On("ChangePassword", mock.Anything, user.UserID, "old-pass1", "new-pass1").Return(nil).Once()

	payload := `{"oldPassword":"old-pass1","newPassword":"new-pass1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/change-password", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+access)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusOK, rec.Code)
	s.authService.AssertExpectations(s.T())
}
