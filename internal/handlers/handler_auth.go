package handlers

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	portssvc "github.com/vidtube/vidtube_backend/internal/core/ports/services"
	"github.com/vidtube/vidtube_backend/internal/dto"
	"github.com/vidtube/vidtube_backend/internal/middleware"
	"github.com/vidtube/vidtube_backend/internal/platform/config"
)

// Cookie names for the session credentials delivered alongside the JSON body.
const (
	refreshTokenCookieName = "refreshToken"
	userNameCookieName     = "userName"
)

// authHandler handles authentication related requests.
type authHandler struct {
	authService portssvc.AuthSvcFacade
	cfg         *config.Config
}

// newAuthHandler creates a new authHandler.
func newAuthHandler(as portssvc.AuthSvcFacade, cfg *config.Config) *authHandler {
	return &authHandler{
		authService: as,
		cfg:         cfg,
	}
}

// registerAuthRoutes sets up the routes for authentication.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := newAuthHandler(services.Auth, cfg)

	// Define rate limit: 5 requests per minute
	rate, _ := limiter.NewRateFromFormatted("5-M")
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)
	limitMiddleware := middleware.RateLimit(ipLimiter)

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/register", limitMiddleware, h.Register)
		auth.POST("/login", limitMiddleware, h.Login)
		auth.POST("/refresh", h.Refresh)
	}

	protected := r.Group("/api/v1/auth", middleware.AuthMiddleware(services.Token, services.User))
	{
		protected.POST("/logout", h.Logout)
		protected.POST("/change-password", h.ChangePassword)
	}
}

// Register godoc
// @Summary Register new user
// @Description Creates a new user account from a multipart form with avatar (required) and coverImage (optional) files.
// @Tags auth
// @Accept mpfd
// @Produce json
// @Param username formData string true "Username"
// @Param email formData string true "Email"
// @Param fullName formData string true "Full name"
// @Param password formData string true "Password"
// @Param avatar formData file true "Avatar image"
// @Param coverImage formData file false "Cover image"
// @Success 201 {object} dto.Response
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /auth/register [post]
func (h *authHandler) Register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RegisterUserRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Invalid registration form: "+err.Error()))
		return
	}

	avatarFile, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Avatar file is required"))
		return
	}
	avatarPath, err := saveTempFile(c, avatarFile, h.cfg.UploadTempDir)
	if err != nil {
		logger.Error("Failed to stage avatar upload", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Failed to process avatar upload"))
		return
	}
	// The upload path consumes staged files; remove leftovers when
	// registration fails before any upload runs.
	defer func() { _ = os.Remove(avatarPath) }()

	coverPath := ""
	if coverFile, err := c.FormFile("coverImage"); err == nil {
		coverPath, err = saveTempFile(c, coverFile, h.cfg.UploadTempDir)
		if err != nil {
			logger.Error("Failed to stage cover image upload", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Failed to process cover image upload"))
			return
		}
		defer func() { _ = os.Remove(coverPath) }()
	}

	user, err := h.authService.Register(c.Request.Context(), req, avatarPath, coverPath)
	if err != nil {
		logger.Error("Failed to register user", slog.String("error", err.Error()))
		respondError(c, err, "Failed to register user")
		return
	}

	logger.Info("User registered", slog.String("user_id", user.UserID), slog.String("username", user.Username))
	c.JSON(http.StatusCreated, dto.NewResponse(http.StatusCreated, dto.ToUserResponse(user), "User registered successfully"))
}

// Login godoc
// @Summary User login
// @Description Authenticates by username or email and issues an access/refresh token pair, also set as http-only cookies.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.Response
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) Login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Invalid request body"))
		return
	}

	user, pair, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		logger.Warn("Login failed", slog.String("error", err.Error()))
		respondError(c, err, "Invalid credentials")
		return
	}

	h.setAuthCookies(c, pair, user.Username)

	resp := dto.LoginResponse{User: dto.ToUserResponse(user), Tokens: *pair}
	c.JSON(http.StatusOK, dto.NewResponse(http.StatusOK, resp, "Logged in successfully"))
}

// Logout godoc
// @Summary Log out the current user
// @Description Clears the stored refresh token and all session cookies. Idempotent.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.Response
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *authHandler) Logout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	if err := h.authService.Logout(c.Request.Context(), userID); err != nil {
		logger.Error("Failed to log out user", slog.String("error", err.Error()))
		respondError(c, err, "Failed to log out")
		return
	}

	h.clearAuthCookies(c)
	c.JSON(http.StatusOK, dto.NewResponse(http.StatusOK, nil, "Logged out successfully"))
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh godoc
// @Summary Rotate the token pair
// @Description Exchanges a valid refresh token (cookie or body) for a fresh pair. The presented token becomes invalid.
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body refreshRequest false "Refresh token, when not sent as a cookie"
// @Success 200 {object} dto.Response
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/refresh [post]
func (h *authHandler) Refresh(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	presented, _ := c.Cookie(refreshTokenCookieName)
	if presented == "" {
		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			presented = req.RefreshToken
		}
	}
	if presented == "" {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Refresh token required"))
		return
	}

	user, pair, err := h.authService.Refresh(c.Request.Context(), presented)
	if err != nil {
		logger.Warn("Refresh token rejected", slog.String("error", err.Error()))
		respondError(c, err, "Invalid or expired refresh token")
		return
	}

	h.setAuthCookies(c, pair, user.Username)
	c.JSON(http.StatusOK, dto.NewResponse(http.StatusOK, dto.RefreshResponse{Tokens: *pair}, "Token refreshed successfully"))
}

// ChangePassword godoc
// @Summary Change the current user's password
// @Tags auth
// @Accept json
// @Produce json
// @Param change body dto.ChangePasswordRequest true "Old and new password"
// @Success 200 {object} dto.Response
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /auth/change-password [post]
func (h *authHandler) ChangePassword(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Invalid request body: "+err.Error()))
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		logger.Warn("Password change failed", slog.String("error", err.Error()))
		respondError(c, err, "Failed to change password")
		return
	}

	c.JSON(http.StatusOK, dto.NewResponse(http.StatusOK, nil, "Password changed successfully"))
}

func (h *authHandler) setAuthCookies(c *gin.Context, pair *dto.TokenPair, username string) {
	accessMaxAge := int(time.Until(pair.AccessTokenExpiresAt).Seconds())
	refreshMaxAge := int(time.Until(pair.RefreshTokenExpiresAt).Seconds())

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AccessTokenCookieName, pair.AccessToken, accessMaxAge, "/", "", true, true)
	c.SetCookie(refreshTokenCookieName, pair.RefreshToken, refreshMaxAge, "/", "", true, true)
	c.SetCookie(userNameCookieName, username, refreshMaxAge, "/", "", true, true)
}

func (h *authHandler) clearAuthCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AccessTokenCookieName, "", -1, "/", "", true, true)
	c.SetCookie(refreshTokenCookieName, "", -1, "/", "", true, true)
	c.SetCookie(userNameCookieName, "", -1, "/", "", true, true)
}
