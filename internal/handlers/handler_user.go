package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vidtube/vidtube_backend/internal/core/domain"
	portssvc "github.com/vidtube/vidtube_backend/internal/core/ports/services"
	"github.com/vidtube/vidtube_backend/internal/dto"
	"github.com/vidtube/vidtube_backend/internal/middleware"
	"github.com/vidtube/vidtube_backend/internal/platform/config"
)

// userHandler handles HTTP requests related to users and channels.
type userHandler struct {
	userService portssvc.UserSvcFacade
	cfg         *config.Config
}

// newUserHandler creates a new userHandler.
func newUserHandler(us portssvc.UserSvcFacade, cfg *config.Config) *userHandler {
	return &userHandler{
		userService: us,
		cfg:         cfg,
	}
}

// registerUserRoutes registers all user-related routes.
func registerUserRoutes(rg *gin.RouterGroup, cfg *config.Config, userService portssvc.UserSvcFacade) {
	h := newUserHandler(userService, cfg)

	users := rg.Group("/users")
	{
		users.GET("/me", h.getCurrentUser)
		users.PATCH("/me", h.updateAccount)
		users.PATCH("/me/avatar", h.updateAvatar)
		users.PATCH("/me/cover-image", h.updateCoverImage)
		users.GET("/me/history", h.getWatchHistory)
	}

	rg.GET("/channels/:username", h.getChannelProfile)
}

// getCurrentUser godoc
// @Summary Get the authenticated user
// @Tags users
// @Produce json
// @Success 200 {object} dto.Response
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /users/me [get]
func (h *userHandler) getCurrentUser(c *gin.Context) {
	user, ok := middleware.GetCurrentUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}
	c.JSON(http.StatusOK, dto.NewResponse(http.StatusOK, dto.ToUserResponse(user), "Current user fetched successfully"))
}

// updateAccount godoc
// @Summary Update account details
// @Description Updates the authenticated user's full name and email.
// @Tags users
// @Accept json
// @Produce json
// @Param account body dto.UpdateAccountRequest true "Account details"
// @Success 200 {object} dto.Response
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /users/me [patch]
func (h *userHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Invalid request body: "+err.Error()))
		return
	}

	user, err := h.userService.UpdateAccountDetails(c.Request.Context(), userID, req)
	if err != nil {
		logger.Error("Failed to update account details", slog.String("error", err.Error()))
		respondError(c, err, "Failed to update account details")
		return
	}

	c.JSON(http.StatusOK, dto.NewResponse(http.StatusOK, dto.ToUserResponse(user), "Account details updated successfully"))
}

// updateAvatar godoc
// @Summary Replace the user's avatar
// @Description Uploads a new avatar; the previous remote asset is deleted best-effort after the swap.
// @Tags users
// @Accept mpfd
// @Produce json
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} dto.Response
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /users/me/avatar [patch]
func (h *userHandler) updateAvatar(c *gin.Context) {
	h.replaceImage(c, "avatar", h.userService.UpdateAvatar)
}

// updateCoverImage godoc
// @Summary Replace the user's cover image
// @Tags users
// @Accept mpfd
// @Produce json
// @Param coverImage formData file true "Cover image"
// @Success 200 {object} dto.Response
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /users/me/cover-image [patch]
func (h *userHandler) updateCoverImage(c *gin.Context) {
	h.replaceImage(c, "coverImage", h.userService.UpdateCoverImage)
}

// replaceImage stages the uploaded part and delegates to the given profile
// image updater.
func (h *userHandler) replaceImage(c *gin.Context, field string, update func(ctx context.Context, userID, localPath string) (*domain.User, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	file, err := c.FormFile(field)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, field+" file is required"))
		return
	}
	localPath, err := saveTempFile(c, file, h.cfg.UploadTempDir)
	if err != nil {
		logger.Error("Failed to stage image upload", slog.String("field", field), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Failed to process uploaded file"))
		return
	}

	user, err := update(c.Request.Context(), userID, localPath)
	if err != nil {
		logger.Error("Failed to replace profile image", slog.String("field", field), slog.String("error", err.Error()))
		respondError(c, err, "Failed to update "+field)
		return
	}

	c.JSON(http.StatusOK, dto.NewResponse(http.StatusOK, dto.ToUserResponse(user), "Image updated successfully"))
}

// getWatchHistory godoc
// @Summary Get the authenticated user's watch history
// @Description Returns watched videos, most recent first.
// @Tags users
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.Response
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /users/me/history [get]
func (h *userHandler) getWatchHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	entries, err := h.userService.GetWatchHistory(c.Request.Context(), userID, limit, offset)
	if err != nil {
		logger.Error("Failed to fetch watch history", slog.String("error", err.Error()))
		respondError(c, err, "Failed to fetch watch history")
		return
	}

	c.JSON(http.StatusOK, dto.NewResponse(http.StatusOK, dto.ToWatchHistoryResponse(entries), "Watch history fetched successfully"))
}

// getChannelProfile godoc
// @Summary Get a channel's public profile
// @Description Returns the channel view for a username with subscriber counters, as seen by the authenticated viewer.
// @Tags channels
// @Produce json
// @Param username path string true "Channel username"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /channels/{username} [get]
func (h *userHandler) getChannelProfile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	viewerID, _ := middleware.GetUserIDFromContext(c)
	username := c.Param("username")

	profile, err := h.userService.GetChannelProfile(c.Request.Context(), username, viewerID)
	if err != nil {
		logger.Warn("Failed to fetch channel profile", slog.String("username", username), slog.String("error", err.Error()))
		respondError(c, err, "Channel not found")
		return
	}

	c.JSON(http.StatusOK, dto.NewResponse(http.StatusOK, dto.ToChannelProfileResponse(profile), "Channel profile fetched successfully"))
}
