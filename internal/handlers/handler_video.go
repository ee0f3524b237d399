package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/vidtube/vidtube_backend/internal/core/ports/services"
	"github.com/vidtube/vidtube_backend/internal/dto"
	"github.com/vidtube/vidtube_backend/internal/middleware"
	"github.com/vidtube/vidtube_backend/internal/platform/config"
)

// videoHandler handles HTTP requests related to videos.
type videoHandler struct {
	videoService portssvc.VideoSvcFacade
	cfg          *config.Config
}

// newVideoHandler creates a new videoHandler.
func newVideoHandler(vs portssvc.VideoSvcFacade, cfg *config.Config) *videoHandler {
	return &videoHandler{
		videoService: vs,
		cfg:          cfg,
	}
}

// registerVideoRoutes registers all video-related routes.
func registerVideoRoutes(rg *gin.RouterGroup, cfg *config.Config, videoService portssvc.VideoSvcFacade) {
	h := newVideoHandler(videoService, cfg)

	videos := rg.Group("/videos")
	{
		videos.POST("", h.uploadVideo)
		videos.GET("", h.listVideos)
		videos.GET("/:id", h.getVideo)
		videos.PATCH("/:id", h.updateVideo)
		videos.PATCH("/:id/toggle-publish", h.togglePublish)
		videos.DELETE("/:id", h.deleteVideo)
	}
}

// uploadVideo godoc
// @Summary Upload a new video
// @Description Accepts a multipart form with videoFile and thumbnail parts plus title and description. The video upload is retried on transient failures.
// @Tags videos
// @Accept mpfd
// @Produce json
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param videoFile formData file true "Video file"
// @Param thumbnail formData file true "Thumbnail image"
// @Success 201 {object} dto.Response
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /videos [post]
func (h *videoHandler) uploadVideo(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	var req dto.UploadVideoRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Invalid upload form: "+err.Error()))
		return
	}

	videoFile, err := c.FormFile("videoFile")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Video file is required"))
		return
	}
	thumbnailFile, err := c.FormFile("thumbnail")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Thumbnail file is required"))
		return
	}

	videoPath, err := saveTempFile(c, videoFile, h.cfg.UploadTempDir)
	if err != nil {
		logger.Error("Failed to stage video upload", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Failed to process video upload"))
		return
	}
	thumbnailPath, err := saveTempFile(c, thumbnailFile, h.cfg.UploadTempDir)
	if err != nil {
		logger.Error("Failed to stage thumbnail upload", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Failed to process thumbnail upload"))
		return
	}

	video, err := h.videoService.UploadVideo(c.Request.Context(), userID, req, videoPath, thumbnailPath)
	if err != nil {
		logger.Error("Failed to upload video", slog.String("error", err.Error()))
		respondError(c, err, "Failed to upload video")
		return
	}

	logger.Info("Video uploaded", slog.String("video_id", video.VideoID))
	c.JSON(http.StatusCreated, dto.NewResponse(http.StatusCreated, dto.ToVideoResponse(video), "Video uploaded successfully"))
}

// listVideos godoc
// @Summary List videos
// @Description Returns a page of videos visible to the viewer. Unpublished videos appear only for their owner.
// @Tags videos
// @Produce json
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Page offset" default(0)
// @Param ownerId query string false "Filter by channel owner"
// @Success 200 {object} dto.Response
// @Security BearerAuth
// @Router /videos [get]
func (h *videoHandler) listVideos(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	viewerID, _ := middleware.GetUserIDFromContext(c)

	var params dto.ListVideosParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Invalid query parameters: "+err.Error()))
		return
	}

	videos, err := h.videoService.ListVideos(c.Request.Context(), viewerID, params)
	if err != nil {
		logger.Error("Failed to list videos", slog.String("error", err.Error()))
		respondError(c, err, "Failed to list videos")
		return
	}

	c.JSON(http.StatusOK, dto.NewResponse(http.StatusOK, dto.ToListVideosResponse(videos), "Videos fetched successfully"))
}

// getVideo godoc
// @Summary Get a video by ID
// @Description Fetches a single video, bumping its view counter and recording it in the viewer's watch history.
// @Tags videos
// @Produce json
// @Param id path string true "Video ID"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /videos/{id} [get]
func (h *videoHandler) getVideo(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	viewerID, _ := middleware.GetUserIDFromContext(c)
	videoID := c.Param("id")

	video, err := h.videoService.GetVideo(c.Request.Context(), videoID, viewerID)
	if err != nil {
		logger.Warn("Failed to fetch video", slog.String("video_id", videoID), slog.String("error", err.Error()))
		respondError(c, err, "Video not found")
		return
	}

	c.JSON(http.StatusOK, dto.NewResponse(http.StatusOK, dto.ToVideoResponse(video), "Video fetched successfully"))
}

// updateVideo godoc
// @Summary Update video metadata
// @Description Updates title and/or description; an optional thumbnail part replaces the existing thumbnail.
// @Tags videos
// @Accept mpfd
// @Produce json
// @Param id path string true "Video ID"
// @Param title formData string false "Title"
// @Param description formData string false "Description"
// @Param thumbnail formData file false "Replacement thumbnail"
// @Success 200 {object} dto.Response
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /videos/{id} [patch]
func (h *videoHandler) updateVideo(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}
	videoID := c.Param("id")

	var req dto.UpdateVideoRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Invalid update form: "+err.Error()))
		return
	}

	thumbnailPath := ""
	if thumbnailFile, err := c.FormFile("thumbnail"); err == nil {
		thumbnailPath, err = saveTempFile(c, thumbnailFile, h.cfg.UploadTempDir)
		if err != nil {
			logger.Error("Failed to stage thumbnail upload", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Failed to process thumbnail upload"))
			return
		}
	}

	video, err := h.videoService.UpdateVideo(c.Request.Context(), videoID, userID, req, thumbnailPath)
	if err != nil {
		logger.Error("Failed to update video", slog.String("video_id", videoID), slog.String("error", err.Error()))
		respondError(c, err, "Failed to update video")
		return
	}

	c.JSON(http.StatusOK, dto.NewResponse(http.StatusOK, dto.ToVideoResponse(video), "Video updated successfully"))
}

// togglePublish godoc
// @Summary Toggle a video's publish state
// @Tags videos
// @Produce json
// @Param id path string true "Video ID"
// @Success 200 {object} dto.Response
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /videos/{id}/toggle-publish [patch]
func (h *videoHandler) togglePublish(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}
	videoID := c.Param("id")

	video, err := h.videoService.TogglePublish(c.Request.Context(), videoID, userID)
	if err != nil {
		logger.Error("Failed to toggle publish state", slog.String("video_id", videoID), slog.String("error", err.Error()))
		respondError(c, err, "Failed to toggle publish state")
		return
	}

	c.JSON(http.StatusOK, dto.NewResponse(http.StatusOK, dto.ToVideoResponse(video), "Publish state toggled successfully"))
}

// deleteVideo godoc
// @Summary Delete a video
// @Description Removes the remote assets best-effort, then the metadata row.
// @Tags videos
// @Produce json
// @Param id path string true "Video ID"
// @Success 200 {object} dto.Response
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /videos/{id} [delete]
func (h *videoHandler) deleteVideo(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}
	videoID := c.Param("id")

	if err := h.videoService.DeleteVideo(c.Request.Context(), videoID, userID); err != nil {
		logger.Error("Failed to delete video", slog.String("video_id", videoID), slog.String("error", err.Error()))
		respondError(c, err, "Failed to delete video")
		return
	}

	c.JSON(http.StatusOK, dto.NewResponse(http.StatusOK, nil, "Video deleted successfully"))
}
