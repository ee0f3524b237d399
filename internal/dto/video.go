package dto

import (
	"time"

	"github.com/vidtube/vidtube_backend/internal/core/domain"
)

// UploadVideoRequest carries the multipart form fields for a video upload.
// The video file and thumbnail travel alongside it.
type UploadVideoRequest struct {
	Title       string `form:"title" binding:"required"`
	Description string `form:"description" binding:"required"`
}

// UpdateVideoRequest updates video metadata. Pointers distinguish omitted
// fields from zero values. A replacement thumbnail may accompany the request.
type UpdateVideoRequest struct {
	Title       *string `form:"title"`
	Description *string `form:"description"`
}

// ListVideosParams defines query parameters for listing videos.
type ListVideosParams struct {
	Limit   int    `form:"limit,default=10"`
	Offset  int    `form:"offset,default=0"`
	OwnerID string `form:"ownerId"`
}

// VideoResponse is the external view of a video.
type VideoResponse struct {
	VideoID      string    `json:"videoId"`
	OwnerID      string    `json:"ownerId"`
	VideoURL     string    `json:"videoUrl"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Duration     float64   `json:"durationSeconds"`
	Views        int64     `json:"views"`
	IsPublished  bool      `json:"isPublished"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ToVideoResponse converts a domain.Video.
func ToVideoResponse(v *domain.Video) VideoResponse {
	return VideoResponse{
		VideoID:      v.VideoID,
		OwnerID:      v.OwnerID,
		VideoURL:     v.VideoURL,
		ThumbnailURL: v.ThumbnailURL,
		Title:        v.Title,
		Description:  v.Description,
		Duration:     v.Duration,
		Views:        v.Views,
		IsPublished:  v.IsPublished,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

// ListVideosResponse wraps a page of videos.
type ListVideosResponse struct {
	Videos []VideoResponse `json:"videos"`
}

// ToListVideosResponse converts a slice of domain.Video.
func ToListVideosResponse(videos []domain.Video) ListVideosResponse {
	out := make([]VideoResponse, len(videos))
	for i := range videos {
		out[i] = ToVideoResponse(&videos[i])
	}
	return ListVideosResponse{Videos: out}
}
