package services

import (
	"context"

	"github.com/vidtube/vidtube_backend/internal/core/domain"
	"github.com/vidtube/vidtube_backend/internal/dto"
)

// VideoSvcFacade defines operations on video assets and their metadata.
type VideoSvcFacade interface {
	// UploadVideo stores the video (with retry) and thumbnail (single
	// attempt) remotely, then persists the metadata row. Both local temp
	// files are consumed.
	UploadVideo(ctx context.Context, ownerID string, req dto.UploadVideoRequest, videoPath, thumbnailPath string) (*domain.Video, error)

	// GetVideo fetches a video for a viewer, bumping the view counter and
	// recording watch history. Unpublished videos are visible only to their
	// owner.
	GetVideo(ctx context.Context, videoID, viewerID string) (*domain.Video, error)

	// ListVideos returns a page of videos visible to the viewer.
	ListVideos(ctx context.Context, viewerID string, params dto.ListVideosParams) ([]domain.Video, error)

	// UpdateVideo updates metadata and optionally replaces the thumbnail
	// (new upload first, best-effort delete of the old asset after).
	UpdateVideo(ctx context.Context, videoID, requesterID string, req dto.UpdateVideoRequest, thumbnailPath string) (*domain.Video, error)

	// TogglePublish flips the publish flag.
	TogglePublish(ctx context.Context, videoID, requesterID string) (*domain.Video, error)

	// DeleteVideo removes the remote assets best-effort and then the row.
	DeleteVideo(ctx context.Context, videoID, requesterID string) error
}
