package repositories

import (
	"context"

	"github.com/vidtube/vidtube_backend/internal/core/domain"
)

// ListVideosFilter narrows a video listing.
type ListVideosFilter struct {
	// OwnerID limits results to one uploader when non-empty.
	OwnerID string
	// ViewerID is the requesting user; unpublished videos are only visible
	// to their owner.
	ViewerID string
	Limit    int
	Offset   int
}

// VideoRepository defines persistence operations for video metadata.
type VideoRepository interface {
	// SaveVideo inserts a new video row.
	SaveVideo(ctx context.Context, video domain.Video) error

	// FindVideoByID retrieves a video. Returns apperrors.ErrNotFound when absent.
	FindVideoByID(ctx context.Context, videoID string) (*domain.Video, error)

	// ListVideos returns a page of videos matching the filter, newest first.
	ListVideos(ctx context.Context, filter ListVideosFilter) ([]domain.Video, error)

	// UpdateVideo persists mutable video fields (title, description,
	// thumbnail URL, publish flag).
	UpdateVideo(ctx context.Context, video domain.Video) error

	// DeleteVideo removes the video row and its watch history entries.
	DeleteVideo(ctx context.Context, videoID string) error

	// IncrementViews bumps the view counter by one.
	IncrementViews(ctx context.Context, videoID string) error

	// AppendWatchHistory records that a user watched a video.
	AppendWatchHistory(ctx context.Context, userID, videoID string) error

	// FindWatchHistory returns a user's watch history, most recent first.
	FindWatchHistory(ctx context.Context, userID string, limit, offset int) ([]domain.WatchHistoryEntry, error)
}
