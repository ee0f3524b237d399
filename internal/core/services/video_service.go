package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vidtube/vidtube_backend/internal/apperrors"
	"github.com/vidtube/vidtube_backend/internal/core/domain"
	portsrepo "github.com/vidtube/vidtube_backend/internal/core/ports/repositories"
	portssvc "github.com/vidtube/vidtube_backend/internal/core/ports/services"
	"github.com/vidtube/vidtube_backend/internal/dto"
)

// videoService implements VideoSvcFacade.
type videoService struct {
	videoRepo portsrepo.VideoRepository
	uploader  portssvc.MediaUploaderSvc
	logger    *slog.Logger
}

// NewVideoService creates a new videoService.
func NewVideoService(videoRepo portsrepo.VideoRepository, uploader portssvc.MediaUploaderSvc, logger *slog.Logger) portssvc.VideoSvcFacade {
	if logger == nil {
		logger = slog.Default()
	}
	return &videoService{
		videoRepo: videoRepo,
		uploader:  uploader,
		logger:    logger,
	}
}

func (s *videoService) UploadVideo(ctx context.Context, ownerID string, req dto.UploadVideoRequest, videoPath, thumbnailPath string) (*domain.Video, error) {
	uploadedVideo := s.uploader.UploadWithRetry(ctx, videoPath)
	if uploadedVideo == nil {
		return nil, fmt.Errorf("video upload failed after retries: %w", apperrors.ErrUpstream)
	}

	uploadedThumb := s.uploader.UploadSimple(ctx, thumbnailPath)
	if uploadedThumb == nil {
		// Compensate: the video made it to the store but the row will never
		// exist, so remove the orphan.
		_ = s.uploader.Delete(ctx, uploadedVideo.URL)
		return nil, fmt.Errorf("thumbnail upload failed: %w", apperrors.ErrUpstream)
	}

	now := time.Now()
	video := domain.Video{
		VideoID:      uuid.NewString(),
		OwnerID:      ownerID,
		VideoURL:     uploadedVideo.URL,
		ThumbnailURL: uploadedThumb.URL,
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		Duration:     uploadedVideo.Duration,
		Views:        0,
		IsPublished:  true,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := s.videoRepo.SaveVideo(ctx, video); err != nil {
		_ = s.uploader.Delete(ctx, uploadedVideo.URL)
		_ = s.uploader.Delete(ctx, uploadedThumb.URL)
		return nil, fmt.Errorf("failed to save video metadata: %w", err)
	}
	return &video, nil
}

func (s *videoService) GetVideo(ctx context.Context, videoID, viewerID string) (*domain.Video, error) {
	video, err := s.videoRepo.FindVideoByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !video.IsPublished && video.OwnerID != viewerID {
		// Unpublished videos are indistinguishable from absent ones.
		return nil, apperrors.ErrNotFound
	}

	if err := s.videoRepo.IncrementViews(ctx, videoID); err != nil {
		s.logger.Warn("failed to increment view count", slog.String("video_id", videoID), slog.String("error", err.Error()))
	} else {
		video.Views++
	}
	if viewerID != "" {
		if err := s.videoRepo.AppendWatchHistory(ctx, viewerID, videoID); err != nil {
			s.logger.Warn("failed to record watch history", slog.String("video_id", videoID), slog.String("error", err.Error()))
		}
	}

	return video, nil
}

func (s *videoService) ListVideos(ctx context.Context, viewerID string, params dto.ListVideosParams) ([]domain.Video, error) {
	return s.videoRepo.ListVideos(ctx, portsrepo.ListVideosFilter{
		OwnerID:  params.OwnerID,
		ViewerID: viewerID,
		Limit:    params.Limit,
		Offset:   params.Offset,
	})
}

func (s *videoService) UpdateVideo(ctx context.Context, videoID, requesterID string, req dto.UpdateVideoRequest, thumbnailPath string) (*domain.Video, error) {
	video, err := s.ownedVideo(ctx, videoID, requesterID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		video.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		video.Description = strings.TrimSpace(*req.Description)
	}

	if thumbnailPath != "" {
		uploaded := s.uploader.UploadSimple(ctx, thumbnailPath)
		if uploaded == nil {
			return nil, fmt.Errorf("thumbnail upload failed: %w", apperrors.ErrUpstream)
		}
		if video.ThumbnailURL != "" {
			_ = s.uploader.Delete(ctx, video.ThumbnailURL)
		}
		video.ThumbnailURL = uploaded.URL
	}

	video.UpdatedAt = time.Now()
	if err := s.videoRepo.UpdateVideo(ctx, *video); err != nil {
		return nil, err
	}
	return video, nil
}

func (s *videoService) TogglePublish(ctx context.Context, videoID, requesterID string) (*domain.Video, error) {
	video, err := s.ownedVideo(ctx, videoID, requesterID)
	if err != nil {
		return nil, err
	}

	video.IsPublished = !video.IsPublished
	video.UpdatedAt = time.Now()
	if err := s.videoRepo.UpdateVideo(ctx, *video); err != nil {
		return nil, err
	}
	return video, nil
}

func (s *videoService) DeleteVideo(ctx context.Context, videoID, requesterID string) error {
	video, err := s.ownedVideo(ctx, videoID, requesterID)
	if err != nil {
		return err
	}

	// Remote blobs go first, best-effort: a dangling object costs storage,
	// a dangling row costs correctness.
	_ = s.uploader.Delete(ctx, video.VideoURL)
	_ = s.uploader.Delete(ctx, video.ThumbnailURL)

	return s.videoRepo.DeleteVideo(ctx, videoID)
}

func (s *videoService) ownedVideo(ctx context.Context, videoID, requesterID string) (*domain.Video, error) {
	video, err := s.videoRepo.FindVideoByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video.OwnerID != requesterID {
		return nil, fmt.Errorf("video %s is not owned by requester: %w", videoID, apperrors.ErrForbidden)
	}
	return video, nil
}
