package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/vidtube/vidtube_backend/internal/apperrors"
	"github.com/vidtube/vidtube_backend/internal/core/domain"
	portsrepo "github.com/vidtube/vidtube_backend/internal/core/ports/repositories"
	portssvc "github.com/vidtube/vidtube_backend/internal/core/ports/services"
	"github.com/vidtube/vidtube_backend/internal/core/services"
	"github.com/vidtube/vidtube_backend/internal/dto"
	"github.com/vidtube/vidtube_backend/internal/media"
)

// --- Mock VideoRepository ---

type MockVideoRepository struct {
	mock.Mock
}

func (m *MockVideoRepository) SaveVideo(ctx context.Context, video domain.Video) error {
	args := m.Called(ctx, video)
	return args.Error(0)
}

func (m *MockVideoRepository) FindVideoByID(ctx context.Context, videoID string) (*domain.Video, error) {
	args := m.Called(ctx, videoID)
	var video *domain.Video
	if args.Get(0) != nil {
		video = args.Get(0).(*domain.Video)
	}
	return video, args.Error(1)
}

func (m *MockVideoRepository) ListVideos(ctx context.Context, filter portsrepo.ListVideosFilter) ([]domain.Video, error) {
	args := m.Called(ctx, filter)
	var videos []domain.Video
	if args.Get(0) != nil {
		videos = args.Get(0).([]domain.Video)
	}
	return videos, args.Error(1)
}

func (m *MockVideoRepository) UpdateVideo(ctx context.Context, video domain.Video) error {
	args := m.Called(ctx, video)
	return args.Error(0)
}

func (m *MockVideoRepository) DeleteVideo(ctx context.Context, videoID string) error {
	args := m.Called(ctx, videoID)
	return args.Error(0)
}

func (m *MockVideoRepository) IncrementViews(ctx context.Context, videoID string) error {
	args := m.Called(ctx, videoID)
	return args.Error(0)
}

func (m *MockVideoRepository) AppendWatchHistory(ctx context.Context, userID, videoID string) error {
	args := m.Called(ctx, userID, videoID)
	return args.Error(0)
}

func (m *MockVideoRepository) FindWatchHistory(ctx context.Context, userID string, limit, offset int) ([]domain.WatchHistoryEntry, error) {
	args := m.Called(ctx, userID, limit, offset)
	var entries []domain.WatchHistoryEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.WatchHistoryEntry)
	}
	return entries, args.Error(1)
}

type VideoServiceTestSuite struct {
	suite.Suite
	repo     *MockVideoRepository
	uploader *stubUploader
	service  portssvc.VideoSvcFacade
}

func (s *VideoServiceTestSuite) SetupTest() {
	s.repo = new(MockVideoRepository)
	s.uploader = &stubUploader{
		simpleResult: &media.UploadResult{URL: "https://cdn.example.com/thumb.png"},
		retryResult:  &media.UploadResult{URL: "https://cdn.example.com/video.mp4", Duration: 12.5},
	}
	s.service = services.NewVideoService(s.repo, s.uploader, nil)
}

func TestVideoServiceTestSuite(t *testing.T) {
	suite.Run(t, new(VideoServiceTestSuite))
}

func (s *VideoServiceTestSuite) publishedVideo(owner string) *domain.Video {
	return &domain.Video{
		VideoID:      "video-1",
		OwnerID:      owner,
		VideoURL:     "https://cdn.example.com/video.mp4",
		ThumbnailURL: "https://cdn.example.com/thumb.png",
		Title:        "First video",
		Description:  "A description",
		Views:        3,
		IsPublished:  true,
	}
}

func (s *VideoServiceTestSuite) TestUploadVideoSuccess() {
	ctx := context.Background()
	req := dto.UploadVideoRequest{Title: "  First video ", Description: "A description"}

	s.repo.On("SaveVideo", ctx, mock.MatchedBy(func(v domain.Video) bool {
		return v.OwnerID == "owner-1" &&
			v.Title == "First video" &&
			v.VideoURL == "https://cdn.example.com/video.mp4" &&
			v.ThumbnailURL == "https://cdn.example.com/thumb.png" &&
			v.Duration == 12.5 &&
			v.IsPublished
	})).Return(nil).Once()

	video, err := s.service.UploadVideo(ctx, "owner-1", req, "/tmp/video.mp4", "/tmp/thumb.png")

	s.Require().NoError(err)
	s.Require().NotNil(video)
	s.Equal("First video", video.Title)
	s.Empty(s.uploader.deleted)
	s.repo.AssertExpectations(s.T())
}

func (s *VideoServiceTestSuite) TestUploadVideoFailsWhenRetriesExhausted() {
	s.uploader.retryResult = nil

	_, err := s.service.UploadVideo(context.Background(), "owner-1", dto.UploadVideoRequest{Title: "t", Description: "d"}, "/tmp/video.mp4", "/tmp/thumb.png")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrUpstream)
	s.repo.AssertNotCalled(s.T(), "SaveVideo", mock.Anything, mock.Anything)
}

func (s *VideoServiceTestSuite) TestUploadVideoDeletesOrphanOnThumbnailFailure() {
	s.uploader.simpleResult = nil

	_, err := s.service.UploadVideo(context.Background(), "owner-1", dto.UploadVideoRequest{Title: "t", Description: "d"}, "/tmp/video.mp4", "/tmp/thumb.png")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrUpstream)
	s.Equal([]string{"https://cdn.example.com/video.mp4"}, s.uploader.deleted)
	s.repo.AssertNotCalled(s.T(), "SaveVideo", mock.Anything, mock.Anything)
}

func (s *VideoServiceTestSuite) TestGetVideoBumpsViewsAndRecordsHistory() {
	ctx := context.Background()
	video := s.publishedVideo("owner-1")

	s.repo.On("FindVideoByID", ctx, "video-1").Return(video, nil).Once()
	s.repo.On("IncrementViews", ctx, "video-1").Return(nil).Once()
	s.repo.On("AppendWatchHistory", ctx, "viewer-1", "video-1").Return(nil).Once()

	got, err := s.service.GetVideo(ctx, "video-1", "viewer-1")

	s.Require().NoError(err)
	s.Equal(int64(4), got.Views)
	s.repo.AssertExpectations(s.T())
}

func (s *VideoServiceTestSuite) TestGetVideoHidesUnpublishedFromOthers() {
	ctx := context.Background()
	video := s.publishedVideo("owner-1")
	video.IsPublished = false

	s.repo.On("FindVideoByID", ctx, "video-1").Return(video, nil).Once()

	_, err := s.service.GetVideo(ctx, "video-1", "viewer-1")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.repo.AssertNotCalled(s.T(), "IncrementViews", mock.Anything, mock.Anything)
}

func (s *VideoServiceTestSuite) TestGetVideoShowsUnpublishedToOwner() {
	ctx := context.Background()
	video := s.publishedVideo("owner-1")
	video.IsPublished = false

	s.repo.On("FindVideoByID", ctx, "video-1").Return(video, nil).Once()
	s.repo.On("IncrementViews", ctx, "video-1").Return(nil).Once()
	s.repo.On("AppendWatchHistory", ctx, "owner-1", "video-1").Return(nil).Once()

	got, err := s.service.GetVideo(ctx, "video-1", "owner-1")

	s.Require().NoError(err)
	s.False(got.IsPublished)
}

func (s *VideoServiceTestSuite) TestUpdateVideoRejectsNonOwner() {
	ctx := context.Background()
	video := s.publishedVideo("owner-1")

	s.repo.On("FindVideoByID", ctx, "video-1").Return(video, nil).Once()

	title := "New title"
	_, err := s.service.UpdateVideo(ctx, "video-1", "intruder", dto.UpdateVideoRequest{Title: &title}, "")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrForbidden)
	s.repo.AssertNotCalled(s.T(), "UpdateVideo", mock.Anything, mock.Anything)
}

func (s *VideoServiceTestSuite) TestUpdateVideoReplacesThumbnail() {
	ctx := context.Background()
	video := s.publishedVideo("owner-1")
	oldThumb := video.ThumbnailURL
	s.uploader.simpleResult = &media.UploadResult{URL: "https://cdn.example.com/new-thumb.png"}

	s.repo.On("FindVideoByID", ctx, "video-1").Return(video, nil).Once()
	s.repo.On("UpdateVideo", ctx, mock.MatchedBy(func(v domain.Video) bool {
		return v.ThumbnailURL == "https://cdn.example.com/new-thumb.png"
	})).Return(nil).Once()

	got, err := s.service.UpdateVideo(ctx, "video-1", "owner-1", dto.UpdateVideoRequest{}, "/tmp/new-thumb.png")

	s.Require().NoError(err)
	s.Equal("https://cdn.example.com/new-thumb.png", got.ThumbnailURL)
	s.Equal([]string{oldThumb}, s.uploader.deleted, "old thumbnail removed after the new one is stored")
}

func (s *VideoServiceTestSuite) TestTogglePublishFlipsFlag() {
	ctx := context.Background()
	video := s.publishedVideo("owner-1")

	s.repo.On("FindVideoByID", ctx, "video-1").Return(video, nil).Once()
	s.repo.On("UpdateVideo", ctx, mock.MatchedBy(func(v domain.Video) bool {
		return !v.IsPublished
	})).Return(nil).Once()

	got, err := s.service.TogglePublish(ctx, "video-1", "owner-1")

	s.Require().NoError(err)
	s.False(got.IsPublished)
}

func (s *VideoServiceTestSuite) TestDeleteVideoRemovesRemoteAssetsFirst() {
	ctx := context.Background()
	video := s.publishedVideo("owner-1")

	s.repo.On("FindVideoByID", ctx, "video-1").Return(video, nil).Once()
	s.repo.On("DeleteVideo", ctx, "video-1").Return(nil).Once()

	err := s.service.DeleteVideo(ctx, "video-1", "owner-1")

	s.Require().NoError(err)
	s.Equal([]string{video.VideoURL, video.ThumbnailURL}, s.uploader.deleted)
	s.repo.AssertExpectations(s.T())
}

func (s *VideoServiceTestSuite) TestListVideosPassesViewer() {
	ctx := context.Background()
	expected := []domain.Video{*s.publishedVideo("owner-1")}

	s.repo.On("ListVideos", ctx, portsrepo.ListVideosFilter{
		OwnerID:  "owner-1",
		ViewerID: "viewer-1",
		Limit:    10,
		Offset:   0,
	}).Return(expected, nil).Once()

	videos, err := s.service.ListVideos(ctx, "viewer-1", dto.ListVideosParams{Limit: 10, OwnerID: "owner-1"})

	s.Require().NoError(err)
	s.Len(videos, 1)
}
