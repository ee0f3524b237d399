package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidtube/vidtube_backend/internal/apperrors"
	"github.com/vidtube/vidtube_backend/internal/core/domain"
	portsrepo "github.com/vidtube/vidtube_backend/internal/core/ports/repositories"
)

// PgxVideoRepository persists video metadata and watch history in PostgreSQL.
type PgxVideoRepository struct {
	BaseRepository
}

// NewVideoRepository creates a new PgxVideoRepository.
func NewVideoRepository(pool *pgxpool.Pool) portsrepo.VideoRepository {
	return &PgxVideoRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.VideoRepository = (*PgxVideoRepository)(nil)

const videoColumns = `
	video_id, owner_id, video_url, thumbnail_url, title, description,
	duration_seconds, views, is_published, created_at, updated_at
`

func scanVideo(row pgx.Row) (*domain.Video, error) {
	var v domain.Video
	err := row.Scan(
		&v.VideoID,
		&v.OwnerID,
		&v.VideoURL,
		&v.ThumbnailURL,
		&v.Title,
		&v.Description,
		&v.Duration,
		&v.Views,
		&v.IsPublished,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *PgxVideoRepository) SaveVideo(ctx context.Context, video domain.Video) error {
	query := `
		INSERT INTO videos (video_id, owner_id, video_url, thumbnail_url, title,
			description, duration_seconds, views, is_published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		video.VideoID,
		video.OwnerID,
		video.VideoURL,
		video.ThumbnailURL,
		video.Title,
		video.Description,
		video.Duration,
		video.Views,
		video.IsPublished,
		video.CreatedAt,
		video.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save video: %w", err)
	}
	return nil
}

func (r *PgxVideoRepository) FindVideoByID(ctx context.Context, videoID string) (*domain.Video, error) {
	query := `SELECT` + videoColumns + `FROM videos WHERE video_id = $1;`
	video, err := scanVideo(r.Pool.QueryRow(ctx, query, videoID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find video %s: %w", videoID, err)
	}
	return video, nil
}

func (r *PgxVideoRepository) ListVideos(ctx context.Context, filter portsrepo.ListVideosFilter) ([]domain.Video, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT` + videoColumns + `
		FROM videos
		WHERE ($1 = '' OR owner_id = $1)
		  AND (is_published OR owner_id = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4;
	`
	rows, err := r.Pool.Query(ctx, query, filter.OwnerID, filter.ViewerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	defer rows.Close()

	var videos []domain.Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video row: %w", err)
		}
		videos = append(videos, *video)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate video rows: %w", err)
	}
	return videos, nil
}

func (r *PgxVideoRepository) UpdateVideo(ctx context.Context, video domain.Video) error {
	query := `
		UPDATE videos SET
			title = $2,
			description = $3,
			thumbnail_url = $4,
			is_published = $5,
			updated_at = $6
		WHERE video_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		video.VideoID,
		video.Title,
		video.Description,
		video.ThumbnailURL,
		video.IsPublished,
		video.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update video %s: %w", video.VideoID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxVideoRepository) DeleteVideo(ctx context.Context, videoID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM watch_history WHERE video_id = $1;`, videoID); err != nil {
		return fmt.Errorf("failed to delete watch history for video %s: %w", videoID, err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM videos WHERE video_id = $1;`, videoID)
	if err != nil {
		return fmt.Errorf("failed to delete video %s: %w", videoID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return r.Commit(ctx, tx)
}

func (r *PgxVideoRepository) IncrementViews(ctx context.Context, videoID string) error {
	tag, err := r.Pool.Exec(ctx, `UPDATE videos SET views = views + 1 WHERE video_id = $1;`, videoID)
	if err != nil {
		return fmt.Errorf("failed to increment views for video %s: %w", videoID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxVideoRepository) AppendWatchHistory(ctx context.Context, userID, videoID string) error {
	query := `
		INSERT INTO watch_history (user_id, video_id, watched_at)
		VALUES ($1, $2, now());
	`
	if _, err := r.Pool.Exec(ctx, query, userID, videoID); err != nil {
		return fmt.Errorf("failed to append watch history: %w", err)
	}
	return nil
}

func (r *PgxVideoRepository) FindWatchHistory(ctx context.Context, userID string, limit, offset int) ([]domain.WatchHistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT v.video_id, v.owner_id, v.video_url, v.thumbnail_url, v.title,
			v.description, v.duration_seconds, v.views, v.is_published,
			v.created_at, v.updated_at, h.watched_at
		FROM watch_history h
		JOIN videos v ON v.video_id = h.video_id
		WHERE h.user_id = $1
		ORDER BY h.watched_at DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query watch history: %w", err)
	}
	defer rows.Close()

	var entries []domain.WatchHistoryEntry
	for rows.Next() {
		var e domain.WatchHistoryEntry
		err := rows.Scan(
			&e.Video.VideoID,
			&e.Video.OwnerID,
			&e.Video.VideoURL,
			&e.Video.ThumbnailURL,
			&e.Video.Title,
			&e.Video.Description,
			&e.Video.Duration,
			&e.Video.Views,
			&e.Video.IsPublished,
			&e.Video.CreatedAt,
			&e.Video.UpdatedAt,
			&e.WatchedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan watch history row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate watch history rows: %w", err)
	}
	return entries, nil
}
