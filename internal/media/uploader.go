package media

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Uploader wraps a BlobStore with the platform's upload policies: bounded
// retry with a fixed backoff for video assets, single-attempt best-effort for
// secondary assets, and cleanup of the local temp file on every outcome.
type Uploader struct {
	store       BlobStore
	logger      *slog.Logger
	maxAttempts int
	backoff     time.Duration
}

// NewUploader constructs an Uploader. maxAttempts defaults to 3 and backoff
// to one second when out of range.
func NewUploader(store BlobStore, maxAttempts int, backoff time.Duration, logger *slog.Logger) *Uploader {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if backoff <= 0 {
		backoff = time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Uploader{
		store:       store,
		logger:      logger,
		maxAttempts: maxAttempts,
		backoff:     backoff,
	}
}

// UploadSimple makes a single upload attempt. The local file is removed
// whether the attempt succeeds or fails; nil is returned on failure and the
// caller decides whether that is fatal.
func (u *Uploader) UploadSimple(ctx context.Context, localPath string) *UploadResult {
	if localPath == "" {
		return nil
	}
	defer u.removeLocal(localPath)

	result, err := u.store.Upload(ctx, localPath, KindAuto)
	if err != nil {
		u.logger.Warn("upload failed",
			slog.String("path", localPath),
			slog.String("error", err.Error()))
		return nil
	}
	return result
}

// UploadWithRetry uploads a video asset with up to maxAttempts attempts and a
// fixed backoff between them. The backoff wait suspends only the calling
// request. The local file is removed after the final outcome, success or
// exhaustion; nil is returned when every attempt failed.
func (u *Uploader) UploadWithRetry(ctx context.Context, localPath string) *UploadResult {
	if localPath == "" {
		return nil
	}
	defer u.removeLocal(localPath)

	for attempt := 1; attempt <= u.maxAttempts; attempt++ {
		result, err := u.store.Upload(ctx, localPath, KindVideo)
		if err == nil {
			return result
		}

		u.logger.Warn("video upload attempt failed",
			slog.String("path", localPath),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", u.maxAttempts),
			slog.String("error", err.Error()))

		if attempt == u.maxAttempts {
			break
		}

		timer := time.NewTimer(u.backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			u.logger.Warn("video upload abandoned", slog.String("path", localPath), slog.String("error", ctx.Err().Error()))
			return nil
		case <-timer.C:
		}
	}

	u.logger.Error("video upload exhausted retries", slog.String("path", localPath))
	return nil
}

// Delete removes the remote asset behind remoteURL. The provider error is
// surfaced so callers can decide policy; most treat deletion as best-effort
// and only log.
func (u *Uploader) Delete(ctx context.Context, remoteURL string) error {
	objectID := ObjectIDFromURL(remoteURL)
	if objectID == "" {
		return nil // nothing stored, nothing to delete
	}

	if err := u.store.Delete(ctx, objectID); err != nil {
		u.logger.Warn("remote delete failed",
			slog.String("url", remoteURL),
			slog.String("object_id", objectID),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}

// ObjectIDFromURL derives the remote object identifier from a public URL: the
// final path segment with its extension removed.
func ObjectIDFromURL(rawURL string) string {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return ""
	}
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	segment := trimmed
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		segment = trimmed[i+1:]
	}
	if i := strings.LastIndex(segment, "."); i > 0 {
		segment = segment[:i]
	}
	return segment
}

func (u *Uploader) removeLocal(localPath string) {
	if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
		u.logger.Warn("temp file cleanup failed",
			slog.String("path", localPath),
			slog.String("error", err.Error()))
	}
}
