package services

import (
	"context"

	"github.com/vidtube/vidtube_backend/internal/media"
)

// MediaUploaderSvc is the upload orchestration surface the domain services
// depend on. *media.Uploader satisfies it; tests substitute stubs.
type MediaUploaderSvc interface {
	// UploadSimple makes one best-effort attempt; nil means no asset was stored.
	UploadSimple(ctx context.Context, localPath string) *media.UploadResult

	// UploadWithRetry uploads a video asset with bounded retries; nil means
	// every attempt failed.
	UploadWithRetry(ctx context.Context, localPath string) *media.UploadResult

	// Delete removes the remote asset behind a public URL.
	Delete(ctx context.Context, remoteURL string) error
}
