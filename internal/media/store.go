package media

import "context"

// Kind selects how the remote store should treat an asset.
type Kind string

const (
	// KindAuto lets the store infer the asset type (images, avatars, thumbnails).
	KindAuto Kind = "auto"
	// KindVideo marks large video assets; duration is probed for these.
	KindVideo Kind = "video"
)

// UploadResult describes a successfully stored remote asset.
type UploadResult struct {
	// URL is the stable public location of the asset.
	URL string
	// Duration is the media duration in seconds, when known (video uploads).
	Duration float64
}

// BlobStore is the contract against the external media host. Implementations
// perform a single upload or delete attempt; retry policy lives in Uploader.
type BlobStore interface {
	// Upload stores the file at localPath and returns its public location.
	Upload(ctx context.Context, localPath string, kind Kind) (*UploadResult, error)

	// Delete removes the remote object identified by objectID.
	Delete(ctx context.Context, objectID string) error
}
