package domain

import "time"

// Video is a published media asset owned by exactly one user. The remote URLs
// point at the external media store; the rows here only hold metadata.
type Video struct {
	VideoID      string
	OwnerID      string
	VideoURL     string
	ThumbnailURL string
	Title        string
	Description  string
	Duration     float64 // seconds, as reported at upload time
	Views        int64
	IsPublished  bool

	AuditFields
}

// WatchHistoryEntry records that a user watched a video at a point in time.
type WatchHistoryEntry struct {
	Video     Video
	WatchedAt time.Time
}
