package domain

import "time"

// User is an identity on the platform. Every user doubles as a channel that
// other users can subscribe to.
type User struct {
	UserID        string
	Username      string // unique, stored lowercase
	Email         string // unique, stored lowercase
	FullName      string
	PasswordHash  string
	AvatarURL     string
	CoverImageURL string

	// RefreshTokenHash is the SHA-256 hash of the single currently valid
	// refresh token, or empty when none has been issued or the user logged
	// out. It is only ever written by the auth service.
	RefreshTokenHash      string
	RefreshTokenExpiresAt *time.Time

	AuditFields
}

// Sanitized returns a copy of the user with credential material cleared.
// This is the only form that may cross the API boundary or be attached to a
// request context.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	u.RefreshTokenHash = ""
	u.RefreshTokenExpiresAt = nil
	return u
}

// ChannelProfile is the public view of a user's channel, including the
// subscription counters derived from the subscriptions store.
type ChannelProfile struct {
	UserID            string
	Username          string
	FullName          string
	AvatarURL         string
	CoverImageURL     string
	SubscriberCount   int64
	SubscribedToCount int64
	IsSubscribed      bool
}
