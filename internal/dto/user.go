package dto

import (
	"time"

	"github.com/vidtube/vidtube_backend/internal/core/domain"
)

// RegisterUserRequest carries the multipart form fields for registration.
// The avatar (required) and cover image (optional) files travel alongside it.
type RegisterUserRequest struct {
	Username string `form:"username" binding:"required,username"`
	Email    string `form:"email" binding:"required,email"`
	FullName string `form:"fullName" binding:"required"`
	Password string `form:"password" binding:"required,min=8"`
}

// LoginRequest identifies a user by username or email. At least one of the
// two must be present.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest carries a password change for the current user.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// UpdateAccountRequest updates the mutable profile fields.
type UpdateAccountRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

// UserResponse is the sanitized identity view. It never carries the password
// hash or the stored refresh token.
type UserResponse struct {
	UserID        string    `json:"userId"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	AvatarURL     string    `json:"avatarUrl"`
	CoverImageURL string    `json:"coverImageUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ToUserResponse converts a domain.User to its sanitized response form.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:        user.UserID,
		Username:      user.Username,
		Email:         user.Email,
		FullName:      user.FullName,
		AvatarURL:     user.AvatarURL,
		CoverImageURL: user.CoverImageURL,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}

// TokenPair is the issued access/refresh credential pair.
type TokenPair struct {
	AccessToken           string    `json:"accessToken"`
	RefreshToken          string    `json:"refreshToken"`
	AccessTokenExpiresAt  time.Time `json:"accessTokenExpiresAt"`
	RefreshTokenExpiresAt time.Time `json:"refreshTokenExpiresAt"`
}

// LoginResponse is returned by login: the sanitized user plus both tokens.
// The same tokens are also delivered as http-only cookies.
type LoginResponse struct {
	User   UserResponse `json:"user"`
	Tokens TokenPair    `json:"tokens"`
}

// RefreshResponse is returned by a successful token rotation.
type RefreshResponse struct {
	Tokens TokenPair `json:"tokens"`
}

// ChannelProfileResponse is the public channel view with subscription counters.
type ChannelProfileResponse struct {
	UserID            string `json:"userId"`
	Username          string `json:"username"`
	FullName          string `json:"fullName"`
	AvatarURL         string `json:"avatarUrl"`
	CoverImageURL     string `json:"coverImageUrl,omitempty"`
	SubscriberCount   int64  `json:"subscriberCount"`
	SubscribedToCount int64  `json:"subscribedToCount"`
	IsSubscribed      bool   `json:"isSubscribed"`
}

// ToChannelProfileResponse converts a domain.ChannelProfile.
func ToChannelProfileResponse(p *domain.ChannelProfile) ChannelProfileResponse {
	return ChannelProfileResponse{
		UserID:            p.UserID,
		Username:          p.Username,
		FullName:          p.FullName,
		AvatarURL:         p.AvatarURL,
		CoverImageURL:     p.CoverImageURL,
		SubscriberCount:   p.SubscriberCount,
		SubscribedToCount: p.SubscribedToCount,
		IsSubscribed:      p.IsSubscribed,
	}
}

// WatchHistoryEntryResponse is one watched video in a user's history.
type WatchHistoryEntryResponse struct {
	Video     VideoResponse `json:"video"`
	WatchedAt time.Time     `json:"watchedAt"`
}

// ToWatchHistoryResponse converts the ordered history entries.
func ToWatchHistoryResponse(entries []domain.WatchHistoryEntry) []WatchHistoryEntryResponse {
	out := make([]WatchHistoryEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = WatchHistoryEntryResponse{
			Video:     ToVideoResponse(&e.Video),
			WatchedAt: e.WatchedAt,
		}
	}
	return out
}
