package domain

import "time"

// Profile is a named persona under a user account. Each profile references
// one avatar; the avatar field carries read-through display data only.
type Profile struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	ProfileName string    `json:"profileName"`
	AvatarID    string    `json:"avatarId,omitempty"`
	Avatar      *Avatar   `json:"avatar,omitempty"`
	IsKid       bool      `json:"isKid"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateProfileRequest is the body for creating or updating a profile.
type CreateProfileRequest struct {
	Name     string `json:"name" binding:"required,max=50"`
	AvatarID string `json:"avatarId" binding:"required,uuid"`
	IsKid    bool   `json:"isKid"`
}
