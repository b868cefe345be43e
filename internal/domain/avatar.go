package domain

import "time"

// Avatar is an administrator-managed named image. Avatars are uploaded by
// admins and assigned to user profiles either by default or by selection.
type Avatar struct {
	ID         string    `json:"id"`
	AvatarName string    `json:"avatarName"`
	ObjectKey  string    `json:"objectKey"`
	ImageLink  string    `json:"imageLink"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
