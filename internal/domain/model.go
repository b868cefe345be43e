package domain

import "time"

// AvatarModel is the GORM model for the avatars table.
//
// avatar_name uniqueness is enforced by an existence pre-check in the
// service layer, not by a database constraint.
type AvatarModel struct {
	ID         string    `gorm:"type:varchar(36);primaryKey"`
	AvatarName string    `gorm:"type:varchar(100);not null"`
	ObjectKey  string    `gorm:"type:varchar(255);not null"`
	ImageLink  string    `gorm:"type:varchar(512);not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for AvatarModel.
func (AvatarModel) TableName() string {
	return "avatars"
}

// ToDomain converts AvatarModel to a domain Avatar.
func (m *AvatarModel) ToDomain() *Avatar {
	return &Avatar{
		ID:         m.ID,
		AvatarName: m.AvatarName,
		ObjectKey:  m.ObjectKey,
		ImageLink:  m.ImageLink,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// AvatarToModel converts a domain Avatar to AvatarModel.
func AvatarToModel(a *Avatar) *AvatarModel {
	return &AvatarModel{
		ID:         a.ID,
		AvatarName: a.AvatarName,
		ObjectKey:  a.ObjectKey,
		ImageLink:  a.ImageLink,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// ProfileModel is the GORM model for the user_profiles table.
//
// avatar_id is a plain column, not a foreign key: deleting an avatar does
// not block on or cascade to profiles referencing it. Default profiles may
// have no avatar when none exist at creation time.
type ProfileModel struct {
	ID          string    `gorm:"type:varchar(36);primaryKey"`
	UserID      string    `gorm:"type:varchar(36);index;not null"`
	ProfileName string    `gorm:"type:varchar(50);not null"`
	AvatarID    *string   `gorm:"type:varchar(36)"`
	IsKid       bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for ProfileModel.
func (ProfileModel) TableName() string {
	return "user_profiles"
}

// ToDomain converts ProfileModel to a domain Profile.
func (m *ProfileModel) ToDomain() *Profile {
	p := &Profile{
		ID:          m.ID,
		UserID:      m.UserID,
		ProfileName: m.ProfileName,
		IsKid:       m.IsKid,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.AvatarID != nil {
		p.AvatarID = *m.AvatarID
	}
	return p
}

// ProfileToModel converts a domain Profile to ProfileModel.
func ProfileToModel(p *Profile) *ProfileModel {
	m := &ProfileModel{
		ID:          p.ID,
		UserID:      p.UserID,
		ProfileName: p.ProfileName,
		IsKid:       p.IsKid,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.AvatarID != "" {
		id := p.AvatarID
		m.AvatarID = &id
	}
	return m
}
