package service

import (
	"context"
	"errors"
	"io"

	"github.com/vsp-live/profile-service/internal/domain"
)

var (
	ErrAvatarNotFound    = errors.New("avatar not found")
	ErrProfileNotFound   = errors.New("profile not found")
	ErrAvatarNameExists  = errors.New("avatar name already exists")
	ErrProfileNameExists = errors.New("profile name already exists")
	ErrIncorrectFile     = errors.New("incorrect avatar file")
)

// AvatarService defines the business logic for managing avatars.
type AvatarService interface {
	// CreateAvatar validates the name and file extension, uploads the image
	// bytes to the object store and persists the avatar row. The upload
	// happens before the row is written, so a failed upload leaves no row.
	CreateAvatar(ctx context.Context, name, fileName string, file io.Reader, size int64, contentType string) (*domain.Avatar, error)
	GetAvatars(ctx context.Context) ([]domain.Avatar, error)
	GetAvatar(ctx context.Context, id string) (*domain.Avatar, error)
	// GetRandomAvatar returns a random avatar, or ErrAvatarNotFound when
	// none exist. Callers must tolerate the empty case.
	GetRandomAvatar(ctx context.Context) (*domain.Avatar, error)
	// DeleteAvatar removes the stored blob first and the row second; a
	// failed blob delete leaves the row in place.
	DeleteAvatar(ctx context.Context, id string) error
}

// ProfileService defines the business logic for managing user profiles.
type ProfileService interface {
	// CreateDefaultProfile creates the initial profile for a new account.
	// It skips the name-uniqueness check and picks a random avatar; when no
	// avatars exist the profile is created without one.
	CreateDefaultProfile(ctx context.Context, userID, firstName string) (*domain.Profile, error)
	CreateProfile(ctx context.Context, userID string, req *domain.CreateProfileRequest) (*domain.Profile, error)
	GetAllProfiles(ctx context.Context, userID string) ([]domain.Profile, error)
	GetProfile(ctx context.Context, userID, profileID string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, userID, profileID string, req *domain.CreateProfileRequest) (*domain.Profile, error)
	DeleteProfile(ctx context.Context, userID, profileID string) error
	// DeleteAllProfiles removes every profile owned by userID. Idempotent.
	DeleteAllProfiles(ctx context.Context, userID string) error
}
