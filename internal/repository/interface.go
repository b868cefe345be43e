package repository

import (
	"context"
	"errors"

	"github.com/vsp-live/profile-service/internal/domain"
)

var (
	ErrAvatarNotFound  = errors.New("avatar not found")
	ErrProfileNotFound = errors.New("profile not found")
)

// AvatarRepository defines persistence operations for avatars.
type AvatarRepository interface {
	Create(ctx context.Context, avatar *domain.Avatar) error
	GetAll(ctx context.Context) ([]domain.Avatar, error)
	GetByID(ctx context.Context, id string) (*domain.Avatar, error)
	// GetRandom returns one avatar chosen uniformly at random,
	// or ErrAvatarNotFound when no avatars exist.
	GetRandom(ctx context.Context) (*domain.Avatar, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Delete(ctx context.Context, id string) error
}

// ProfileRepository defines persistence operations for user profiles.
// All lookups are scoped by the owning user id.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetAllByUserID(ctx context.Context, userID string) ([]domain.Profile, error)
	GetByIDAndUserID(ctx context.Context, id, userID string) (*domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) error
	Delete(ctx context.Context, id, userID string) error
	// DeleteAllByUserID removes every profile owned by userID.
	// Deleting zero rows is not an error.
	DeleteAllByUserID(ctx context.Context, userID string) error
	ExistsByUserIDAndName(ctx context.Context, userID, name string) (bool, error)
	// ExistsByUserIDAndNameExcluding reports whether a profile other than
	// excludeID already uses name under userID.
	ExistsByUserIDAndNameExcluding(ctx context.Context, userID, name, excludeID string) (bool, error)
}
