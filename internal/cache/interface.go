package cache

import (
	"context"
	"errors"

	"github.com/vsp-live/profile-service/internal/domain"
)

var ErrCacheMiss = errors.New("cache miss")

// AvatarCache caches the admin-managed avatar catalog. Avatars change
// rarely and are read on every profile render, so a short TTL pays off.
type AvatarCache interface {
	GetList(ctx context.Context) ([]domain.Avatar, error)
	SetList(ctx context.Context, avatars []domain.Avatar) error
	GetByID(ctx context.Context, id string) (*domain.Avatar, error)
	SetByID(ctx context.Context, avatar *domain.Avatar) error
	// Invalidate drops the list entry and the entry for the given avatar.
	Invalidate(ctx context.Context, avatarID string) error
	Close() error
}
