package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/vsp-live/profile-service/internal/audit"
	"github.com/vsp-live/profile-service/internal/cache"
	"github.com/vsp-live/profile-service/internal/domain"
	"github.com/vsp-live/profile-service/internal/repository"
	"github.com/vsp-live/profile-service/pkg/log"
	"github.com/vsp-live/profile-service/pkg/storage"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".webp": true,
	".svg":  true,
}

// avatarServiceImpl implements AvatarService.
type avatarServiceImpl struct {
	repo  repository.AvatarRepository
	store storage.Storage
	cache cache.AvatarCache
}

// NewAvatarService creates a new avatar service. The cache may be nil,
// in which case all reads go straight to the repository.
func NewAvatarService(repo repository.AvatarRepository, store storage.Storage, avatarCache cache.AvatarCache) AvatarService {
	return &avatarServiceImpl{
		repo:  repo,
		store: store,
		cache: avatarCache,
	}
}

// CreateAvatar validates, uploads and persists a new avatar.
func (s *avatarServiceImpl) CreateAvatar(ctx context.Context, name, fileName string, file io.Reader, size int64, contentType string) (*domain.Avatar, error) {
	l := log.Ctx(ctx)
	l.Info().Str("avatar_name", name).Msg("creating avatar")

	exists, err := s.repo.ExistsByName(ctx, name)
	if err != nil {
		l.Error().Err(err).Msg("failed to check avatar name")
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrAvatarNameExists, name)
	}

	ext, err := fileExtension(fileName)
	if err != nil {
		return nil, err
	}
	objectKey := uuid.New().String() + ext

	// Upload before persist: a failed upload leaves no row behind.
	if err := s.store.Put(ctx, objectKey, file, size, contentType); err != nil {
		l.Error().Err(err).Str(log.FieldObjectKey, objectKey).Msg("avatar upload failed")
		return nil, err
	}

	avatar := &domain.Avatar{
		AvatarName: name,
		ObjectKey:  objectKey,
		ImageLink:  s.store.ObjectURL(objectKey),
	}
	if err := s.repo.Create(ctx, avatar); err != nil {
		// The uploaded blob is orphaned here; log the key so it can be
		// cleaned up out of band.
		l.Error().Err(err).Str(log.FieldObjectKey, objectKey).Msg("avatar persist failed after upload")
		return nil, err
	}

	s.invalidateCache(ctx, avatar.ID)
	audit.Log(ctx, audit.ActionAvatarCreate, avatar.ID, "avatar created")
	return avatar, nil
}

// GetAvatars returns all avatars.
func (s *avatarServiceImpl) GetAvatars(ctx context.Context) ([]domain.Avatar, error) {
	l := log.Ctx(ctx)
	l.Info().Msg("getting all avatars")

	if s.cache != nil {
		if cached, err := s.cache.GetList(ctx); err == nil {
			return cached, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			l.Warn().Err(err).Msg("avatar list cache read failed")
		}
	}

	avatars, err := s.repo.GetAll(ctx)
	if err != nil {
		l.Error().Err(err).Msg("failed to get avatars")
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetList(ctx, avatars); err != nil {
			l.Warn().Err(err).Msg("avatar list cache write failed")
		}
	}
	return avatars, nil
}

// GetAvatar retrieves an avatar by id.
func (s *avatarServiceImpl) GetAvatar(ctx context.Context, id string) (*domain.Avatar, error) {
	l := log.Ctx(ctx)
	l.Info().Str(log.FieldAvatarID, id).Msg("getting avatar")

	if s.cache != nil {
		if cached, err := s.cache.GetByID(ctx, id); err == nil {
			return cached, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			l.Warn().Err(err).Msg("avatar cache read failed")
		}
	}

	avatar, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAvatarNotFound) {
			return nil, ErrAvatarNotFound
		}
		l.Error().Err(err).Str(log.FieldAvatarID, id).Msg("failed to get avatar")
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetByID(ctx, avatar); err != nil {
			l.Warn().Err(err).Msg("avatar cache write failed")
		}
	}
	return avatar, nil
}

// GetRandomAvatar returns one avatar chosen uniformly at random.
func (s *avatarServiceImpl) GetRandomAvatar(ctx context.Context) (*domain.Avatar, error) {
	l := log.Ctx(ctx)
	l.Info().Msg("getting random avatar")

	avatar, err := s.repo.GetRandom(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrAvatarNotFound) {
			return nil, ErrAvatarNotFound
		}
		l.Error().Err(err).Msg("failed to get random avatar")
		return nil, err
	}
	return avatar, nil
}

// DeleteAvatar removes the avatar blob and row.
func (s *avatarServiceImpl) DeleteAvatar(ctx context.Context, id string) error {
	l := log.Ctx(ctx)
	l.Info().Str(log.FieldAvatarID, id).Msg("deleting avatar")

	avatar, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAvatarNotFound) {
			return ErrAvatarNotFound
		}
		l.Error().Err(err).Str(log.FieldAvatarID, id).Msg("failed to get avatar for delete")
		return err
	}

	// Blob delete before row delete, mirroring the create ordering.
	if err := s.store.Delete(ctx, avatar.ObjectKey); err != nil {
		l.Error().Err(err).Str(log.FieldObjectKey, avatar.ObjectKey).Msg("avatar blob delete failed")
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrAvatarNotFound) {
			return ErrAvatarNotFound
		}
		l.Error().Err(err).Str(log.FieldAvatarID, id).Msg("failed to delete avatar row")
		return err
	}

	s.invalidateCache(ctx, id)
	audit.Log(ctx, audit.ActionAvatarDelete, id, "avatar deleted")
	return nil
}

func (s *avatarServiceImpl) invalidateCache(ctx context.Context, avatarID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, avatarID); err != nil {
		logger := log.Ctx(ctx)
		logger.Warn().Err(err).Str(log.FieldAvatarID, avatarID).Msg("avatar cache invalidation failed")
	}
}

// fileExtension extracts and validates the extension of an uploaded file
// name against the allow-list. The compare is case-insensitive.
func fileExtension(fileName string) (string, error) {
	idx := strings.LastIndex(fileName, ".")
	if idx == -1 {
		return "", fmt.Errorf("%w: no extension found", ErrIncorrectFile)
	}

	ext := strings.ToLower(fileName[idx:])
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w: %s", ErrIncorrectFile, ext)
	}
	return ext, nil
}
