package repository

import (
	"context"
	"errors"
	"math/rand"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vsp-live/profile-service/internal/domain"
)

// GormAvatarRepository implements AvatarRepository using GORM.
type GormAvatarRepository struct {
	db *gorm.DB
}

// NewGormAvatarRepository creates a new GORM-based avatar repository.
func NewGormAvatarRepository(db *gorm.DB) *GormAvatarRepository {
	return &GormAvatarRepository{db: db}
}

// Create persists a new avatar row, generating its id.
func (r *GormAvatarRepository) Create(ctx context.Context, avatar *domain.Avatar) error {
	avatar.ID = uuid.New().String()

	model := domain.AvatarToModel(avatar)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}

	avatar.CreatedAt = model.CreatedAt
	avatar.UpdatedAt = model.UpdatedAt
	return nil
}

// GetAll returns all avatars.
func (r *GormAvatarRepository) GetAll(ctx context.Context) ([]domain.Avatar, error) {
	var models []domain.AvatarModel
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, err
	}

	avatars := make([]domain.Avatar, len(models))
	for i := range models {
		avatars[i] = *models[i].ToDomain()
	}
	return avatars, nil
}

// GetByID retrieves an avatar by id.
func (r *GormAvatarRepository) GetByID(ctx context.Context, id string) (*domain.Avatar, error) {
	var model domain.AvatarModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrAvatarNotFound
		}
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// GetRandom returns one avatar chosen uniformly at random.
func (r *GormAvatarRepository) GetRandom(ctx context.Context) (*domain.Avatar, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.AvatarModel{}).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrAvatarNotFound
	}

	var model domain.AvatarModel
	result := r.db.WithContext(ctx).
		Offset(rand.Intn(int(count))).
		Order("id").
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrAvatarNotFound
		}
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// ExistsByName reports whether an avatar with the given name exists.
func (r *GormAvatarRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.AvatarModel{}).
		Where("avatar_name = ?", name).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete removes the avatar row with the given id.
func (r *GormAvatarRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&domain.AvatarModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAvatarNotFound
	}
	return nil
}
