package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vsp-live/profile-service/internal/domain"
)

// GormProfileRepository implements ProfileRepository using GORM.
type GormProfileRepository struct {
	db *gorm.DB
}

// NewGormProfileRepository creates a new GORM-based profile repository.
func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

// Create persists a new profile row, generating its id.
func (r *GormProfileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	profile.ID = uuid.New().String()

	model := domain.ProfileToModel(profile)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}

	profile.CreatedAt = model.CreatedAt
	profile.UpdatedAt = model.UpdatedAt
	return nil
}

// GetAllByUserID returns all profiles owned by userID.
func (r *GormProfileRepository) GetAllByUserID(ctx context.Context, userID string) ([]domain.Profile, error) {
	var models []domain.ProfileModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	profiles := make([]domain.Profile, len(models))
	for i := range models {
		profiles[i] = *models[i].ToDomain()
	}
	return profiles, nil
}

// GetByIDAndUserID retrieves a profile by id scoped to its owning user.
// A profile belonging to a different user is indistinguishable from a
// missing one.
func (r *GormProfileRepository) GetByIDAndUserID(ctx context.Context, id, userID string) (*domain.Profile, error) {
	var model domain.ProfileModel
	result := r.db.WithContext(ctx).First(&model, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// Update overwrites the mutable fields of a profile.
func (r *GormProfileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	model := domain.ProfileToModel(profile)
	result := r.db.WithContext(ctx).Model(&domain.ProfileModel{}).
		Where("id = ? AND user_id = ?", profile.ID, profile.UserID).
		Updates(map[string]interface{}{
			"profile_name": model.ProfileName,
			"avatar_id":    model.AvatarID,
			"is_kid":       model.IsKid,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}

	var updated domain.ProfileModel
	r.db.WithContext(ctx).First(&updated, "id = ?", profile.ID)
	profile.UpdatedAt = updated.UpdatedAt
	return nil
}

// Delete removes the profile with the given id owned by userID.
func (r *GormProfileRepository) Delete(ctx context.Context, id, userID string) error {
	result := r.db.WithContext(ctx).Delete(&domain.ProfileModel{}, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// DeleteAllByUserID removes every profile owned by userID. Matching zero
// rows is not an error.
func (r *GormProfileRepository) DeleteAllByUserID(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Delete(&domain.ProfileModel{}, "user_id = ?", userID).Error
}

// ExistsByUserIDAndName reports whether userID already has a profile named name.
func (r *GormProfileRepository) ExistsByUserIDAndName(ctx context.Context, userID, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.ProfileModel{}).
		Where("user_id = ? AND profile_name = ?", userID, name).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByUserIDAndNameExcluding reports whether a profile other than
// excludeID already uses name under userID.
func (r *GormProfileRepository) ExistsByUserIDAndNameExcluding(ctx context.Context, userID, name, excludeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.ProfileModel{}).
		Where("user_id = ? AND profile_name = ? AND id <> ?", userID, name, excludeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
