package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vsp-live/profile-service/internal/audit"
	"github.com/vsp-live/profile-service/internal/domain"
	"github.com/vsp-live/profile-service/internal/repository"
	"github.com/vsp-live/profile-service/pkg/log"
)

// profileServiceImpl implements ProfileService.
type profileServiceImpl struct {
	repo    repository.ProfileRepository
	avatars AvatarService
}

// NewProfileService creates a new profile service.
func NewProfileService(repo repository.ProfileRepository, avatars AvatarService) ProfileService {
	return &profileServiceImpl{
		repo:    repo,
		avatars: avatars,
	}
}

// CreateDefaultProfile creates the initial profile for a new account.
// No uniqueness check: default profiles are exempt, and message redelivery
// may create duplicates (accepted at-least-once behavior).
func (s *profileServiceImpl) CreateDefaultProfile(ctx context.Context, userID, firstName string) (*domain.Profile, error) {
	l := log.Ctx(ctx)
	l.Info().Str(log.FieldUserID, userID).Msg("creating default profile")

	profile := &domain.Profile{
		UserID:      userID,
		ProfileName: firstName,
		IsKid:       false,
	}

	avatar, err := s.avatars.GetRandomAvatar(ctx)
	if err != nil && !errors.Is(err, ErrAvatarNotFound) {
		return nil, err
	}
	if avatar != nil {
		profile.AvatarID = avatar.ID
		profile.Avatar = avatar
	}

	if err := s.repo.Create(ctx, profile); err != nil {
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to create default profile")
		return nil, err
	}

	audit.Log(ctx, audit.ActionProfileCreateDefault, profile.ID, "default profile created")
	return profile, nil
}

// CreateProfile creates a profile chosen by the account owner.
func (s *profileServiceImpl) CreateProfile(ctx context.Context, userID string, req *domain.CreateProfileRequest) (*domain.Profile, error) {
	l := log.Ctx(ctx)
	l.Info().Str(log.FieldUserID, userID).Msg("creating profile")

	exists, err := s.repo.ExistsByUserIDAndName(ctx, userID, req.Name)
	if err != nil {
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to check profile name")
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrProfileNameExists, req.Name)
	}

	avatar, err := s.avatars.GetAvatar(ctx, req.AvatarID)
	if err != nil {
		return nil, err
	}

	profile := &domain.Profile{
		UserID:      userID,
		ProfileName: req.Name,
		AvatarID:    avatar.ID,
		Avatar:      avatar,
		IsKid:       req.IsKid,
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to create profile")
		return nil, err
	}

	audit.Log(ctx, audit.ActionProfileCreate, profile.ID, "profile created")
	return profile, nil
}

// GetAllProfiles returns all profiles owned by userID.
func (s *profileServiceImpl) GetAllProfiles(ctx context.Context, userID string) ([]domain.Profile, error) {
	l := log.Ctx(ctx)
	l.Info().Str(log.FieldUserID, userID).Msg("getting all profiles")

	profiles, err := s.repo.GetAllByUserID(ctx, userID)
	if err != nil {
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to get profiles")
		return nil, err
	}

	for i := range profiles {
		s.attachAvatar(ctx, &profiles[i])
	}
	return profiles, nil
}

// GetProfile retrieves a profile scoped to its owning user.
func (s *profileServiceImpl) GetProfile(ctx context.Context, userID, profileID string) (*domain.Profile, error) {
	l := log.Ctx(ctx)
	l.Info().Str(log.FieldUserID, userID).Str(log.FieldProfileID, profileID).Msg("getting profile")

	profile, err := s.repo.GetByIDAndUserID(ctx, profileID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		l.Error().Err(err).Str(log.FieldProfileID, profileID).Msg("failed to get profile")
		return nil, err
	}

	s.attachAvatar(ctx, profile)
	return profile, nil
}

// UpdateProfile overwrites name, avatar and kid flag. The profile's own
// current name is excluded from the collision check.
func (s *profileServiceImpl) UpdateProfile(ctx context.Context, userID, profileID string, req *domain.CreateProfileRequest) (*domain.Profile, error) {
	l := log.Ctx(ctx)
	l.Info().Str(log.FieldUserID, userID).Str(log.FieldProfileID, profileID).Msg("updating profile")

	exists, err := s.repo.ExistsByUserIDAndNameExcluding(ctx, userID, req.Name, profileID)
	if err != nil {
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to check profile name")
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrProfileNameExists, req.Name)
	}

	profile, err := s.repo.GetByIDAndUserID(ctx, profileID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		l.Error().Err(err).Str(log.FieldProfileID, profileID).Msg("failed to get profile for update")
		return nil, err
	}

	avatar, err := s.avatars.GetAvatar(ctx, req.AvatarID)
	if err != nil {
		return nil, err
	}

	profile.ProfileName = req.Name
	profile.AvatarID = avatar.ID
	profile.Avatar = avatar
	profile.IsKid = req.IsKid

	if err := s.repo.Update(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		l.Error().Err(err).Str(log.FieldProfileID, profileID).Msg("failed to update profile")
		return nil, err
	}

	audit.Log(ctx, audit.ActionProfileUpdate, profile.ID, "profile updated")
	return profile, nil
}

// DeleteProfile removes one profile owned by userID.
func (s *profileServiceImpl) DeleteProfile(ctx context.Context, userID, profileID string) error {
	l := log.Ctx(ctx)
	l.Info().Str(log.FieldUserID, userID).Str(log.FieldProfileID, profileID).Msg("deleting profile")

	if err := s.repo.Delete(ctx, profileID, userID); err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return ErrProfileNotFound
		}
		l.Error().Err(err).Str(log.FieldProfileID, profileID).Msg("failed to delete profile")
		return err
	}

	audit.Log(ctx, audit.ActionProfileDelete, profileID, "profile deleted")
	return nil
}

// DeleteAllProfiles removes every profile owned by userID. Idempotent:
// a user with zero profiles is not an error.
func (s *profileServiceImpl) DeleteAllProfiles(ctx context.Context, userID string) error {
	l := log.Ctx(ctx)
	l.Info().Str(log.FieldUserID, userID).Msg("deleting all profiles")

	if err := s.repo.DeleteAllByUserID(ctx, userID); err != nil {
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to delete profiles")
		return err
	}

	audit.Log(ctx, audit.ActionProfileDeleteAll, userID, "all profiles deleted")
	return nil
}

// attachAvatar populates read-through avatar display data. A dangling
// avatar reference (the avatar was deleted after assignment) leaves the
// field empty rather than failing the read.
func (s *profileServiceImpl) attachAvatar(ctx context.Context, profile *domain.Profile) {
	if profile.AvatarID == "" {
		return
	}
	avatar, err := s.avatars.GetAvatar(ctx, profile.AvatarID)
	if err != nil {
		if !errors.Is(err, ErrAvatarNotFound) {
			logger := log.Ctx(ctx)
			logger.Warn().Err(err).Str(log.FieldAvatarID, profile.AvatarID).Msg("failed to load profile avatar")
		}
		return
	}
	profile.Avatar = avatar
}
