package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/joshua-takyi/devconnector/internal/models"
)

// ImageUploader hosts an image and returns its public URL.
type ImageUploader interface {
	UploadImage(ctx context.Context, image string) (string, error)
}

type ProfileService struct {
	profileRepo models.ProfileRepo
	userRepo    models.UserRepo
	uploader    ImageUploader
	logger      *slog.Logger
}

func NewProfileService(profileRepo models.ProfileRepo, userRepo models.UserRepo, uploader ImageUploader, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		userRepo:    userRepo,
		uploader:    uploader,
		logger:      logger,
	}
}

// UpsertProfile creates the caller's profile or merges the present fields
// into it. When image is set it is uploaded and becomes the user's avatar
// before the profile is written; a failed profile write puts the previous
// avatar back.
func (ps *ProfileService) UpsertProfile(ctx context.Context, userID string, fields models.ProfileFields, image string) (*models.Profile, error) {
	uid, err := models.ParseID(userID, "User")
	if err != nil {
		return nil, err
	}

	if image == "" {
		return ps.profileRepo.UpsertProfile(ctx, uid, fields)
	}

	if err := models.ValidateImageSource(image); err != nil {
		return nil, err
	}
	if ps.uploader == nil {
		return nil, models.NewValidationError("Image upload is not available")
	}
	user, err := ps.userRepo.GetUserByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	avatar, err := ps.uploader.UploadImage(ctx, image)
	if err != nil {
		return nil, err
	}
	if err := ps.userRepo.UpdateUserAvatar(ctx, uid, avatar); err != nil {
		return nil, err
	}

	profile, err := ps.profileRepo.UpsertProfile(ctx, uid, fields)
	if err != nil {
		if rerr := ps.userRepo.UpdateUserAvatar(ctx, uid, user.Avatar); rerr != nil {
			ps.logger.Error("restoring avatar failed", "user_id", userID, "error", rerr)
		}
		return nil, err
	}
	return profile, nil
}

func (ps *ProfileService) GetOwnProfile(ctx context.Context, userID string) (*models.ProfileView, error) {
	uid, err := models.ParseID(userID, "User")
	if err != nil {
		return nil, err
	}
	view, err := ps.profileRepo.GetProfileViewByUser(ctx, uid)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.NewNotFoundError("There is no profile for this user")
	}
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (ps *ProfileService) ListProfiles(ctx context.Context) ([]*models.ProfileView, error) {
	return ps.profileRepo.ListProfileViews(ctx)
}

// GetProfileByUser treats a malformed user id as a missing profile.
func (ps *ProfileService) GetProfileByUser(ctx context.Context, userID string) (*models.ProfileView, error) {
	uid, err := models.ParseID(userID, "Profile")
	if err != nil {
		return nil, err
	}
	return ps.profileRepo.GetProfileViewByUser(ctx, uid)
}

// mutate loads the caller's profile, applies fn and writes the profile back.
// Nothing is written when fn fails.
func (ps *ProfileService) mutate(ctx context.Context, userID string, fn func(p *models.Profile) error) (*models.Profile, error) {
	uid, err := models.ParseID(userID, "User")
	if err != nil {
		return nil, err
	}
	profile, err := ps.profileRepo.GetProfileByUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	if err := fn(profile); err != nil {
		return nil, err
	}
	if err := ps.profileRepo.SaveProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return profile, nil
}

func (ps *ProfileService) AddExperience(ctx context.Context, userID string, in models.ExperienceInput) (*models.Profile, error) {
	if err := models.ValidateStruct(in); err != nil {
		return nil, err
	}
	exp, err := in.Experience()
	if err != nil {
		return nil, err
	}
	return ps.mutate(ctx, userID, func(p *models.Profile) error {
		_, err := p.AddExperience(exp)
		return err
	})
}

func (ps *ProfileService) UpdateExperience(ctx context.Context, userID, expID string, in models.ExperienceInput) (*models.Profile, error) {
	id, err := models.ParseID(expID, "Experience")
	if err != nil {
		return nil, err
	}
	if err := models.ValidateStruct(in); err != nil {
		return nil, err
	}
	exp, err := in.Experience()
	if err != nil {
		return nil, err
	}
	return ps.mutate(ctx, userID, func(p *models.Profile) error {
		return p.UpdateExperience(id, exp)
	})
}

func (ps *ProfileService) RemoveExperience(ctx context.Context, userID, expID string) (*models.Profile, error) {
	id, err := models.ParseID(expID, "Experience")
	if err != nil {
		return nil, err
	}
	return ps.mutate(ctx, userID, func(p *models.Profile) error {
		return p.RemoveExperience(id)
	})
}

func (ps *ProfileService) AddEducation(ctx context.Context, userID string, in models.EducationInput) (*models.Profile, error) {
	if err := models.ValidateStruct(in); err != nil {
		return nil, err
	}
	edu, err := in.Education()
	if err != nil {
		return nil, err
	}
	return ps.mutate(ctx, userID, func(p *models.Profile) error {
		p.AddEducation(edu)
		return nil
	})
}

func (ps *ProfileService) UpdateEducation(ctx context.Context, userID, eduID string, in models.EducationInput) (*models.Profile, error) {
	id, err := models.ParseID(eduID, "Education")
	if err != nil {
		return nil, err
	}
	if err := models.ValidateStruct(in); err != nil {
		return nil, err
	}
	edu, err := in.Education()
	if err != nil {
		return nil, err
	}
	return ps.mutate(ctx, userID, func(p *models.Profile) error {
		return p.UpdateEducation(id, edu)
	})
}

func (ps *ProfileService) RemoveEducation(ctx context.Context, userID, eduID string) (*models.Profile, error) {
	id, err := models.ParseID(eduID, "Education")
	if err != nil {
		return nil, err
	}
	return ps.mutate(ctx, userID, func(p *models.Profile) error {
		return p.RemoveEducation(id)
	})
}
