package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joshua-takyi/devconnector/internal/metrics"
	"github.com/joshua-takyi/devconnector/internal/models"
)

type AccountService struct {
	postRepo    models.PostRepo
	profileRepo models.ProfileRepo
	userRepo    models.UserRepo
	logger      *slog.Logger
}

func NewAccountService(postRepo models.PostRepo, profileRepo models.ProfileRepo, userRepo models.UserRepo, logger *slog.Logger) *AccountService {
	return &AccountService{
		postRepo:    postRepo,
		profileRepo: profileRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

type DeleteAccountResult struct {
	PostsDeleted   int64 `json:"posts_deleted"`
	ProfileDeleted int64 `json:"profile_deleted"`
	UserDeleted    int64 `json:"user_deleted"`
}

// DeleteAccount removes the user's posts, then the profile, then the user.
// It is not a transaction: a failed step is reported and earlier steps stay
// done. Every step is a filter delete, so calling it again finishes the job.
func (as *AccountService) DeleteAccount(ctx context.Context, userID string) (*DeleteAccountResult, error) {
	uid, err := models.ParseID(userID, "User")
	if err != nil {
		return nil, err
	}

	result := &DeleteAccountResult{}

	result.PostsDeleted, err = as.postRepo.DeletePostsByUser(ctx, uid)
	if err != nil {
		as.logger.Error("account deletion failed", "step", "posts", "user_id", userID, "error", err)
		metrics.AccountDeletions.WithLabelValues("failed_posts").Inc()
		return result, fmt.Errorf("deleting posts: %w", err)
	}

	result.ProfileDeleted, err = as.profileRepo.DeleteProfileByUser(ctx, uid)
	if err != nil {
		as.logger.Error("account deletion failed", "step", "profile", "user_id", userID, "error", err)
		metrics.AccountDeletions.WithLabelValues("failed_profile").Inc()
		return result, fmt.Errorf("deleting profile: %w", err)
	}

	result.UserDeleted, err = as.userRepo.DeleteUser(ctx, uid)
	if err != nil {
		as.logger.Error("account deletion failed", "step", "user", "user_id", userID, "error", err)
		metrics.AccountDeletions.WithLabelValues("failed_user").Inc()
		return result, fmt.Errorf("deleting user: %w", err)
	}

	metrics.AccountDeletions.WithLabelValues("ok").Inc()
	as.logger.Info("account deleted",
		"user_id", userID,
		"posts", result.PostsDeleted,
		"profile", result.ProfileDeleted,
		"user", result.UserDeleted,
	)
	return result, nil
}

// DefaultAccountTimeout bounds the whole cascade.
const DefaultAccountTimeout = 20 * time.Second
