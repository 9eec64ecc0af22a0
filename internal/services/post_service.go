package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/joshua-takyi/devconnector/internal/models"
)

type PostService struct {
	postRepo models.PostRepo
	userRepo models.UserRepo
	logger   *slog.Logger
}

func NewPostService(postRepo models.PostRepo, userRepo models.UserRepo, logger *slog.Logger) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

func (ps *PostService) author(ctx context.Context, userID string) (*models.User, error) {
	uid, err := models.ParseID(userID, "User")
	if err != nil {
		return nil, err
	}
	return ps.userRepo.GetUserByID(ctx, uid)
}

func (ps *PostService) CreatePost(ctx context.Context, userID, text string) (*models.Post, error) {
	if strings.TrimSpace(text) == "" {
		return nil, models.NewValidationError("text is required")
	}
	user, err := ps.author(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ps.postRepo.CreatePost(ctx, models.NewPost(user, text))
}

func (ps *PostService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	return ps.postRepo.ListPosts(ctx)
}

func (ps *PostService) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	id, err := models.ParseID(postID, "Post")
	if err != nil {
		return nil, err
	}
	return ps.postRepo.GetPostByID(ctx, id)
}

func (ps *PostService) DeletePost(ctx context.Context, userID, postID string) error {
	post, err := ps.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	uid, err := models.ParseID(userID, "User")
	if err != nil {
		return err
	}
	if !post.OwnedBy(uid) {
		return models.NewForbiddenError("This is not your post")
	}
	return ps.postRepo.DeletePost(ctx, post.ID)
}

// mutate loads a post, applies fn and writes it back. Nothing is written
// when fn fails.
func (ps *PostService) mutate(ctx context.Context, userID, postID string, fn func(post *models.Post, uid primitive.ObjectID) error) (*models.Post, error) {
	uid, err := models.ParseID(userID, "User")
	if err != nil {
		return nil, err
	}
	post, err := ps.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := fn(post, uid); err != nil {
		return nil, err
	}
	if err := ps.postRepo.SavePost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to save post: %w", err)
	}
	return post, nil
}

func (ps *PostService) LikePost(ctx context.Context, userID, postID string) ([]models.Like, error) {
	post, err := ps.mutate(ctx, userID, postID, func(post *models.Post, uid primitive.ObjectID) error {
		return post.Like(uid)
	})
	if err != nil {
		return nil, err
	}
	return post.Likes, nil
}

func (ps *PostService) UnlikePost(ctx context.Context, userID, postID string) ([]models.Like, error) {
	post, err := ps.mutate(ctx, userID, postID, func(post *models.Post, uid primitive.ObjectID) error {
		return post.Unlike(uid)
	})
	if err != nil {
		return nil, err
	}
	return post.Likes, nil
}

func (ps *PostService) AddComment(ctx context.Context, userID, postID, text string) ([]models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, models.NewValidationError("text is required")
	}
	user, err := ps.author(ctx, userID)
	if err != nil {
		return nil, err
	}
	post, err := ps.mutate(ctx, userID, postID, func(post *models.Post, _ primitive.ObjectID) error {
		post.AddComment(user, text)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post.Comments, nil
}

func (ps *PostService) DeleteComment(ctx context.Context, userID, postID, commentID string) ([]models.Comment, error) {
	cid, err := models.ParseID(commentID, "Comment")
	if err != nil {
		return nil, err
	}
	post, err := ps.mutate(ctx, userID, postID, func(post *models.Post, uid primitive.ObjectID) error {
		return post.RemoveComment(cid, uid)
	})
	if err != nil {
		return nil, err
	}
	return post.Comments, nil
}
