package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joshua-takyi/devconnector/internal/helpers"
	"github.com/joshua-takyi/devconnector/internal/models"
)

// PasswordHasher is the credential service.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
	CheckPassword(password, hash string) bool
}

// TokenIssuer is the token service.
type TokenIssuer interface {
	IssueToken(userID string) (string, error)
}

type UserService struct {
	userRepo models.UserRepo
	hasher   PasswordHasher
	tokens   TokenIssuer
	logger   *slog.Logger
}

func NewUserService(userRepo models.UserRepo, hasher PasswordHasher, tokens TokenIssuer, logger *slog.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
	}
}

// Register stores a new user with a gravatar avatar and returns a token for it.
func (us *UserService) Register(ctx context.Context, name, email, password string) (string, error) {
	email = strings.ToLower(helpers.StringTrim(email))

	_, err := us.userRepo.GetUserByEmail(ctx, email)
	if err == nil {
		return "", models.NewConflictError("User already exists")
	}
	if !errors.Is(err, models.ErrNotFound) {
		return "", err
	}

	hash, err := us.hasher.HashPassword(password)
	if err != nil {
		return "", err
	}

	user, err := us.userRepo.CreateUser(ctx, &models.User{
		Name:     helpers.StringTrim(name),
		Email:    email,
		Password: hash,
		Avatar:   helpers.GravatarURL(email),
	})
	if err != nil {
		return "", err
	}
	us.logger.Info("user registered", "user_id", user.ID.Hex())

	return us.tokens.IssueToken(user.ID.Hex())
}

func (us *UserService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(helpers.StringTrim(email))

	user, err := us.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", models.NewValidationError("Invalid credentials")
		}
		return "", err
	}
	if !us.hasher.CheckPassword(password, user.Password) {
		return "", models.NewValidationError("Invalid credentials")
	}
	return us.tokens.IssueToken(user.ID.Hex())
}

func (us *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	id, err := models.ParseID(userID, "User")
	if err != nil {
		return nil, err
	}
	user, err := us.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
