package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/joshua-takyi/devconnector/internal/helpers"
	"github.com/joshua-takyi/devconnector/internal/storetest"
)

type fakeUploader struct {
	url   string
	err   error
	calls int
}

func (f *fakeUploader) UploadImage(ctx context.Context, image string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type fixture struct {
	store    *storetest.MemStore
	tokens   *helpers.TokenService
	users    *UserService
	profiles *ProfileService
	posts    *PostService
	accounts *AccountService
}

func newFixture(t *testing.T, uploader ImageUploader) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := storetest.New()
	tokens := helpers.NewTokenService("test-secret", time.Hour)
	return &fixture{
		store:    store,
		tokens:   tokens,
		users:    NewUserService(store, helpers.NewPasswordHasher(bcrypt.MinCost), tokens, logger),
		profiles: NewProfileService(store, store, uploader, logger),
		posts:    NewPostService(store, store, logger),
		accounts: NewAccountService(store, store, store, logger),
	}
}

// register creates a user and returns its id.
func (f *fixture) register(t *testing.T, name, email string) string {
	t.Helper()
	token, err := f.users.Register(context.Background(), name, email, "secret123")
	require.NoError(t, err)
	claims, err := f.tokens.ParseToken(token)
	require.NoError(t, err)
	return claims.User.ID
}

func requireKind(t *testing.T, err error, kind error) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, errors.Is(err, kind), "got %v, want kind %v", err, kind)
}
