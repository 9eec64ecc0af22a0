package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshua-takyi/devconnector/internal/helpers"
	"github.com/joshua-takyi/devconnector/internal/models"
)

func TestRegisterSetsGravatarAndHashesPassword(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	id := f.register(t, "Alice", "Alice@Example.com")

	user, err := f.users.GetUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, helpers.GravatarURL("alice@example.com"), user.Avatar)
	assert.NotEqual(t, "secret123", user.Password)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	f := newFixture(t, nil)
	f.register(t, "Alice", "alice@example.com")

	_, err := f.users.Register(context.Background(), "Other", "ALICE@example.com", "secret123")
	requireKind(t, err, models.ErrConflict)
	assert.Equal(t, "User already exists", err.Error())
}

func TestLogin(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	id := f.register(t, "Alice", "alice@example.com")

	token, err := f.users.Login(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)
	claims, err := f.tokens.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.User.ID)

	_, err = f.users.Login(ctx, "alice@example.com", "wrong")
	requireKind(t, err, models.ErrValidation)
	assert.Equal(t, "Invalid credentials", err.Error())

	_, err = f.users.Login(ctx, "nobody@example.com", "secret123")
	requireKind(t, err, models.ErrValidation)
	assert.Equal(t, "Invalid credentials", err.Error())
}

func TestGetUserMissing(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.users.GetUser(context.Background(), "5f1d7f3e9b1e8a3c4c8b4567")
	requireKind(t, err, models.ErrNotFound)

	_, err = f.users.GetUser(context.Background(), "bad")
	requireKind(t, err, models.ErrNotFound)
}
