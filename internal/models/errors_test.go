package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorMatchesKind(t *testing.T) {
	err := fmt.Errorf("loading: %w", NewForbiddenError("This is not your post"))

	assert.True(t, errors.Is(err, ErrForbidden))
	assert.False(t, errors.Is(err, ErrNotFound))

	var appErr *AppError
	if assert.True(t, errors.As(err, &appErr)) {
		assert.Equal(t, "This is not your post", appErr.Message)
	}
}

func TestParseIDMalformedIsNotFound(t *testing.T) {
	_, err := ParseID("not-an-id", "Post")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "Post not found", err.Error())

	id, err := ParseID("5f1d7f3e9b1e8a3c4c8b4567", "Post")
	assert.NoError(t, err)
	assert.Equal(t, "5f1d7f3e9b1e8a3c4c8b4567", id.Hex())
}

func TestValidateStructMessages(t *testing.T) {
	err := ValidateStruct(&User{Name: "", Email: "nope"})
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Contains(t, err.Error(), "name is required")
	assert.Contains(t, err.Error(), "Please include a valid email")
}
