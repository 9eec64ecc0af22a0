package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testUser(name string) *User {
	return &User{ID: primitive.NewObjectID(), Name: name, Avatar: "https://example.com/" + name}
}

func TestNewPostSnapshotsAuthor(t *testing.T) {
	alice := testUser("alice")
	p := NewPost(alice, "hello")

	assert.Equal(t, alice.ID, p.User)
	assert.Equal(t, "alice", p.Name)
	assert.Equal(t, alice.Avatar, p.Avatar)
	assert.NotNil(t, p.Likes)
	assert.NotNil(t, p.Comments)
	assert.True(t, p.OwnedBy(alice.ID))
}

func TestLikeOncePerUser(t *testing.T) {
	p := NewPost(testUser("alice"), "hello")
	bob := primitive.NewObjectID()
	carol := primitive.NewObjectID()

	require.NoError(t, p.Like(bob))
	err := p.Like(bob)
	assert.True(t, errors.Is(err, ErrConflict))
	assert.Equal(t, "Post already liked", err.Error())
	assert.Len(t, p.Likes, 1)

	require.NoError(t, p.Like(carol))
	assert.Equal(t, carol, p.Likes[0].User)
}

func TestUnlike(t *testing.T) {
	p := NewPost(testUser("alice"), "hello")
	bob := primitive.NewObjectID()
	carol := primitive.NewObjectID()

	err := p.Unlike(bob)
	assert.True(t, errors.Is(err, ErrConflict))
	assert.Equal(t, "Post wasn't liked", err.Error())

	require.NoError(t, p.Like(bob))
	require.NoError(t, p.Like(carol))
	require.NoError(t, p.Unlike(bob))

	require.Len(t, p.Likes, 1)
	assert.Equal(t, carol, p.Likes[0].User)
	assert.False(t, p.LikedBy(bob))
}

func TestComments(t *testing.T) {
	p := NewPost(testUser("alice"), "hello")
	bob := testUser("bob")
	carol := testUser("carol")

	first := p.AddComment(bob, "nice")
	second := p.AddComment(carol, "agreed")
	require.Len(t, p.Comments, 2)
	assert.Equal(t, second.ID, p.Comments[0].ID)
	assert.Equal(t, "bob", p.Comments[1].Name)

	err := p.RemoveComment(first.ID, carol.ID)
	assert.True(t, errors.Is(err, ErrForbidden))
	assert.Len(t, p.Comments, 2)

	err = p.RemoveComment(primitive.NewObjectID(), bob.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, p.RemoveComment(first.ID, bob.ID))
	require.Len(t, p.Comments, 1)
	assert.Equal(t, second.ID, p.Comments[0].ID)
}
