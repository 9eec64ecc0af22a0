package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Like struct {
	ID   primitive.ObjectID `bson:"_id" json:"_id"`
	User primitive.ObjectID `bson:"user" json:"user"`
}

// Comment keeps the author's name and avatar as they were when it was written.
type Comment struct {
	ID     primitive.ObjectID `bson:"_id" json:"_id"`
	User   primitive.ObjectID `bson:"user" json:"user"`
	Text   string             `bson:"text" json:"text"`
	Name   string             `bson:"name" json:"name"`
	Avatar string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Date   time.Time          `bson:"date" json:"date"`
}

type Post struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User     primitive.ObjectID `bson:"user" json:"user"`
	Text     string             `bson:"text" json:"text" validate:"required"`
	Name     string             `bson:"name" json:"name"`
	Avatar   string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Likes    []Like             `bson:"likes" json:"likes"`
	Comments []Comment          `bson:"comments" json:"comments"`
	Date     time.Time          `bson:"date" json:"date"`
}

// NewPost snapshots the author's name and avatar into a new post.
func NewPost(author *User, text string) *Post {
	return &Post{
		ID:       primitive.NewObjectID(),
		User:     author.ID,
		Text:     text,
		Name:     author.Name,
		Avatar:   author.Avatar,
		Likes:    []Like{},
		Comments: []Comment{},
		Date:     time.Now(),
	}
}

func (p *Post) OwnedBy(userID primitive.ObjectID) bool {
	return p.User == userID
}

func (p *Post) likeIndex(userID primitive.ObjectID) int {
	for i := range p.Likes {
		if p.Likes[i].User == userID {
			return i
		}
	}
	return -1
}

func (p *Post) LikedBy(userID primitive.ObjectID) bool {
	return p.likeIndex(userID) >= 0
}

// Like adds a like by userID at the head of the list.
func (p *Post) Like(userID primitive.ObjectID) error {
	if p.LikedBy(userID) {
		return NewConflictError("Post already liked")
	}
	like := Like{ID: primitive.NewObjectID(), User: userID}
	p.Likes = append([]Like{like}, p.Likes...)
	return nil
}

// Unlike removes the like entry belonging to userID.
func (p *Post) Unlike(userID primitive.ObjectID) error {
	i := p.likeIndex(userID)
	if i < 0 {
		return NewConflictError("Post wasn't liked")
	}
	likeID := p.Likes[i].ID
	likes := p.Likes[:0]
	for _, l := range p.Likes {
		if l.ID != likeID {
			likes = append(likes, l)
		}
	}
	p.Likes = likes
	return nil
}

// AddComment snapshots the author into a new comment at the head of the list.
func (p *Post) AddComment(author *User, text string) Comment {
	c := Comment{
		ID:     primitive.NewObjectID(),
		User:   author.ID,
		Text:   text,
		Name:   author.Name,
		Avatar: author.Avatar,
		Date:   time.Now(),
	}
	p.Comments = append([]Comment{c}, p.Comments...)
	return c
}

// RemoveComment deletes the comment with commentID if userID wrote it.
func (p *Post) RemoveComment(commentID, userID primitive.ObjectID) error {
	for i := range p.Comments {
		if p.Comments[i].ID != commentID {
			continue
		}
		if p.Comments[i].User != userID {
			return NewForbiddenError("This is not your comment")
		}
		p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
		return nil
	}
	return NewNotFoundError("Comment not found")
}
