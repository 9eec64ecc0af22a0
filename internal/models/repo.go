package models

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var Validate = newValidator()

const (
	UsersColName    = "users"
	ProfilesColName = "profiles"
	PostsColName    = "posts"
)

type UserRepo interface {
	CreateUser(ctx context.Context, user *User) (*User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUserAvatar(ctx context.Context, id primitive.ObjectID, avatar string) error
	DeleteUser(ctx context.Context, id primitive.ObjectID) (int64, error)
}

type ProfileRepo interface {
	UpsertProfile(ctx context.Context, userID primitive.ObjectID, fields ProfileFields) (*Profile, error)
	GetProfileByUser(ctx context.Context, userID primitive.ObjectID) (*Profile, error)
	GetProfileViewByUser(ctx context.Context, userID primitive.ObjectID) (*ProfileView, error)
	ListProfileViews(ctx context.Context) ([]*ProfileView, error)
	SaveProfile(ctx context.Context, profile *Profile) error
	DeleteProfileByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

type PostRepo interface {
	CreatePost(ctx context.Context, post *Post) (*Post, error)
	ListPosts(ctx context.Context) ([]*Post, error)
	GetPostByID(ctx context.Context, id primitive.ObjectID) (*Post, error)
	SavePost(ctx context.Context, post *Post) error
	DeletePost(ctx context.Context, id primitive.ObjectID) error
	DeletePostsByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

// MongodbRepo implements UserRepo, ProfileRepo and PostRepo on one database.
type MongodbRepo struct {
	db *mongo.Database
}

func MongodbNewRepo(db *mongo.Database) *MongodbRepo {
	return &MongodbRepo{
		db: db,
	}
}

func (mdb *MongodbRepo) GetCollection(colName string) (*mongo.Collection, error) {
	if mdb.db == nil {
		return nil, fmt.Errorf("mongodb database is not initialized")
	}
	return mdb.db.Collection(colName), nil
}

// EnsureIndexes creates the unique and lookup indexes the repos rely on.
func (mdb *MongodbRepo) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		UsersColName: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("email_unique"),
			},
		},
		ProfilesColName: {
			// one profile per user
			{
				Keys:    bson.D{{Key: "user", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("user_unique"),
			},
		},
		PostsColName: {
			{
				Keys:    bson.D{{Key: "user", Value: 1}},
				Options: options.Index().SetName("user_idx"),
			},
			{
				Keys:    bson.D{{Key: "date", Value: -1}},
				Options: options.Index().SetName("date_idx"),
			},
		},
	}

	for colName, idx := range indexes {
		col, err := mdb.GetCollection(colName)
		if err != nil {
			return err
		}
		if _, err := col.Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("error creating indexes on %s: %w", colName, err)
		}
	}
	return nil
}
