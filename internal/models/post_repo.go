package models

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (mdb *MongodbRepo) CreatePost(ctx context.Context, post *Post) (*Post, error) {
	if err := ValidateStruct(post); err != nil {
		return nil, err
	}
	col, err := mdb.GetCollection(PostsColName)
	if err != nil {
		return nil, err
	}
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	if _, err := col.InsertOne(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to insert post: %w", err)
	}
	return post, nil
}

// ListPosts returns every post, newest first.
func (mdb *MongodbRepo) ListPosts(ctx context.Context) ([]*Post, error) {
	col, err := mdb.GetCollection(PostsColName)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding posts: %w", err)
	}
	defer cursor.Close(ctx)

	posts := []*Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("error decoding posts: %w", err)
	}
	return posts, nil
}

func (mdb *MongodbRepo) GetPostByID(ctx context.Context, id primitive.ObjectID) (*Post, error) {
	col, err := mdb.GetCollection(PostsColName)
	if err != nil {
		return nil, err
	}
	var post Post
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewNotFoundError("Post not found")
		}
		return nil, fmt.Errorf("error finding post: %w", err)
	}
	return &post, nil
}

func (mdb *MongodbRepo) SavePost(ctx context.Context, post *Post) error {
	col, err := mdb.GetCollection(PostsColName)
	if err != nil {
		return err
	}
	res, err := col.ReplaceOne(ctx, bson.M{"_id": post.ID}, post)
	if err != nil {
		return fmt.Errorf("error saving post: %w", err)
	}
	if res.MatchedCount == 0 {
		return NewNotFoundError("Post not found")
	}
	return nil
}

func (mdb *MongodbRepo) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(PostsColName)
	if err != nil {
		return err
	}
	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting post: %w", err)
	}
	if res.DeletedCount == 0 {
		return NewNotFoundError("Post not found")
	}
	return nil
}

func (mdb *MongodbRepo) DeletePostsByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	col, err := mdb.GetCollection(PostsColName)
	if err != nil {
		return 0, err
	}
	res, err := col.DeleteMany(ctx, bson.M{"user": userID})
	if err != nil {
		return 0, fmt.Errorf("error deleting posts: %w", err)
	}
	return res.DeletedCount, nil
}
