package models

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func (mdb *MongodbRepo) CreateUser(ctx context.Context, user *User) (*User, error) {
	if err := ValidateStruct(user); err != nil {
		return nil, err
	}
	user.BeforeCreate()

	col, err := mdb.GetCollection(UsersColName)
	if err != nil {
		return nil, err
	}
	if _, err := col.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, NewConflictError("User already exists")
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}

func (mdb *MongodbRepo) findUser(ctx context.Context, filter bson.M) (*User, error) {
	col, err := mdb.GetCollection(UsersColName)
	if err != nil {
		return nil, err
	}
	var user User
	if err := col.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewNotFoundError("User not found")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (mdb *MongodbRepo) GetUserByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	return mdb.findUser(ctx, bson.M{"_id": id})
}

func (mdb *MongodbRepo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return mdb.findUser(ctx, bson.M{"email": email})
}

func (mdb *MongodbRepo) UpdateUserAvatar(ctx context.Context, id primitive.ObjectID, avatar string) error {
	col, err := mdb.GetCollection(UsersColName)
	if err != nil {
		return err
	}
	res, err := col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"avatar": avatar}})
	if err != nil {
		return fmt.Errorf("failed to update avatar: %w", err)
	}
	if res.MatchedCount == 0 {
		return NewNotFoundError("User not found")
	}
	return nil
}

// DeleteUser is a no-op when the user is already gone.
func (mdb *MongodbRepo) DeleteUser(ctx context.Context, id primitive.ObjectID) (int64, error) {
	col, err := mdb.GetCollection(UsersColName)
	if err != nil {
		return 0, err
	}
	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("failed to delete user: %w", err)
	}
	return res.DeletedCount, nil
}
