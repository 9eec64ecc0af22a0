package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UpsertProfile creates the user's profile or merges fields into the existing
// one. The filter on user plus the unique index keep it to one per user.
func (mdb *MongodbRepo) UpsertProfile(ctx context.Context, userID primitive.ObjectID, fields ProfileFields) (*Profile, error) {
	col, err := mdb.GetCollection(ProfilesColName)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$setOnInsert": fields.InsertDocument(userID, time.Now())}
	// MongoDB rejects an empty $set
	if set := fields.SetDocument(); len(set) > 0 {
		update["$set"] = set
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var profile Profile
	if err := col.FindOneAndUpdate(ctx, bson.M{"user": userID}, update, opts).Decode(&profile); err != nil {
		return nil, fmt.Errorf("error upserting profile: %w", err)
	}
	return &profile, nil
}

func (mdb *MongodbRepo) GetProfileByUser(ctx context.Context, userID primitive.ObjectID) (*Profile, error) {
	col, err := mdb.GetCollection(ProfilesColName)
	if err != nil {
		return nil, err
	}
	var profile Profile
	if err := col.FindOne(ctx, bson.M{"user": userID}).Decode(&profile); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewNotFoundError("There is no profile for this user")
		}
		return nil, fmt.Errorf("error finding profile: %w", err)
	}
	return &profile, nil
}

// profileViewPipeline joins the owner's name and avatar onto each profile.
func profileViewPipeline(match bson.M) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$lookup", Value: bson.M{
			"from":         UsersColName,
			"localField":   "user",
			"foreignField": "_id",
			"as":           "owner",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$owner",
			"preserveNullAndEmptyArrays": true,
		}}},
		{{Key: "$project", Value: bson.M{
			"owner.email":    0,
			"owner.password": 0,
			"owner.date":     0,
		}}},
	}
}

func (mdb *MongodbRepo) findProfileViews(ctx context.Context, match bson.M) ([]*ProfileView, error) {
	col, err := mdb.GetCollection(ProfilesColName)
	if err != nil {
		return nil, err
	}
	cursor, err := col.Aggregate(ctx, profileViewPipeline(match))
	if err != nil {
		return nil, fmt.Errorf("error aggregating profiles: %w", err)
	}
	defer cursor.Close(ctx)

	views := []*ProfileView{}
	for cursor.Next(ctx) {
		var view ProfileView
		if err := cursor.Decode(&view); err != nil {
			return nil, fmt.Errorf("error decoding profile: %w", err)
		}
		views = append(views, &view)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return views, nil
}

func (mdb *MongodbRepo) GetProfileViewByUser(ctx context.Context, userID primitive.ObjectID) (*ProfileView, error) {
	views, err := mdb.findProfileViews(ctx, bson.M{"user": userID})
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, NewNotFoundError("Profile not found")
	}
	return views[0], nil
}

func (mdb *MongodbRepo) ListProfileViews(ctx context.Context) ([]*ProfileView, error) {
	return mdb.findProfileViews(ctx, bson.M{})
}

// SaveProfile writes the whole aggregate back. The filter includes the
// owner so a profile can never move to another user.
func (mdb *MongodbRepo) SaveProfile(ctx context.Context, profile *Profile) error {
	col, err := mdb.GetCollection(ProfilesColName)
	if err != nil {
		return err
	}
	res, err := col.ReplaceOne(ctx, bson.M{"_id": profile.ID, "user": profile.User}, profile)
	if err != nil {
		return fmt.Errorf("error saving profile: %w", err)
	}
	if res.MatchedCount == 0 {
		return NewNotFoundError("There is no profile for this user")
	}
	return nil
}

func (mdb *MongodbRepo) DeleteProfileByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	col, err := mdb.GetCollection(ProfilesColName)
	if err != nil {
		return 0, err
	}
	res, err := col.DeleteOne(ctx, bson.M{"user": userID})
	if err != nil {
		return 0, fmt.Errorf("error deleting profile: %w", err)
	}
	return res.DeletedCount, nil
}
