package models

import (
	"context"
	"time"

	"cine-circle/apperror"
	"cine-circle/helpers"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LikeModel provides the logics for the simple like/unlike toggle on posts.
// Unlike votes there is no down action, so no separate client type is needed.
type LikeModel struct {
	Collection *mongo.Collection
	// injected from the post model
	SetLikeCount func(ctx context.Context, postOID primitive.ObjectID, count int32) error
}

// Like marks a post as liked by a user (idempotent)
func (m LikeModel) Like(ctx context.Context, postOID primitive.ObjectID, userOID primitive.ObjectID) (int32, error) {

	filter := bson.D{
		{Key: "postID", Value: postOID},
		{Key: "userID", Value: userOID},
	}

	fields := bson.D{
		{Key: "$set", Value: bson.D{{Key: "postID", Value: postOID}}},
		{Key: "$set", Value: bson.D{{Key: "userID", Value: userOID}}},
		{Key: "$set", Value: bson.D{{Key: "likedTS", Value: time.Now()}}},
	}

	opts := options.Update().SetUpsert(true)

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := m.Collection.UpdateOne(cctx, filter, fields, opts)
	if err != nil {
		return 0, helpers.WrapError(err, helpers.FuncName())
	}

	return m.recount(ctx, postOID)
}

// Unlike removes a user's like from a post
func (m LikeModel) Unlike(ctx context.Context, postOID primitive.ObjectID, userOID primitive.ObjectID) (int32, error) {

	filter := bson.D{
		{Key: "postID", Value: postOID},
		{Key: "userID", Value: userOID},
	}

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := m.Collection.DeleteOne(cctx, filter)
	if err != nil {
		return 0, helpers.WrapError(err, helpers.FuncName())
	}

	if res.DeletedCount == 0 {
		return 0, apperror.ErrNoData
	}

	return m.recount(ctx, postOID)
}

// recount the likes and persist the counter on the post document
func (m LikeModel) recount(ctx context.Context, postOID primitive.ObjectID) (int32, error) {

	filter := bson.D{{Key: "postID", Value: postOID}}

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	count, err := m.Collection.CountDocuments(cctx, filter)
	if err != nil {
		return 0, helpers.WrapError(err, helpers.FuncName())
	}

	err = m.SetLikeCount(ctx, postOID, int32(count))
	if err != nil {
		return 0, err
	}

	return int32(count), nil
}
