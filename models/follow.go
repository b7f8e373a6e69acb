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

// relation types stored in the social collection
const relTypeFollowing = "following"

// UserRef is a simple reference from one user to another.
// Follow edges are directional: userID follows refID; the reverse edge is a
// separate document. Names are denormalized so listings need no second read.
type UserRef struct {
	UserID   primitive.ObjectID `json:"userID" bson:"userID"`
	UserName string             `json:"userName" bson:"userName"`
	RefID    primitive.ObjectID `json:"refID" bson:"refID"`
	RefName  string             `json:"refName" bson:"refName"`
	RelType  string             `json:"-" bson:"relType"`
}

// FollowModel provides the logic to the follow graph and access to the database
type FollowModel struct {
	Collection *mongo.Collection
	// injected from the user model, so the controller doesn't have to resolve names
	GetUserName func(ctx context.Context, userOID primitive.ObjectID) (string, error)
}

// Follow adds a directed edge follower -> following.
// The (userID, refID, relType) triple is kept unique via upsert, so repeating the
// action is harmless.
// ToDo: decide whether self-follows should be rejected here or in the client
func (m FollowModel) Follow(ctx context.Context, followerOID primitive.ObjectID, followingOID primitive.ObjectID) error {

	followerName, err := m.GetUserName(ctx, followerOID)
	if err != nil {
		return ErrInvalidFollow
	}

	followingName, err := m.GetUserName(ctx, followingOID)
	if err != nil {
		return ErrInvalidFollow
	}

	filter := bson.D{
		{Key: "userID", Value: followerOID},
		{Key: "refID", Value: followingOID},
		{Key: "relType", Value: relTypeFollowing},
	}

	fields := bson.D{
		{Key: "$set", Value: bson.D{{Key: "userID", Value: followerOID}}},
		{Key: "$set", Value: bson.D{{Key: "userName", Value: followerName}}},
		{Key: "$set", Value: bson.D{{Key: "refID", Value: followingOID}}},
		{Key: "$set", Value: bson.D{{Key: "refName", Value: followingName}}},
		{Key: "$set", Value: bson.D{{Key: "relType", Value: relTypeFollowing}}},
		{Key: "$set", Value: bson.D{{Key: "followedTS", Value: time.Now()}}},
	}

	opts := options.Update().SetUpsert(true)

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err = m.Collection.UpdateOne(cctx, filter, fields, opts)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	return nil
}

// Unfollow removes the directed edge follower -> following
func (m FollowModel) Unfollow(ctx context.Context, followerOID primitive.ObjectID, followingOID primitive.ObjectID) error {

	filter := bson.D{
		{Key: "userID", Value: followerOID},
		{Key: "refID", Value: followingOID},
		{Key: "relType", Value: relTypeFollowing},
	}

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := m.Collection.DeleteOne(cctx, filter)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	if result.DeletedCount == 0 {
		return apperror.ErrNoData
	}

	return nil
}

// GetFollowing lists whom a user follows (bounded; for profile pages)
func (m FollowModel) GetFollowing(ctx context.Context, userOID primitive.ObjectID) ([]UserRef, error) {

	filter := bson.M{
		"relType": relTypeFollowing,
		"userID":  userOID,
	}

	refs, err := m.listEdges(ctx, filter)
	if err != nil {
		return nil, err
	}

	if len(refs) == 0 {
		return nil, apperror.ErrNoData
	}

	return refs, nil
}

// GetFollowers lists who follows a user (bounded; for profile pages)
func (m FollowModel) GetFollowers(ctx context.Context, userOID primitive.ObjectID) ([]UserRef, error) {

	filter := bson.M{
		"relType": relTypeFollowing, // same verb, opposite direction
		"refID":   userOID,
	}

	refs, err := m.listEdges(ctx, filter)
	if err != nil {
		return nil, err
	}

	if len(refs) == 0 {
		return nil, apperror.ErrNoData
	}

	// swap perspective so the requested user is always on the left side
	followers := make([]UserRef, 0, len(refs))
	for _, r := range refs {
		followers = append(followers, UserRef{
			UserID:   r.RefID,
			UserName: r.RefName,
			RefID:    r.UserID,
			RefName:  r.UserName,
			RelType:  "follower",
		})
	}

	return followers, nil
}

// GetFollowingIDs returns the forward adjacency of the follow graph.
// Unlike the listing variants, an empty result is a valid state here (a user who
// follows nobody still gets a feed), so the slice is empty rather than ErrNoData
// and no page limit applies.
func (m FollowModel) GetFollowingIDs(ctx context.Context, userOID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return m.edgeIDs(ctx, bson.M{"relType": relTypeFollowing, "userID": userOID}, "refID")
}

// GetFollowerIDs returns the reverse adjacency of the follow graph
func (m FollowModel) GetFollowerIDs(ctx context.Context, userOID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return m.edgeIDs(ctx, bson.M{"relType": relTypeFollowing, "refID": userOID}, "userID")
}

// bounded edge listing used by the profile endpoints
func (m FollowModel) listEdges(ctx context.Context, filter bson.M) ([]UserRef, error) {

	fields := bson.M{
		"_id":      0,
		"userID":   1,
		"userName": 1,
		"refID":    1,
		"refName":  1,
		"relType":  1,
	}

	dbSort := bson.M{
		"userName": 1,
	}

	opts := options.Find().SetProjection(fields).SetLimit(50).SetSort(dbSort)

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := m.Collection.Find(cctx, filter, opts)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var results []UserRef
	err = cursor.All(cctx, &results)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	return results, nil
}

// unbounded adjacency read used by the feed and recommendation engines
func (m FollowModel) edgeIDs(ctx context.Context, filter bson.M, idField string) ([]primitive.ObjectID, error) {

	fields := bson.M{
		"_id":   0,
		idField: 1,
	}

	opts := options.Find().SetProjection(fields)

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := m.Collection.Find(cctx, filter, opts)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var docs []bson.M
	err = cursor.All(cctx, &docs)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		if oid, ok := d[idField].(primitive.ObjectID); ok {
			ids = append(ids, oid)
		}
	}

	return ids, nil
}
