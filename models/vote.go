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

// vote (action) type
const (
	VoteUp      int32 = 1
	VoteDown    int32 = -1
	VoteNeutral int32 = 0 // revoked or not voted
)

// Vote represents a single vote action
type Vote struct {
	// ID omitted, yet created in document
	ProfileID primitive.ObjectID `json:"profileID" bson:"profileID" binding:"required"`
	// the object type is stored to speed up querying of user actions
	ProfileType string             `json:"profileType" bson:"profileType" binding:"required"` // post | rating
	UserID      primitive.ObjectID `json:"userID" bson:"userID"`                              // actually required, read from token
	UserName    string             `json:"userName" bson:"userName"`
	VoteTS      time.Time          `json:"voteTS" bson:"voteTS"` // stored separately because users can change their vote
	Vote        int32              `json:"vote" bson:"vote"`
}

// ProfileVotes represents the current state of votes related to a profile
type ProfileVotes struct {
	VoteCount int32 `json:"voteCount"`
	UpVotes   int32 `json:"upVotes"`
	DownVotes int32 `json:"downVotes"`
	UserVote  int32 `json:"userVote"` // vote action of the requesting user (read from token)
}

// VoteModel provides the logics to the data type
type VoteModel struct {
	Collection *mongo.Collection
	// some information comes from the user model; referenced here
	// so the controller doesn't have to do it
	GetUserName func(ctx context.Context, userOID primitive.ObjectID) (string, error)
}

// CastVote is used to vote for/against a profile (post or rating).
// It recalculates the net vote count and hands it to the parent via SetVotes.
func (v VoteModel) CastVote(
	ctx context.Context,
	vote Vote,
	SetVotes func(ctx context.Context, engagement *Engagement) error) (*ProfileVotes, error) {

	// positive/negative votes are upserts, revokes are deletes

	if vote.Vote != VoteNeutral {
		usr, err := v.GetUserName(ctx, vote.UserID)
		if err != nil {
			return nil, ErrInvalidUser
		}

		filter := bson.D{
			{Key: "profileID", Value: vote.ProfileID},
			{Key: "userID", Value: vote.UserID},
		}

		fields := bson.D{
			{Key: "$set", Value: bson.D{{Key: "profileID", Value: vote.ProfileID}}},
			{Key: "$set", Value: bson.D{{Key: "profileType", Value: vote.ProfileType}}},
			{Key: "$set", Value: bson.D{{Key: "userID", Value: vote.UserID}}},
			{Key: "$set", Value: bson.D{{Key: "userName", Value: usr}}},
			{Key: "$set", Value: bson.D{{Key: "voteTS", Value: time.Now()}}},
			{Key: "$set", Value: bson.D{{Key: "vote", Value: vote.Vote}}},
		}

		opts := options.Update().SetUpsert(true)

		cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		// not interested in the actual result
		_, err = v.Collection.UpdateOne(cctx, filter, fields, opts)
		if err != nil {
			return nil, helpers.WrapError(err, helpers.FuncName())
		}

	} else {
		// delete vote (revoke)
		filter := bson.D{
			{Key: "profileID", Value: vote.ProfileID},
			{Key: "userID", Value: vote.UserID},
		}

		cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		_, err := v.Collection.DeleteOne(cctx, filter)
		if err != nil {
			return nil, helpers.WrapError(err, helpers.FuncName())
		}
	}

	// recalculate counters client-side/api (aggregation queries would be
	// more complex and not faster at this volume)
	up, down, err := v.countVotes(ctx, vote.ProfileID)
	if err != nil {
		return nil, err
	}

	// pass counters to the referenced profile which persists them on its document
	engagement := &Engagement{
		ProfileOID: vote.ProfileID,
		VoteCount:  up - down,
		UpVotes:    up,
		DownVotes:  down,
		TouchedTS:  time.Now(),
	}

	err = SetVotes(ctx, engagement)
	if err != nil {
		return nil, err
	}

	profileVotes := new(ProfileVotes)
	profileVotes.VoteCount = engagement.VoteCount
	profileVotes.UpVotes = up
	profileVotes.DownVotes = down
	profileVotes.UserVote = vote.Vote

	return profileVotes, nil
}

// GetUserVote returns the vote action of a user to one profile
func (v VoteModel) GetUserVote(ctx context.Context, profileID string, userID string) (int32, error) {

	profileOID := helpers.ObjectID(profileID)
	userOID := helpers.ObjectID(userID)

	filter := bson.D{
		{Key: "profileID", Value: profileOID},
		{Key: "userID", Value: userOID},
	}

	fields := bson.D{
		{Key: "_id", Value: 0},
		{Key: "vote", Value: 1},
	}

	opts := options.FindOne().SetProjection(fields)

	data := struct {
		Vote int32 `bson:"vote"`
	}{VoteNeutral}

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := v.Collection.FindOne(cctx, filter, opts).Decode(&data)
	if err != nil {
		// it's NOT an error if the user didn't vote
		if err != mongo.ErrNoDocuments {
			return VoteNeutral, helpers.WrapError(err, helpers.FuncName())
		}
	}
	return data.Vote, nil
}

// GetUserVotes returns the vote actions of a user to objects of a specific type
// usually used for items displayed in lists
func (v VoteModel) GetUserVotes(ctx context.Context, domain string, userID string) ([]UserVote, error) {

	userOID := helpers.ObjectID(userID)

	fields := bson.D{
		{Key: "_id", Value: 0},
		{Key: "profileID", Value: 1},
		{Key: "vote", Value: 1},
	}

	filter := bson.D{
		{Key: "userID", Value: userOID},
		{Key: "profileType", Value: domain},
	}

	opts := options.Find().SetProjection(fields).SetLimit(20)

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := v.Collection.Find(cctx, filter, opts)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var votes []UserVote
	err = cursor.All(cctx, &votes)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	// check for empty result set (no error raised by find)
	if votes == nil {
		return nil, apperror.ErrNoData
	}

	return votes, nil
}

// UserVote represents a user's vote action to a profile
// usually used as a slice type for lists
type UserVote struct {
	ProfileID primitive.ObjectID `json:"profileId" bson:"profileID"`
	UserVote  int32              `json:"userVote" bson:"vote"` // primitive values need bson tag
}

// count the actual votes for/against a profile
func (v VoteModel) countVotes(ctx context.Context, profileOID primitive.ObjectID) (up int32, down int32, err error) {

	matchStage := bson.D{
		{Key: "$match", Value: bson.D{
			{Key: "profileID", Value: profileOID},
		}},
	}

	groupStage := bson.D{
		{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$vote"}, // values of "vote" (up/down action)
			{Key: "count", Value: bson.D{
				{Key: "$sum", Value: 1},
			},
			}},
		}}

	opts := options.Aggregate().SetMaxTime(5 * time.Second)

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := v.Collection.Aggregate(cctx, mongo.Pipeline{
		matchStage,
		groupStage}, opts)
	if err != nil {
		return VoteNeutral, VoteNeutral, helpers.WrapError(err, helpers.FuncName())
	}

	var votes []bson.M
	err = cursor.All(cctx, &votes)
	if err != nil {
		// it's NOT an error if there are no votes at all
		if err != mongo.ErrNoDocuments {
			return VoteNeutral, VoteNeutral, helpers.WrapError(err, helpers.FuncName())
		}
	}

	// slice contains a map with values of "_id" and the field "count"
	for _, doc := range votes {
		switch doc["_id"].(int32) {
		case VoteUp:
			up = doc["count"].(int32)
		case VoteDown:
			down = doc["count"].(int32)
		}
	}

	return up, down, nil
}
