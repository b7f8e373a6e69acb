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

// Rating is the "interface" used for client communication.
// A user keeps at most one rating per movie; re-rating replaces stars and date.
type Rating struct {
	ID         primitive.ObjectID `json:"id" bson:"_id"`
	AuthorID   primitive.ObjectID `json:"authorID" bson:"authorID"`
	AuthorName string             `json:"authorName" bson:"authorName"`
	MovieID    primitive.ObjectID `json:"movieID" bson:"movieID" binding:"required"`
	Stars      int32              `json:"stars" bson:"stars" binding:"required"`
	Date       time.Time          `json:"date" bson:"date"`
	VoteCount  int32              `json:"voteCount" bson:"voteCount"`
}

// RatingModel provides the logic to the interface and access to the database
type RatingModel struct {
	Collection *mongo.Collection
	// injected from the user and movie models
	GetUserName func(ctx context.Context, userOID primitive.ObjectID) (string, error)
	MovieExists func(ctx context.Context, movieOID primitive.ObjectID) (bool, error)
}

// Validate checks given values (immutable)
func (m RatingModel) Validate(rating Rating) (*Rating, error) {

	cleaned := rating

	if cleaned.Stars < 1 || cleaned.Stars > 5 {
		return nil, ErrInvalidStars
	}

	if cleaned.MovieID == primitive.NilObjectID {
		return nil, ErrUnknownMovie
	}

	return &cleaned, nil
}

// CreateRating saves a user's rating of a movie (upsert: one rating per user/movie)
func (m RatingModel) CreateRating(ctx context.Context, rating *Rating) (string, error) {

	exists, err := m.MovieExists(ctx, rating.MovieID)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", ErrUnknownMovie
	}

	userName, err := m.GetUserName(ctx, rating.AuthorID)
	if err != nil {
		return "", err
	}

	rating.ID = primitive.NewObjectID()
	rating.AuthorName = userName
	rating.Date = time.Now()
	rating.VoteCount = 0

	filter := bson.D{
		{Key: "authorID", Value: rating.AuthorID},
		{Key: "movieID", Value: rating.MovieID},
	}

	fields := bson.D{
		{Key: "$set", Value: bson.D{{Key: "authorName", Value: rating.AuthorName}}},
		{Key: "$set", Value: bson.D{{Key: "stars", Value: rating.Stars}}},
		{Key: "$set", Value: bson.D{{Key: "date", Value: rating.Date}}},
		// _id and counters only on first insert, so votes survive a re-rating
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "_id", Value: rating.ID},
			{Key: "authorID", Value: rating.AuthorID},
			{Key: "movieID", Value: rating.MovieID},
			{Key: "voteCount", Value: rating.VoteCount},
		}},
	}

	opts := options.Update().SetUpsert(true)

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := m.Collection.UpdateOne(cctx, filter, fields, opts)
	if err != nil {
		return "", helpers.WrapError(err, helpers.FuncName())
	}

	if res.UpsertedID != nil {
		return res.UpsertedID.(primitive.ObjectID).Hex(), nil
	}

	// existing rating was updated; read its id back for the response
	data := struct {
		ID primitive.ObjectID `bson:"_id"`
	}{}
	err = m.Collection.FindOne(cctx, filter, options.FindOne().SetProjection(bson.D{{Key: "_id", Value: 1}})).Decode(&data)
	if err != nil {
		return "", helpers.WrapError(err, helpers.FuncName())
	}

	return data.ID.Hex(), nil
}

// ListRatings runs one bounded content query (see ContentQuery).
// An empty result is a regular outcome for the feed, so no ErrNoData is raised.
func (m RatingModel) ListRatings(ctx context.Context, query ContentQuery) ([]Rating, error) {

	filter := bson.D{}
	if query.AuthorIDs != nil {
		filter = append(filter, bson.E{Key: "authorID", Value: bson.D{{Key: "$in", Value: query.AuthorIDs}}})
	}
	if !query.Since.IsZero() {
		filter = append(filter, bson.E{Key: "date", Value: bson.D{{Key: "$gte", Value: query.Since}}})
	}

	sort := bson.D{{Key: "date", Value: -1}}
	if query.OrderBy == OrderByVotes {
		sort = bson.D{{Key: "voteCount", Value: -1}}
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultContentLimit
	}

	opts := options.Find().SetSort(sort).SetLimit(limit)

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := m.Collection.Find(cctx, filter, opts)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var ratings []Rating
	err = cursor.All(cctx, &ratings)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	if ratings == nil {
		ratings = []Rating{}
	}

	return ratings, nil
}

// ListMovieRatings returns the most recent ratings of one movie (bounded)
func (m RatingModel) ListMovieRatings(ctx context.Context, movieID string) ([]Rating, error) {

	id, err := primitive.ObjectIDFromHex(movieID)
	if err != nil {
		return nil, apperror.ErrNoData
	}

	filter := bson.D{{Key: "movieID", Value: id}}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}}).SetLimit(defaultContentLimit)

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := m.Collection.Find(cctx, filter, opts)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var ratings []Rating
	err = cursor.All(cctx, &ratings)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	// check for empty result set (no error raised by find)
	if ratings == nil {
		return nil, apperror.ErrNoData
	}

	return ratings, nil
}

// SetVotes is called by the voting model to persist recalculated counters
func (m RatingModel) SetVotes(ctx context.Context, engagement *Engagement) error {

	fields := bson.D{
		{Key: "$set", Value: bson.D{{Key: "voteCount", Value: engagement.VoteCount}}},
	}

	filter := bson.D{{Key: "_id", Value: engagement.ProfileOID}}

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := m.Collection.UpdateOne(cctx, filter, fields)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	if result.MatchedCount == 0 {
		return apperror.ErrNoData
	}

	return nil
}
