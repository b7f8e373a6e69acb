package models

import (
	"context"
	"strings"
	"time"

	"cine-circle/apperror"
	"cine-circle/database"
	"cine-circle/helpers"
	"cine-circle/lookups"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Movie is the "interface" used for client communication
type Movie struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	GenreCode   int32              `json:"genreCode" bson:"genreCD"`
	GenreText   string             `json:"genreText" bson:"-"`
	ReleaseYear int32              `json:"releaseYear" bson:"releaseYear"`
	PosterURL   string             `json:"posterURL" bson:"posterURL"`
}

// MovieModel provides the logic to the interface and access to the database
type MovieModel struct {
	Collection *mongo.Collection
}

// Validate checks given values and sets defaults where applicable (immutable)
func (m MovieModel) Validate(movie Movie) (*Movie, error) {

	cleaned := movie

	cleaned.Title = strings.TrimSpace(cleaned.Title)
	if cleaned.Title == "" {
		return nil, ErrTitleMissing
	}

	return &cleaned, nil
}

// CreateMovie adds a new movie to the catalogue - validated by controller
func (m MovieModel) CreateMovie(ctx context.Context, movie *Movie) (string, error) {

	movie.ID = primitive.NewObjectID()

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := m.Collection.InsertOne(cctx, movie)
	if err != nil {
		return "", helpers.WrapError(err, helpers.FuncName())
	}

	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

// GetMovie returns one movie
func (m MovieModel) GetMovie(ctx context.Context, movieID string) (*Movie, error) {

	id, err := primitive.ObjectIDFromHex(movieID)
	if err != nil {
		return nil, apperror.ErrNoData
	}

	var data Movie

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = m.Collection.FindOne(cctx, bson.M{"_id": id}).Decode(&data)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperror.ErrNoData
		}
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	addMovieLookups(&data)

	return &data, nil
}

// MovieExists is a cheap existence probe used by the rating model
func (m MovieModel) MovieExists(ctx context.Context, movieOID primitive.ObjectID) (bool, error) {

	fields := bson.D{
		{Key: "_id", Value: 1}}

	data := struct {
		ID primitive.ObjectID `bson:"_id"`
	}{}

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := m.Collection.FindOne(cctx, bson.M{"_id": movieOID}, options.FindOne().SetProjection(fields)).Decode(&data)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return false, nil
		}
		// treat errors as a "yes" - caller should not evaluate the result in case of an error
		return true, helpers.WrapError(err, helpers.FuncName())
	}
	return true, nil
}

// GetMoviesByIDs batch-reads movie metadata.
// Ids without a matching document are simply absent from the result; the caller
// decides whether that is a problem.
func (m MovieModel) GetMoviesByIDs(ctx context.Context, movieOIDs []primitive.ObjectID) ([]Movie, error) {

	filter := bson.D{
		{Key: "_id", Value: bson.D{{Key: "$in", Value: movieOIDs}}},
	}

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := m.Collection.Find(cctx, filter)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var movies []Movie
	err = cursor.All(cctx, &movies)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	if movies == nil {
		movies = []Movie{}
	}

	for i := range movies {
		addMovieLookups(&movies[i])
	}

	return movies, nil
}

// SearchMovies lists or searches the catalogue (bounded)
func (m MovieModel) SearchMovies(ctx context.Context, searchTerm string) ([]Movie, error) {

	filter := bson.D{}
	if searchTerm != "" {
		// LIKE %searchTerm% (case-insensitive)
		filter = bson.D{
			{Key: "title", Value: primitive.Regex{Pattern: ".*" + searchTerm + ".*", Options: "i"}},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "title", Value: 1}}).SetLimit(20)

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := m.Collection.Find(cctx, filter, opts)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var movies []Movie
	err = cursor.All(cctx, &movies)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	// check for empty result set (no error raised by find)
	if movies == nil {
		return nil, apperror.ErrNoData
	}

	for i := range movies {
		addMovieLookups(&movies[i])
	}

	return movies, nil
}

func addMovieLookups(movie *Movie) *Movie {
	movie.GenreText = database.GetLookupText(lookups.LookupType(lookups.LTgenre), movie.GenreCode)
	return movie
}
