package environment

import (
	"context"
	"os"

	"cine-circle/analytics"
	"cine-circle/client"
	"cine-circle/database"
	"cine-circle/helpers"
	"cine-circle/models"

	influxdb2 "github.com/influxdata/influxdb-client-go"
	"go.mongodb.org/mongo-driver/mongo"
)

// Environment is used for dependency-injection (package de-coupling)
type Environment struct {
	Tracker  *analytics.Tracker
	Requests *client.Registry

	UserModel    models.UserModel
	FollowModel  models.FollowModel
	PostModel    models.PostModel
	RatingModel  models.RatingModel
	MovieModel   models.MovieModel
	VoteModel    models.VoteModel
	CommentModel models.CommentModel
	LikeModel    models.LikeModel

	FeedModel           models.FeedModel
	RecommendationModel models.RecommendationModel
}

// newEnv operates as the constructor to initialize the collection references (private)
func newEnv(mongoClient *mongo.Client, influxClient *influxdb2.Client) *Environment {
	env := &Environment{}

	db := mongoClient.Database(os.Getenv("DB_NAME"))

	env.UserModel.Client = mongoClient
	env.UserModel.Collection = db.Collection("users")

	env.FollowModel.Collection = db.Collection("social")
	env.FollowModel.GetUserName = env.UserModel.GetUserName

	env.PostModel.Collection = db.Collection("posts")
	env.PostModel.GetUserName = env.UserModel.GetUserName

	env.MovieModel.Collection = db.Collection("movies")

	env.RatingModel.Collection = db.Collection("ratings")
	env.RatingModel.GetUserName = env.UserModel.GetUserName
	env.RatingModel.MovieExists = env.MovieModel.MovieExists

	env.VoteModel.Collection = db.Collection("votes")
	env.VoteModel.GetUserName = env.UserModel.GetUserName

	env.CommentModel.Collection = db.Collection("comments")
	env.CommentModel.GetUserName = env.UserModel.GetUserName
	env.CommentModel.BumpCommentCount = env.PostModel.BumpCommentCount

	env.LikeModel.Collection = db.Collection("likes")
	env.LikeModel.SetLikeCount = env.PostModel.SetLikeCount

	// the composing models own no collection, they read through the others
	env.FeedModel.Cache = database.GetRedisConnection()
	env.FeedModel.GetFollowingIDs = env.FollowModel.GetFollowingIDs
	env.FeedModel.ListPosts = env.PostModel.ListPosts
	env.FeedModel.ListRatings = env.RatingModel.ListRatings

	env.RecommendationModel.GetFollowingIDs = env.FollowModel.GetFollowingIDs
	env.RecommendationModel.GetFollowerIDs = env.FollowModel.GetFollowerIDs
	env.RecommendationModel.GetProfiles = env.UserModel.GetProfiles
	env.RecommendationModel.GetMoviesByIDs = env.MovieModel.GetMoviesByIDs

	// prepare analytics gathering (profile visits, catalogue searches)
	// always create the objects so no further checking is needed in the controllers
	env.Requests = new(client.Registry)
	env.Requests.Initialize()

	env.Tracker = new(analytics.Tracker)
	env.Tracker.SetConnections(influxClient, map[string]*mongo.Collection{
		"users":  env.UserModel.Collection,
		"movies": env.MovieModel.Collection,
	})
	env.Tracker.Requests = env.Requests

	// the influx connection is only opened when analytics is switched on;
	// the tracker methods check the same gate before touching the handles
	if os.Getenv("USE_ANALYTICS") == "YES" {
		org := os.Getenv("ANALYTICS_ORG")
		env.Tracker.VisitorAPI = database.InfluxAPI{
			WriteAPI:  (*influxClient).WriteAPIBlocking(org, os.Getenv("ANALYTICS_VISITORS_BUCKET")),
			QueryAPI:  (*influxClient).QueryAPI(org),
			DeleteAPI: (*influxClient).DeleteAPI(),
		}
		env.Tracker.SearchAPI = database.InfluxAPI{
			WriteAPI:  (*influxClient).WriteAPIBlocking(org, os.Getenv("ANALYTICS_SEARCHES_BUCKET")),
			QueryAPI:  (*influxClient).QueryAPI(org),
			DeleteAPI: (*influxClient).DeleteAPI(),
		}
	}

	// the tracker identifies users by hex string (key material of the cache)
	env.Tracker.GetUserName = func(ID string) (string, error) {
		return env.UserModel.GetUserName(context.Background(), helpers.ObjectID(ID))
	}

	return env
}

// Env is the singleton registry
var Env *Environment

// InitializeModels injects the database connections into the models
// (do not confuse with package init)
func InitializeModels() {
	Env = newEnv(database.GetConnection(), database.GetInfluxConnection())
}
