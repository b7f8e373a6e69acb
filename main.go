package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"cine-circle/authentication"
	"cine-circle/controllers"
	"cine-circle/database"
	"cine-circle/environment"
	"cine-circle/middleware"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	router = gin.Default()
)

// runs BEFORE main - the order of package inits is undefined though!
func init() {
	// Load Config
	err := godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file")
	}
}

func handleRequests() {
	router.Use(middleware.CORSMiddleware())

	router.GET("/lookups", controllers.ListLookups)

	// auth-related
	router.POST("/login", controllers.Login)
	router.POST("/logout", authentication.TokenAuthMiddleware(), controllers.Logout)
	router.POST("/refresh", controllers.Refresh) // no middleware - the AT may be expired here
	router.POST("/register", controllers.Register)

	router.POST("/user/exists", controllers.UserExists)
	router.POST("/email/exists", controllers.EMailExists)

	// user-mgmt
	router.GET("/users/:id", authentication.TokenAuthMiddleware(), controllers.GetUser)
	router.POST("/user/changePass", authentication.TokenAuthMiddleware(), controllers.ChangePassword)
	router.POST("/user/verifyPass", authentication.TokenAuthMiddleware(), controllers.VerifyPassword)

	// follow graph
	router.GET("/users/:id/followings", authentication.TokenAuthMiddleware(), controllers.GetFollowings)
	router.GET("/users/:id/followers", authentication.TokenAuthMiddleware(), controllers.GetFollowers)
	router.POST("/user/follow", authentication.TokenAuthMiddleware(), controllers.FollowUser)
	router.DELETE("/user/follow/:id", authentication.TokenAuthMiddleware(), controllers.UnfollowUser)

	// favorites
	router.POST("/user/favorites", authentication.TokenAuthMiddleware(), controllers.AddFavoriteMovie)
	router.DELETE("/user/favorites/:movieId", authentication.TokenAuthMiddleware(), controllers.RemoveFavoriteMovie)

	// feed & recommendations (the composed reads)
	router.GET("/feed", authentication.TokenAuthMiddleware(), controllers.GetFeed)
	router.GET("/recommendations/mutual", authentication.TokenAuthMiddleware(), controllers.GetMutualRecommendations)

	// posts
	router.GET("/posts/:id", controllers.GetPost)
	router.POST("/posts", authentication.TokenAuthMiddleware(), controllers.AddPost)
	router.GET("/posts/:id/comments", controllers.ListComments)
	router.POST("/comments", authentication.TokenAuthMiddleware(), controllers.AddComment)
	router.POST("/posts/:id/like", authentication.TokenAuthMiddleware(), controllers.LikePost)
	router.DELETE("/posts/:id/like", authentication.TokenAuthMiddleware(), controllers.UnlikePost)

	// ratings
	router.POST("/ratings", authentication.TokenAuthMiddleware(), controllers.AddRating)

	// votes (posts & ratings)
	router.POST("/votes", authentication.TokenAuthMiddleware(), controllers.CastVote)
	router.GET("/votes", authentication.TokenAuthMiddleware(), controllers.GetUserVotes)

	// movie catalogue
	// GET has no BODY (Gin would support it, browsers don't) - hence query parameters
	router.GET("/movies", controllers.SearchMovies)
	router.GET("/movies/:id", controllers.GetMovie)
	router.POST("/movies", authentication.TokenAuthMiddleware(), controllers.AddMovie)
	router.GET("/movies/:id/ratings", controllers.ListMovieRatings)
	router.GET("/movies/:id/visits", authentication.TokenAuthMiddleware(), controllers.GetMovieVisits)
	router.GET("/movies/:id/visitors", authentication.TokenAuthMiddleware(), controllers.GetMovieVisitors)

	// ops
	router.GET("/monitor/requests/count", controllers.CountRequests)
	router.GET("/monitor/requests/dump", controllers.DumpRequests)
	router.POST("/monitor/requests/flush", controllers.FlushRequests)

	switch os.Getenv("APP_ENV") {
	case "DEV":
		router.Run(":" + os.Getenv("API_PORT"))
	case "PRD":
		router.RunTLS(":"+os.Getenv("API_PORT"), os.Getenv("APP_CERTFILE"), os.Getenv("APP_KEYFILE"))
	default:
		panic(fmt.Errorf("APP_ENV not set"))
	}
}

func main() {
	// connect to the main database (mongoDB)
	err := database.OpenConnection()
	if err != nil {
		log.Fatal(err)
	}
	defer database.CloseConnection()

	// connect to the JWT store (redis)
	err = authentication.OpenConnection()
	if err != nil {
		log.Fatal(err)
	}
	defer authentication.CloseConnection()

	// connect to the feed cache (redis)
	err = database.OpenRedisConnection()
	if err != nil {
		log.Fatal(err)
	}
	defer database.CloseRedisConnection()

	// connect to the analytics store (influxDB)
	if os.Getenv("USE_ANALYTICS") == "YES" {
		err = database.OpenInfluxConnection()
		if err != nil {
			log.Fatal(err)
		}
		defer database.CloseInfluxConnection()
	}

	// initialize the models
	environment.InitializeModels()

	// housekeeping of the visit-dedup registry and the analytics replication
	go func() {
		flushTicker := time.NewTicker(5 * time.Minute)
		replTicker := time.NewTicker(time.Hour)
		for {
			select {
			case <-flushTicker.C:
				environment.Env.Requests.Flush()
			case <-replTicker.C:
				if os.Getenv("USE_ANALYTICS") == "YES" {
					environment.Env.Tracker.Replicate()
				}
			}
		}
	}()

	fmt.Println("CineCircle running...")
	handleRequests()
}
