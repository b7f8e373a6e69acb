package controllers

import (
	"net/http"
	"time"

	"cine-circle/apperror"
	"cine-circle/authentication"
	"cine-circle/environment"
	"cine-circle/models"

	"github.com/gin-gonic/gin"
)

// AddMovie adds a movie to the catalogue
func AddMovie(c *gin.Context) {

	var (
		data     models.Movie
		apiError ErrorResponse
	)

	_, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.JSON(http.StatusUnauthorized, err.Error())
		return
	}

	if err = c.ShouldBindJSON(&data); err != nil {
		apiError.Code = InvalidJSON
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	movie, err := environment.Env.MovieModel.Validate(data)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	ID, err := environment.Env.MovieModel.CreateMovie(c.Request.Context(), movie)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusCreated, Created{ID})
}

// GetMovie sends one movie
func GetMovie(c *gin.Context) {

	movie, err := environment.Env.MovieModel.GetMovie(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNoContent, nil)
		return
	}

	// count catalogue visits (deduplicated per client); viewer may be anonymous
	userID, _ := authentication.Authenticate(c.Request)
	if environment.Env.Requests.Continue(c.ClientIP(), c.Param("id")) {
		environment.Env.Tracker.SaveVisitor("movie", c.Param("id"), userID)
	}

	c.JSON(http.StatusOK, &movie)
}

// SearchMovies lists or searches the catalogue
// GET has no BODY (Gin would support it, browsers don't) - hence a query parameter
func SearchMovies(c *gin.Context) {

	searchTerm := c.Query("q")

	movies, err := environment.Env.MovieModel.SearchMovies(c.Request.Context(), searchTerm)
	if err != nil {
		if err == apperror.ErrNoData {
			environment.Env.Tracker.SaveSearch(searchTerm, 0)
			c.Status(http.StatusNoContent)
			return
		}
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	environment.Env.Tracker.SaveSearch(searchTerm, len(movies))

	c.JSON(http.StatusOK, movies)
}

// GetMovieVisits sends the "live" visit count of a movie profile (last 30 days)
func GetMovieVisits(c *gin.Context) {

	_, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.JSON(http.StatusUnauthorized, err.Error())
		return
	}

	startDT := time.Now().AddDate(0, 0, -30)

	cnt, err := environment.Env.Tracker.GetVisits("movie", c.Param("id"), startDT)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	res := struct {
		Visits int64 `json:"visits"`
	}{cnt}

	c.JSON(http.StatusOK, res)
}

// GetMovieVisitors sends the last visitors of a movie profile
func GetMovieVisitors(c *gin.Context) {

	_, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.JSON(http.StatusUnauthorized, err.Error())
		return
	}

	startDT := time.Now().AddDate(0, 0, -30)

	visits, err := environment.Env.Tracker.ListVisitors("movie_"+c.Param("id"), startDT)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	if visits == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, visits)
}
