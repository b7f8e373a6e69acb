package controllers

import (
	"net/http"

	"cine-circle/apperror"
	"cine-circle/authentication"
	"cine-circle/environment"
	"cine-circle/helpers"
	"cine-circle/models"

	"github.com/gin-gonic/gin"
)

// AddRating saves the current user's star rating of a movie.
// Rating a movie twice replaces stars and date; collected votes survive.
func AddRating(c *gin.Context) {

	var (
		data     models.Rating
		apiError ErrorResponse
	)

	userID, err := authentication.Authenticate(c.Request)
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

	data.AuthorID = helpers.ObjectID(userID)

	rating, err := environment.Env.RatingModel.Validate(data)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	ID, err := environment.Env.RatingModel.CreateRating(c.Request.Context(), rating)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusCreated, Created{ID})
}

// ListMovieRatings sends the most recent ratings of one movie
func ListMovieRatings(c *gin.Context) {

	ratings, err := environment.Env.RatingModel.ListMovieRatings(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == apperror.ErrNoData {
			c.Status(http.StatusNoContent)
			return
		}
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusOK, ratings)
}
