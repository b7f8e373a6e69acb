package controllers

import (
	"net/http"

	"cine-circle/authentication"
	"cine-circle/environment"
	"cine-circle/helpers"

	"github.com/gin-gonic/gin"
)

// GetUser sends a profile
func GetUser(c *gin.Context) {

	// userID (currentUser) could be used to check a user's permission to view another profile
	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.JSON(http.StatusUnauthorized, err.Error())
		return
	}

	user, err := environment.Env.UserModel.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNoContent, nil)
		return
	}

	// count profile visits (deduplicated per client)
	if environment.Env.Requests.Continue(c.ClientIP(), c.Param("id")) {
		environment.Env.Tracker.SaveVisitor("user", c.Param("id"), userID)
	}

	// don't send password hash
	user.Password = ""

	c.JSON(http.StatusOK, &user)
}

// AddFavoriteMovie puts a movie on the current user's favorites list
func AddFavoriteMovie(c *gin.Context) {

	var apiError ErrorResponse

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.JSON(http.StatusUnauthorized, err.Error())
		return
	}

	data := struct {
		MovieID string `json:"movieID" binding:"required"`
	}{}

	if err := c.ShouldBindJSON(&data); err != nil {
		apiError.Code = InvalidJSON
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	err = environment.Env.UserModel.AddFavoriteMovie(c.Request.Context(), helpers.ObjectID(userID), data.MovieID)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.Status(http.StatusOK)
}

// RemoveFavoriteMovie takes a movie off the current user's favorites list
func RemoveFavoriteMovie(c *gin.Context) {

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.JSON(http.StatusUnauthorized, err.Error())
		return
	}

	err = environment.Env.UserModel.RemoveFavoriteMovie(c.Request.Context(), helpers.ObjectID(userID), c.Param("movieId"))
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.Status(http.StatusOK)
}
