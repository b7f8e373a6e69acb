package controllers

import (
	"net/http"

	"cine-circle/authentication"
	"cine-circle/environment"
	"cine-circle/helpers"
	"cine-circle/models"

	"github.com/gin-gonic/gin"
)

// AddPost publishes a new post
func AddPost(c *gin.Context) {

	var (
		data     models.Post
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

	// the author is always the current user
	data.AuthorID = helpers.ObjectID(userID)

	post, err := environment.Env.PostModel.Validate(data)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	ID, err := environment.Env.PostModel.CreatePost(c.Request.Context(), post)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusCreated, Created{ID})
}

// GetPost sends one post
func GetPost(c *gin.Context) {

	post, err := environment.Env.PostModel.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNoContent, nil)
		return
	}

	c.JSON(http.StatusOK, &post)
}
