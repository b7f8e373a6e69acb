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

// AddComment adds a comment to a post
func AddComment(c *gin.Context) {

	var (
		data     models.Comment
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

	data.CreatedID = helpers.ObjectID(userID)

	comment, err := environment.Env.CommentModel.Validate(data)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	ID, err := environment.Env.CommentModel.CreateComment(c.Request.Context(), comment)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusCreated, Created{ID})
}

// ListComments sends the most recent comments of one post
func ListComments(c *gin.Context) {

	comments, err := environment.Env.CommentModel.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == apperror.ErrNoData {
			c.Status(http.StatusNoContent)
			return
		}
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusOK, comments)
}
