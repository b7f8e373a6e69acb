package controllers

import (
	"net/http"

	"cine-circle/apperror"
	"cine-circle/authentication"
	"cine-circle/environment"
	"cine-circle/helpers"

	"github.com/gin-gonic/gin"
)

// LikePost marks a post as liked by the current user (idempotent)
func LikePost(c *gin.Context) {

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.JSON(http.StatusUnauthorized, err.Error())
		return
	}

	count, err := environment.Env.LikeModel.Like(c.Request.Context(), helpers.ObjectID(c.Param("id")), helpers.ObjectID(userID))
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	res := struct {
		LikeCount int32 `json:"likeCount"`
	}{count}

	c.JSON(http.StatusOK, res)
}

// UnlikePost removes the current user's like from a post
func UnlikePost(c *gin.Context) {

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.JSON(http.StatusUnauthorized, err.Error())
		return
	}

	count, err := environment.Env.LikeModel.Unlike(c.Request.Context(), helpers.ObjectID(c.Param("id")), helpers.ObjectID(userID))
	if err != nil {
		if err == apperror.ErrNoData {
			c.Status(http.StatusNoContent)
			return
		}
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	res := struct {
		LikeCount int32 `json:"likeCount"`
	}{count}

	c.JSON(http.StatusOK, res)
}
