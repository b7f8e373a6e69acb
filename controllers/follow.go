package controllers

import (
	"net/http"

	"cine-circle/apperror"
	"cine-circle/authentication"
	"cine-circle/environment"
	"cine-circle/helpers"

	"github.com/gin-gonic/gin"
)

// GetFollowings lists whom a user follows
func GetFollowings(c *gin.Context) {

	_, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.JSON(http.StatusUnauthorized, err.Error())
		return
	}

	refs, err := environment.Env.FollowModel.GetFollowing(c.Request.Context(), helpers.ObjectID(c.Param("id")))
	if err != nil {
		if err == apperror.ErrNoData {
			c.Status(http.StatusNoContent)
			return
		}
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusOK, refs)
}

// GetFollowers lists who follows a user
func GetFollowers(c *gin.Context) {

	_, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.JSON(http.StatusUnauthorized, err.Error())
		return
	}

	refs, err := environment.Env.FollowModel.GetFollowers(c.Request.Context(), helpers.ObjectID(c.Param("id")))
	if err != nil {
		if err == apperror.ErrNoData {
			c.Status(http.StatusNoContent)
			return
		}
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusOK, refs)
}

// FollowUser adds the requested user to the current user's followings
func FollowUser(c *gin.Context) {

	var apiError ErrorResponse

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.JSON(http.StatusUnauthorized, err.Error())
		return
	}

	data := struct {
		UserID string `json:"userID" binding:"required"` // whom to follow
	}{}

	if err := c.ShouldBindJSON(&data); err != nil {
		apiError.Code = InvalidJSON
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	err = environment.Env.FollowModel.Follow(c.Request.Context(), helpers.ObjectID(userID), helpers.ObjectID(data.UserID))
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.Status(http.StatusOK)
}

// UnfollowUser removes a user from the current user's followings
func UnfollowUser(c *gin.Context) {

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.JSON(http.StatusUnauthorized, err.Error())
		return
	}

	err = environment.Env.FollowModel.Unfollow(c.Request.Context(), helpers.ObjectID(userID), helpers.ObjectID(c.Param("id")))
	if err != nil {
		if err == apperror.ErrNoData {
			c.Status(http.StatusNoContent)
			return
		}
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.Status(http.StatusOK)
}
