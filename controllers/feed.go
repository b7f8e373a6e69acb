package controllers

import (
	"net/http"

	"cine-circle/authentication"
	"cine-circle/environment"
	"cine-circle/helpers"
	"cine-circle/models"

	"github.com/gin-gonic/gin"
)

// GetFeed sends the current user's home feed:
// recent activity of followed users plus site-wide trending content
func GetFeed(c *gin.Context) {

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.JSON(http.StatusUnauthorized, err.Error())
		return
	}

	limit := parseLimit(c.Query("limit"))

	activities, err := environment.Env.FeedModel.AssembleFeed(c.Request.Context(), helpers.ObjectID(userID), limit)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	// an empty feed is a valid result (eg. brand-new instance)
	res := struct {
		Message string            `json:"message"`
		Data    []models.Activity `json:"data"`
	}{"ok", activities}

	c.JSON(http.StatusOK, res)
}
