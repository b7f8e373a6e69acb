package controllers

import (
	"net/http"

	"cine-circle/authentication"
	"cine-circle/environment"
	"cine-circle/helpers"
	"cine-circle/models"

	"github.com/gin-gonic/gin"
)

// GetMutualRecommendations sends movies favored by the current user's
// mutual friends (followed users who follow back)
func GetMutualRecommendations(c *gin.Context) {

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.JSON(http.StatusUnauthorized, err.Error())
		return
	}

	recommendations, err := environment.Env.RecommendationModel.MutualRecommendations(c.Request.Context(), helpers.ObjectID(userID))
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	// no mutual friends (or none with favorites) is a valid, empty result
	res := struct {
		Message string                        `json:"message"`
		Data    []models.MutualRecommendation `json:"data"`
	}{"ok", recommendations}

	c.JSON(http.StatusOK, res)
}
