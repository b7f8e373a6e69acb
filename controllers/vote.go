package controllers

import (
	"context"
	"net/http"

	"cine-circle/authentication"
	"cine-circle/environment"
	"cine-circle/helpers"
	"cine-circle/models"

	"github.com/gin-gonic/gin"
)

// profile types accepted by the voting system
const (
	profileTypePost   = "post"
	profileTypeRating = "rating"
)

// CastVote votes for/against a post or rating (or revokes the vote).
// The recalculated counter is persisted on the referenced document.
func CastVote(c *gin.Context) {

	var (
		data     models.Vote
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

	// the voter is always the current user
	data.UserID = helpers.ObjectID(userID)

	if data.Vote != models.VoteUp && data.Vote != models.VoteDown && data.Vote != models.VoteNeutral {
		apiError.Code = InvalidRequest
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	// the profile type decides which parent persists the counter
	var target func(ctx context.Context, engagement *models.Engagement) error
	switch data.ProfileType {
	case profileTypePost:
		target = environment.Env.PostModel.SetVotes
	case profileTypeRating:
		target = environment.Env.RatingModel.SetVotes
	default:
		apiError.Code = InvalidRequest
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	profileVotes, err := environment.Env.VoteModel.CastVote(c.Request.Context(), data, target)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusOK, profileVotes)
}

// GetUserVotes sends the current user's vote actions for a profile type
// (used by the client to mark already-voted items in lists)
func GetUserVotes(c *gin.Context) {

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.JSON(http.StatusUnauthorized, err.Error())
		return
	}

	domain := c.Query("type")
	if domain != profileTypePost && domain != profileTypeRating {
		var apiError ErrorResponse
		apiError.Code = InvalidRequest
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	votes, err := environment.Env.VoteModel.GetUserVotes(c.Request.Context(), domain, userID)
	if err != nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, votes)
}
