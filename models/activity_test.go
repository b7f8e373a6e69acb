package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestActivityTimestampTakenFromPayload(t *testing.T) {

	ts := time.Date(2021, 3, 14, 9, 26, 53, 0, time.UTC)

	post := Post{ID: primitive.NewObjectID(), CreatedTS: ts}
	a := newPostActivity(ActivityRecentPost, post)

	assert.Equal(t, ts, a.Timestamp)
	assert.Equal(t, post.ID, a.Post.ID)
	assert.Nil(t, a.Rating)

	rating := Rating{ID: primitive.NewObjectID(), Date: ts.Add(time.Hour)}
	b := newRatingActivity(ActivityTrendingRating, rating)

	assert.Equal(t, ts.Add(time.Hour), b.Timestamp)
	assert.Equal(t, rating.ID, b.Rating.ID)
	assert.Nil(t, b.Post)
}

func TestActivityPayloadIsACopy(t *testing.T) {

	post := Post{ID: primitive.NewObjectID(), Content: "original"}
	a := newPostActivity(ActivityRecentPost, post)

	post.Content = "mutated"

	assert.Equal(t, "original", a.Post.Content)
}
