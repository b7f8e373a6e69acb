package models

import (
	"time"
)

// activity variants
const (
	ActivityRecentPost     = "recent_post"
	ActivityRecentRating   = "recent_rating"
	ActivityTrendingPost   = "trending_post"
	ActivityTrendingRating = "trending_rating"
)

// Activity is one entry of the composed feed. Exactly one of Post/Rating is set,
// Variant tells the client which. Timestamp is normalized at tagging time so the
// merge sort never has to look inside the payload again.
type Activity struct {
	Variant   string    `json:"variant"`
	Timestamp time.Time `json:"timestamp"`
	Post      *Post     `json:"post,omitempty"`
	Rating    *Rating   `json:"rating,omitempty"`
}

func newPostActivity(variant string, post Post) Activity {
	p := post
	return Activity{
		Variant:   variant,
		Timestamp: p.CreatedTS,
		Post:      &p,
	}
}

func newRatingActivity(variant string, rating Rating) Activity {
	r := rating
	return Activity{
		Variant:   variant,
		Timestamp: r.Date,
		Rating:    &r,
	}
}
