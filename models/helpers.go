package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// sort options for content queries
const (
	OrderByDate  = "date"
	OrderByVotes = "votes"
)

// default page size of content listings
const defaultContentLimit = int64(20)

// ContentQuery describes one bounded read against the posts or ratings collection.
// A nil AuthorIDs means "all users"; an empty (non-nil) slice matches nobody,
// which is what an empty following list must produce.
type ContentQuery struct {
	AuthorIDs []primitive.ObjectID
	Since     time.Time // zero value = no lower bound
	OrderBy   string    // OrderByDate | OrderByVotes
	Limit     int64     // <= 0 falls back to the default
}
