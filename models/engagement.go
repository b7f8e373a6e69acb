package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Engagement is an internal type, not sent to clients.
// It is used to pass recalculated counters from the voting-system (CastVote) to
// the referenced parents (Post, Rating) which persist them on their documents.
type Engagement = struct {
	ProfileOID primitive.ObjectID
	VoteCount  int32 // net votes (up - down), the trending sort key
	UpVotes    int32
	DownVotes  int32
	TouchedTS  time.Time // a vote updates the "touched" info, not the "modified"
}
