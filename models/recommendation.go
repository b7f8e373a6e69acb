package models

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// LikedBy names a mutual friend who has the movie among the favorites
type LikedBy struct {
	UserID   primitive.ObjectID `json:"userID"`
	UserName string             `json:"userName"`
}

// MutualRecommendation is one recommended movie with its sponsors
type MutualRecommendation struct {
	Movie   Movie     `json:"movie"`
	LikedBy []LikedBy `json:"likedBy"`
}

// RecommendationModel recommends movies favored by mutual friends
// (users the viewer follows who follow back). Like the feed it owns no
// collection and reads through injected functions.
type RecommendationModel struct {
	GetFollowingIDs func(ctx context.Context, userOID primitive.ObjectID) ([]primitive.ObjectID, error)
	GetFollowerIDs  func(ctx context.Context, userOID primitive.ObjectID) ([]primitive.ObjectID, error)
	GetProfiles     func(ctx context.Context, userOIDs []primitive.ObjectID) ([]Profile, error)
	GetMoviesByIDs  func(ctx context.Context, movieOIDs []primitive.ObjectID) ([]Movie, error)
}

// MutualRecommendations collects the favorite movies of the viewer's mutual
// friends. Movies appear in the order they were first seen while walking the
// mutuals; each movie lists exactly the mutuals who favor it. A user without
// mutual friends gets an empty list, not an error.
func (m RecommendationModel) MutualRecommendations(ctx context.Context, viewerOID primitive.ObjectID) ([]MutualRecommendation, error) {

	var following, followers []primitive.ObjectID

	// both sides of the follow graph are independent reads
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		following, err = m.GetFollowingIDs(gctx, viewerOID)
		return err
	})

	g.Go(func() error {
		var err error
		followers, err = m.GetFollowerIDs(gctx, viewerOID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	mutuals := intersect(following, followers)
	if len(mutuals) == 0 {
		return []MutualRecommendation{}, nil
	}

	profiles, err := m.GetProfiles(ctx, mutuals)
	if err != nil {
		return nil, err
	}

	// walk the mutuals, remembering first-seen movie order and who favors what
	var movieOrder []primitive.ObjectID
	likedBy := make(map[primitive.ObjectID][]LikedBy)

	for _, profile := range profiles {
		counted := make(map[primitive.ObjectID]struct{})
		for _, movieOID := range profile.FavoriteMovieIDs() {
			// a favorites list may carry the same movie twice; one sponsor entry is enough
			if _, dup := counted[movieOID]; dup {
				continue
			}
			counted[movieOID] = struct{}{}

			if _, seen := likedBy[movieOID]; !seen {
				movieOrder = append(movieOrder, movieOID)
			}
			likedBy[movieOID] = append(likedBy[movieOID], LikedBy{
				UserID:   profile.UserID,
				UserName: profile.UserName,
			})
		}
	}

	if len(movieOrder) == 0 {
		return []MutualRecommendation{}, nil
	}

	movies, err := m.GetMoviesByIDs(ctx, movieOrder)
	if err != nil {
		return nil, err
	}

	catalogue := make(map[primitive.ObjectID]Movie, len(movies))
	for _, movie := range movies {
		catalogue[movie.ID] = movie
	}

	recommendations := make([]MutualRecommendation, 0, len(movieOrder))
	for _, movieOID := range movieOrder {
		movie, ok := catalogue[movieOID]
		if !ok {
			// favorite references a deleted movie, skip it
			continue
		}
		recommendations = append(recommendations, MutualRecommendation{
			Movie:   movie,
			LikedBy: likedBy[movieOID],
		})
	}

	return recommendations, nil
}

// intersect returns the ids present in both slices, keeping the order of a
func intersect(a []primitive.ObjectID, b []primitive.ObjectID) []primitive.ObjectID {

	set := make(map[primitive.ObjectID]struct{}, len(b))
	for _, id := range b {
		set[id] = struct{}{}
	}

	var both []primitive.ObjectID
	seen := make(map[primitive.ObjectID]struct{}, len(a))

	for _, id := range a {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := set[id]; ok {
			both = append(both, id)
		}
	}

	return both
}
