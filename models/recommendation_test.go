package models

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func fakeRecommendationModel(
	following, followers []primitive.ObjectID,
	profiles []Profile,
	movies []Movie) RecommendationModel {

	return RecommendationModel{
		GetFollowingIDs: func(ctx context.Context, userOID primitive.ObjectID) ([]primitive.ObjectID, error) {
			return following, nil
		},
		GetFollowerIDs: func(ctx context.Context, userOID primitive.ObjectID) ([]primitive.ObjectID, error) {
			return followers, nil
		},
		GetProfiles: func(ctx context.Context, userOIDs []primitive.ObjectID) ([]Profile, error) {
			// only profiles of the requested users, like the real store
			requested := make(map[primitive.ObjectID]bool, len(userOIDs))
			for _, id := range userOIDs {
				requested[id] = true
			}
			var res []Profile
			for _, p := range profiles {
				if requested[p.UserID] {
					res = append(res, p)
				}
			}
			return res, nil
		},
		GetMoviesByIDs: func(ctx context.Context, movieOIDs []primitive.ObjectID) ([]Movie, error) {
			var res []Movie
			for _, m := range movies {
				for _, id := range movieOIDs {
					if m.ID == id {
						res = append(res, m)
						break
					}
				}
			}
			return res, nil
		},
	}
}

func TestMutualRecommendationsOnlyMutualFriendsCount(t *testing.T) {

	mutual := primitive.NewObjectID()
	onlyFollowed := primitive.NewObjectID() // does not follow back
	onlyFollower := primitive.NewObjectID() // not followed back

	movie := Movie{ID: primitive.NewObjectID(), Title: "The Third Man"}
	other := Movie{ID: primitive.NewObjectID(), Title: "Stalker"}

	profiles := []Profile{
		{UserID: mutual, UserName: "kim", FavoriteMovies: []interface{}{movie.ID.Hex()}},
		{UserID: onlyFollowed, UserName: "alex", FavoriteMovies: []interface{}{other.ID.Hex()}},
		{UserID: onlyFollower, UserName: "sam", FavoriteMovies: []interface{}{other.ID.Hex()}},
	}

	m := fakeRecommendationModel(
		[]primitive.ObjectID{mutual, onlyFollowed},
		[]primitive.ObjectID{mutual, onlyFollower},
		profiles,
		[]Movie{movie, other},
	)

	recs, err := m.MutualRecommendations(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)
	require.Len(t, recs, 1)

	assert.Equal(t, movie.ID, recs[0].Movie.ID)
	require.Len(t, recs[0].LikedBy, 1)
	assert.Equal(t, mutual, recs[0].LikedBy[0].UserID)
	assert.Equal(t, "kim", recs[0].LikedBy[0].UserName)
}

func TestMutualRecommendationsSharedFavoriteListsAllSponsors(t *testing.T) {

	friendA := primitive.NewObjectID()
	friendB := primitive.NewObjectID()

	shared := Movie{ID: primitive.NewObjectID(), Title: "Rear Window"}
	solo := Movie{ID: primitive.NewObjectID(), Title: "M"}

	profiles := []Profile{
		{UserID: friendA, UserName: "a", FavoriteMovies: []interface{}{shared.ID.Hex(), solo.ID.Hex()}},
		{UserID: friendB, UserName: "b", FavoriteMovies: []interface{}{shared.ID.Hex()}},
	}

	mutuals := []primitive.ObjectID{friendA, friendB}
	m := fakeRecommendationModel(mutuals, mutuals, profiles, []Movie{shared, solo})

	recs, err := m.MutualRecommendations(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)
	require.Len(t, recs, 2)

	// first-seen order: shared first (friendA listed it first), then solo
	assert.Equal(t, shared.ID, recs[0].Movie.ID)
	assert.Len(t, recs[0].LikedBy, 2)
	assert.Equal(t, solo.ID, recs[1].Movie.ID)
	assert.Len(t, recs[1].LikedBy, 1)
}

func TestMutualRecommendationsNoMutualsIsEmptyNotError(t *testing.T) {

	m := RecommendationModel{
		GetFollowingIDs: func(ctx context.Context, userOID primitive.ObjectID) ([]primitive.ObjectID, error) {
			return []primitive.ObjectID{primitive.NewObjectID()}, nil
		},
		GetFollowerIDs: func(ctx context.Context, userOID primitive.ObjectID) ([]primitive.ObjectID, error) {
			return []primitive.ObjectID{primitive.NewObjectID()}, nil
		},
		GetProfiles: func(ctx context.Context, userOIDs []primitive.ObjectID) ([]Profile, error) {
			t.Fatal("profiles must not be read when there are no mutual friends")
			return nil, nil
		},
		GetMoviesByIDs: func(ctx context.Context, movieOIDs []primitive.ObjectID) ([]Movie, error) {
			t.Fatal("movies must not be read when there are no mutual friends")
			return nil, nil
		},
	}

	recs, err := m.MutualRecommendations(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)
	require.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestMutualRecommendationsSkipsMalformedFavorites(t *testing.T) {

	friend := primitive.NewObjectID()
	movie := Movie{ID: primitive.NewObjectID(), Title: "La Haine"}

	profiles := []Profile{
		{UserID: friend, UserName: "f", FavoriteMovies: []interface{}{
			"not-a-hex-id",
			int32(42),
			nil,
			movie.ID.Hex(),
		}},
	}

	mutuals := []primitive.ObjectID{friend}
	m := fakeRecommendationModel(mutuals, mutuals, profiles, []Movie{movie})

	recs, err := m.MutualRecommendations(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, movie.ID, recs[0].Movie.ID)
}

func TestMutualRecommendationsDeduplicatesSponsors(t *testing.T) {

	friend := primitive.NewObjectID()
	movie := Movie{ID: primitive.NewObjectID(), Title: "Brazil"}

	// the same movie listed twice must yield one sponsor entry
	profiles := []Profile{
		{UserID: friend, UserName: "f", FavoriteMovies: []interface{}{movie.ID.Hex(), movie.ID.Hex()}},
	}

	mutuals := []primitive.ObjectID{friend}
	m := fakeRecommendationModel(mutuals, mutuals, profiles, []Movie{movie})

	recs, err := m.MutualRecommendations(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Len(t, recs[0].LikedBy, 1)
}

func TestMutualRecommendationsSkipsDeletedMovies(t *testing.T) {

	friend := primitive.NewObjectID()
	existing := Movie{ID: primitive.NewObjectID(), Title: "Metropolis"}
	deleted := primitive.NewObjectID() // favorite without metadata

	profiles := []Profile{
		{UserID: friend, UserName: "f", FavoriteMovies: []interface{}{deleted.Hex(), existing.ID.Hex()}},
	}

	mutuals := []primitive.ObjectID{friend}
	m := fakeRecommendationModel(mutuals, mutuals, profiles, []Movie{existing})

	recs, err := m.MutualRecommendations(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, existing.ID, recs[0].Movie.ID)
}

func TestMutualRecommendationsPropagatesStoreErrors(t *testing.T) {

	boom := errors.New("store down")

	m := RecommendationModel{
		GetFollowingIDs: func(ctx context.Context, userOID primitive.ObjectID) ([]primitive.ObjectID, error) {
			return nil, boom
		},
		GetFollowerIDs: func(ctx context.Context, userOID primitive.ObjectID) ([]primitive.ObjectID, error) {
			return []primitive.ObjectID{}, nil
		},
	}

	recs, err := m.MutualRecommendations(context.Background(), primitive.NewObjectID())
	assert.Equal(t, boom, err)
	assert.Nil(t, recs)
}

func TestMutualRecommendationsFailingReadCancelsSibling(t *testing.T) {

	boom := errors.New("store down")
	var siblingErr error

	m := RecommendationModel{
		GetFollowingIDs: func(ctx context.Context, userOID primitive.ObjectID) ([]primitive.ObjectID, error) {
			return nil, boom
		},
		GetFollowerIDs: func(ctx context.Context, userOID primitive.ObjectID) ([]primitive.ObjectID, error) {
			// hangs until the failing read releases it through the shared context
			select {
			case <-ctx.Done():
				siblingErr = ctx.Err()
				return nil, siblingErr
			case <-time.After(2 * time.Second):
				return nil, errors.New("sibling query kept running")
			}
		},
	}

	recs, err := m.MutualRecommendations(context.Background(), primitive.NewObjectID())
	assert.Equal(t, boom, err)
	assert.Nil(t, recs)
	assert.Equal(t, context.Canceled, siblingErr)
}

func TestMutualRecommendationsHonorsCanceledContext(t *testing.T) {

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// honest stores report the canceled context instead of serving
	adjacency := func(ctx context.Context, userOID primitive.ObjectID) ([]primitive.ObjectID, error) {
		return nil, ctx.Err()
	}

	m := RecommendationModel{
		GetFollowingIDs: adjacency,
		GetFollowerIDs:  adjacency,
	}

	recs, err := m.MutualRecommendations(ctx, primitive.NewObjectID())
	assert.Equal(t, context.Canceled, err)
	assert.Nil(t, recs)
}

func TestIntersectKeepsOrderAndDeduplicates(t *testing.T) {

	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	c := primitive.NewObjectID()

	got := intersect(
		[]primitive.ObjectID{a, b, a, c},
		[]primitive.ObjectID{c, a},
	)

	require.Len(t, got, 2)
	assert.Equal(t, a, got[0])
	assert.Equal(t, c, got[1])
}
