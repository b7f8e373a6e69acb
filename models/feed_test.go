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

// fixed base time so ordering assertions are deterministic
var feedNow = time.Date(2021, 5, 1, 12, 0, 0, 0, time.UTC)

func testPost(author primitive.ObjectID, age time.Duration, votes int32) Post {
	return Post{
		ID:        primitive.NewObjectID(),
		AuthorID:  author,
		CreatedTS: feedNow.Add(-age),
		Content:   "some content",
		VoteCount: votes,
	}
}

func testRating(author primitive.ObjectID, age time.Duration, votes int32) Rating {
	return Rating{
		ID:        primitive.NewObjectID(),
		AuthorID:  author,
		MovieID:   primitive.NewObjectID(),
		Stars:     4,
		Date:      feedNow.Add(-age),
		VoteCount: votes,
	}
}

// fake stores route the recent and trending partitions by the query's OrderBy
func fakeFeedModel(following []primitive.ObjectID,
	recentPosts, trendingPosts []Post,
	recentRatings, trendingRatings []Rating) FeedModel {

	return FeedModel{
		GetFollowingIDs: func(ctx context.Context, userOID primitive.ObjectID) ([]primitive.ObjectID, error) {
			return following, nil
		},
		ListPosts: func(ctx context.Context, query ContentQuery) ([]Post, error) {
			if query.OrderBy == OrderByVotes {
				return trendingPosts, nil
			}
			return recentPosts, nil
		},
		ListRatings: func(ctx context.Context, query ContentQuery) ([]Rating, error) {
			if query.OrderBy == OrderByVotes {
				return trendingRatings, nil
			}
			return recentRatings, nil
		},
	}
}

func TestAssembleFeedMergesNewestFirst(t *testing.T) {

	friend := primitive.NewObjectID()

	m := fakeFeedModel(
		[]primitive.ObjectID{friend},
		[]Post{testPost(friend, 3*time.Hour, 0)},
		[]Post{testPost(primitive.NewObjectID(), 30*time.Hour, 50)},
		[]Rating{testRating(friend, 1*time.Hour, 0)},
		[]Rating{testRating(primitive.NewObjectID(), 10*time.Hour, 40)},
	)

	feed, err := m.AssembleFeed(context.Background(), primitive.NewObjectID(), 20)
	require.NoError(t, err)
	require.Len(t, feed, 4)

	// newest first, regardless of partition
	for i := 1; i < len(feed); i++ {
		assert.False(t, feed[i-1].Timestamp.Before(feed[i].Timestamp),
			"feed must be sorted newest-first")
	}

	assert.Equal(t, ActivityRecentRating, feed[0].Variant)
	assert.Equal(t, ActivityRecentPost, feed[1].Variant)
	assert.Equal(t, ActivityTrendingRating, feed[2].Variant)
	assert.Equal(t, ActivityTrendingPost, feed[3].Variant)

	// exactly one payload per entry
	for _, a := range feed {
		if a.Post != nil {
			assert.Nil(t, a.Rating)
		} else {
			assert.NotNil(t, a.Rating)
		}
	}
}

func TestAssembleFeedTruncatesToLimit(t *testing.T) {

	friend := primitive.NewObjectID()

	var posts []Post
	for i := 0; i < 10; i++ {
		posts = append(posts, testPost(friend, time.Duration(i)*time.Hour, 0))
	}

	m := fakeFeedModel([]primitive.ObjectID{friend}, posts, nil, nil, nil)

	feed, err := m.AssembleFeed(context.Background(), primitive.NewObjectID(), 3)
	require.NoError(t, err)
	assert.Len(t, feed, 3)

	// truncation keeps the newest entries
	assert.Equal(t, posts[0].ID, feed[0].Post.ID)
	assert.Equal(t, posts[2].ID, feed[2].Post.ID)
}

func TestAssembleFeedEmptyFollowingStillServesTrending(t *testing.T) {

	var recentQueries []ContentQuery

	m := FeedModel{
		GetFollowingIDs: func(ctx context.Context, userOID primitive.ObjectID) ([]primitive.ObjectID, error) {
			return []primitive.ObjectID{}, nil
		},
		ListPosts: func(ctx context.Context, query ContentQuery) ([]Post, error) {
			if query.OrderBy == OrderByVotes {
				return []Post{testPost(primitive.NewObjectID(), time.Hour, 99)}, nil
			}
			recentQueries = append(recentQueries, query)
			return []Post{}, nil
		},
		ListRatings: func(ctx context.Context, query ContentQuery) ([]Rating, error) {
			return []Rating{}, nil
		},
	}

	feed, err := m.AssembleFeed(context.Background(), primitive.NewObjectID(), 20)
	require.NoError(t, err)

	// empty following means "nobody", not "everybody"
	for _, q := range recentQueries {
		require.NotNil(t, q.AuthorIDs)
		assert.Empty(t, q.AuthorIDs)
	}

	require.Len(t, feed, 1)
	assert.Equal(t, ActivityTrendingPost, feed[0].Variant)
}

func TestAssembleFeedKeepsDuplicatesAcrossPartitions(t *testing.T) {

	friend := primitive.NewObjectID()
	hot := testPost(friend, time.Hour, 77)

	// the same post is both recent (followed author) and trending
	m := fakeFeedModel([]primitive.ObjectID{friend}, []Post{hot}, []Post{hot}, nil, nil)

	feed, err := m.AssembleFeed(context.Background(), primitive.NewObjectID(), 20)
	require.NoError(t, err)
	require.Len(t, feed, 2)

	assert.Equal(t, hot.ID, feed[0].Post.ID)
	assert.Equal(t, hot.ID, feed[1].Post.ID)
	assert.NotEqual(t, feed[0].Variant, feed[1].Variant)
}

func TestAssembleFeedPropagatesStoreErrors(t *testing.T) {

	boom := errors.New("store down")

	m := FeedModel{
		GetFollowingIDs: func(ctx context.Context, userOID primitive.ObjectID) ([]primitive.ObjectID, error) {
			return []primitive.ObjectID{}, nil
		},
		ListPosts: func(ctx context.Context, query ContentQuery) ([]Post, error) {
			return nil, boom
		},
		ListRatings: func(ctx context.Context, query ContentQuery) ([]Rating, error) {
			return []Rating{}, nil
		},
	}

	feed, err := m.AssembleFeed(context.Background(), primitive.NewObjectID(), 20)
	assert.Equal(t, boom, err)
	assert.Nil(t, feed)
}

func TestAssembleFeedIsDeterministic(t *testing.T) {

	friend := primitive.NewObjectID()

	m := fakeFeedModel(
		[]primitive.ObjectID{friend},
		[]Post{testPost(friend, 2*time.Hour, 0), testPost(friend, 4*time.Hour, 0)},
		[]Post{testPost(primitive.NewObjectID(), 20*time.Hour, 9)},
		[]Rating{testRating(friend, 3*time.Hour, 0)},
		nil,
	)

	viewer := primitive.NewObjectID()

	first, err := m.AssembleFeed(context.Background(), viewer, 10)
	require.NoError(t, err)

	second, err := m.AssembleFeed(context.Background(), viewer, 10)
	require.NoError(t, err)

	// same inputs, same feed
	assert.Equal(t, first, second)
}

func TestAssembleFeedFailingPartitionCancelsSiblings(t *testing.T) {

	boom := errors.New("store down")
	var siblingErr error

	m := FeedModel{
		GetFollowingIDs: func(ctx context.Context, userOID primitive.ObjectID) ([]primitive.ObjectID, error) {
			return []primitive.ObjectID{}, nil
		},
		ListPosts: func(ctx context.Context, query ContentQuery) ([]Post, error) {
			return nil, boom
		},
		ListRatings: func(ctx context.Context, query ContentQuery) ([]Rating, error) {
			if query.OrderBy == OrderByVotes {
				return []Rating{}, nil
			}
			// the recent-ratings read hangs until the failing partition
			// releases it through the shared context
			select {
			case <-ctx.Done():
				siblingErr = ctx.Err()
				return nil, siblingErr
			case <-time.After(2 * time.Second):
				return nil, errors.New("sibling query kept running")
			}
		},
	}

	feed, err := m.AssembleFeed(context.Background(), primitive.NewObjectID(), 20)
	assert.Equal(t, boom, err)
	assert.Nil(t, feed)
	assert.Equal(t, context.Canceled, siblingErr)
}

func TestAssembleFeedHonorsCanceledContext(t *testing.T) {

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// honest stores report the canceled context instead of serving
	m := FeedModel{
		GetFollowingIDs: func(ctx context.Context, userOID primitive.ObjectID) ([]primitive.ObjectID, error) {
			return []primitive.ObjectID{primitive.NewObjectID()}, nil
		},
		ListPosts: func(ctx context.Context, query ContentQuery) ([]Post, error) {
			return nil, ctx.Err()
		},
		ListRatings: func(ctx context.Context, query ContentQuery) ([]Rating, error) {
			return nil, ctx.Err()
		},
	}

	feed, err := m.AssembleFeed(ctx, primitive.NewObjectID(), 20)
	assert.Equal(t, context.Canceled, err)
	assert.Nil(t, feed)
}

func TestAssembleFeedDefaultsLimit(t *testing.T) {

	friend := primitive.NewObjectID()

	var posts []Post
	for i := 0; i < 30; i++ {
		posts = append(posts, testPost(friend, time.Duration(i)*time.Minute, 0))
	}

	m := fakeFeedModel([]primitive.ObjectID{friend}, posts, nil, nil, nil)

	feed, err := m.AssembleFeed(context.Background(), primitive.NewObjectID(), 0)
	require.NoError(t, err)
	assert.Len(t, feed, int(feedDefaultLimit))
}
