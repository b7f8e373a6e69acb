package models

import (
	"context"
	"encoding/json"
	"os"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

const (
	feedDefaultLimit = int64(20)
	// trending is deliberately small so it seasons the feed instead of flooding it
	trendingLimit  = int64(5)
	trendingWindow = 7 * 24 * time.Hour
	trendingTTL    = 2 * time.Minute
)

// FeedModel composes the home feed of a user. It owns no collection; all reads
// go through functions injected from the follow, post and rating models so the
// assembly logic can be tested without a database.
type FeedModel struct {
	// optional trending cache (see CACHE_TRENDING), may be nil
	Cache *redis.Client

	GetFollowingIDs func(ctx context.Context, userOID primitive.ObjectID) ([]primitive.ObjectID, error)
	ListPosts       func(ctx context.Context, query ContentQuery) ([]Post, error)
	ListRatings     func(ctx context.Context, query ContentQuery) ([]Rating, error)
}

// AssembleFeed builds the feed of one user:
// recent posts and ratings of followed users, seasoned with site-wide trending
// content of the last week, merged newest-first and truncated to limit.
//
// A user who follows nobody still gets a feed (trending only). Duplicates
// between the recent and trending partitions are not removed; the variant tag
// tells the client why an entry is there.
func (m FeedModel) AssembleFeed(ctx context.Context, viewerOID primitive.ObjectID, limit int64) ([]Activity, error) {

	if limit <= 0 {
		limit = feedDefaultLimit
	}

	followingIDs, err := m.GetFollowingIDs(ctx, viewerOID)
	if err != nil {
		return nil, err
	}
	// non-nil but possibly empty: empty means "nobody", not "everybody"
	if followingIDs == nil {
		followingIDs = []primitive.ObjectID{}
	}

	var (
		recentPosts     []Post
		recentRatings   []Rating
		trendingPosts   []Post
		trendingRatings []Rating
	)

	// the four partitions are independent reads
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		recentPosts, err = m.ListPosts(gctx, ContentQuery{
			AuthorIDs: followingIDs,
			OrderBy:   OrderByDate,
			Limit:     limit,
		})
		return err
	})

	g.Go(func() error {
		var err error
		recentRatings, err = m.ListRatings(gctx, ContentQuery{
			AuthorIDs: followingIDs,
			OrderBy:   OrderByDate,
			Limit:     limit,
		})
		return err
	})

	g.Go(func() error {
		var err error
		trendingPosts, err = m.trendingPosts(gctx)
		return err
	})

	g.Go(func() error {
		var err error
		trendingRatings, err = m.trendingRatings(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	activities := make([]Activity, 0, len(recentPosts)+len(recentRatings)+len(trendingPosts)+len(trendingRatings))

	for _, post := range recentPosts {
		activities = append(activities, newPostActivity(ActivityRecentPost, post))
	}
	for _, rating := range recentRatings {
		activities = append(activities, newRatingActivity(ActivityRecentRating, rating))
	}
	for _, post := range trendingPosts {
		activities = append(activities, newPostActivity(ActivityTrendingPost, post))
	}
	for _, rating := range trendingRatings {
		activities = append(activities, newRatingActivity(ActivityTrendingRating, rating))
	}

	// stable so equal timestamps keep the partition order above
	sort.SliceStable(activities, func(i, j int) bool {
		return activities[j].Timestamp.Before(activities[i].Timestamp)
	})

	if int64(len(activities)) > limit {
		activities = activities[:limit]
	}

	return activities, nil
}

// trendingPosts reads the site-wide top posts of the last week,
// served from the cache when enabled
func (m FeedModel) trendingPosts(ctx context.Context) ([]Post, error) {

	var posts []Post
	if m.cacheGet(ctx, "trending:posts", &posts) {
		return posts, nil
	}

	posts, err := m.ListPosts(ctx, ContentQuery{
		Since:   time.Now().Add(-trendingWindow),
		OrderBy: OrderByVotes,
		Limit:   trendingLimit,
	})
	if err != nil {
		return nil, err
	}

	m.cacheSet(ctx, "trending:posts", posts)
	return posts, nil
}

func (m FeedModel) trendingRatings(ctx context.Context) ([]Rating, error) {

	var ratings []Rating
	if m.cacheGet(ctx, "trending:ratings", &ratings) {
		return ratings, nil
	}

	ratings, err := m.ListRatings(ctx, ContentQuery{
		Since:   time.Now().Add(-trendingWindow),
		OrderBy: OrderByVotes,
		Limit:   trendingLimit,
	})
	if err != nil {
		return nil, err
	}

	m.cacheSet(ctx, "trending:ratings", ratings)
	return ratings, nil
}

// cache access fails open: a cache problem must never break the feed
func (m FeedModel) cacheGet(ctx context.Context, key string, target interface{}) bool {

	if m.Cache == nil || os.Getenv("CACHE_TRENDING") != "YES" {
		return false
	}

	payload, err := m.Cache.Get(ctx, key).Result()
	if err != nil {
		return false // miss or cache down
	}

	if err := json.Unmarshal([]byte(payload), target); err != nil {
		return false
	}

	return true
}

func (m FeedModel) cacheSet(ctx context.Context, key string, value interface{}) {

	if m.Cache == nil || os.Getenv("CACHE_TRENDING") != "YES" {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return
	}

	// errors ignored, next reader recomputes
	m.Cache.Set(ctx, key, payload, trendingTTL)
}
