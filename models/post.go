package models

import (
	"context"
	"strings"
	"time"

	"cine-circle/apperror"
	"cine-circle/helpers"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Post is the "interface" used for client communication.
// VoteCount, LikeCount and CommentCount are denormalized counters maintained by
// the vote, like and comment models; reads never aggregate.
type Post struct {
	ID           primitive.ObjectID `json:"id" bson:"_id"`
	AuthorID     primitive.ObjectID `json:"authorID" bson:"authorID"`
	AuthorName   string             `json:"authorName" bson:"authorName"`
	CreatedTS    time.Time          `json:"createdTS" bson:"createdTS"`
	Content      string             `json:"content" bson:"content"`
	VoteCount    int32              `json:"voteCount" bson:"voteCount"`
	LikeCount    int32              `json:"likeCount" bson:"likeCount"`
	CommentCount int32              `json:"commentCount" bson:"commentCount"`
}

// PostModel provides the logic to the interface and access to the database
type PostModel struct {
	Collection *mongo.Collection
	// injected from the user model
	GetUserName func(ctx context.Context, userOID primitive.ObjectID) (string, error)
}

// Validate checks given values and sets defaults where applicable (immutable)
func (m PostModel) Validate(post Post) (*Post, error) {

	cleaned := post

	cleaned.Content = strings.TrimSpace(cleaned.Content)
	if cleaned.Content == "" {
		return nil, ErrPostEmpty
	}

	return &cleaned, nil
}

// CreatePost adds a new post - validated by controller
func (m PostModel) CreatePost(ctx context.Context, post *Post) (string, error) {

	userName, err := m.GetUserName(ctx, post.AuthorID)
	if err != nil {
		return "", err
	}

	// set "system-fields"
	post.ID = primitive.NewObjectID()
	post.AuthorName = userName
	post.CreatedTS = time.Now()
	post.VoteCount = 0
	post.LikeCount = 0
	post.CommentCount = 0

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := m.Collection.InsertOne(cctx, post)
	if err != nil {
		return "", helpers.WrapError(err, helpers.FuncName())
	}

	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

// GetPost returns one post
func (m PostModel) GetPost(ctx context.Context, postID string) (*Post, error) {

	id, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, apperror.ErrNoData
	}

	var data Post

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = m.Collection.FindOne(cctx, bson.M{"_id": id}).Decode(&data)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperror.ErrNoData
		}
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	return &data, nil
}

// ListPosts runs one bounded content query (see ContentQuery).
// An empty result is a regular outcome for the feed, so no ErrNoData is raised.
func (m PostModel) ListPosts(ctx context.Context, query ContentQuery) ([]Post, error) {

	filter := bson.D{}
	if query.AuthorIDs != nil {
		filter = append(filter, bson.E{Key: "authorID", Value: bson.D{{Key: "$in", Value: query.AuthorIDs}}})
	}
	if !query.Since.IsZero() {
		filter = append(filter, bson.E{Key: "createdTS", Value: bson.D{{Key: "$gte", Value: query.Since}}})
	}

	sort := bson.D{{Key: "createdTS", Value: -1}}
	if query.OrderBy == OrderByVotes {
		sort = bson.D{{Key: "voteCount", Value: -1}}
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultContentLimit
	}

	opts := options.Find().SetSort(sort).SetLimit(limit)

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := m.Collection.Find(cctx, filter, opts)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var posts []Post
	err = cursor.All(cctx, &posts)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	if posts == nil {
		posts = []Post{}
	}

	return posts, nil
}

// SetVotes is called by the voting model to persist recalculated counters
func (m PostModel) SetVotes(ctx context.Context, engagement *Engagement) error {

	fields := bson.D{
		{Key: "$set", Value: bson.D{{Key: "voteCount", Value: engagement.VoteCount}}},
	}

	filter := bson.D{{Key: "_id", Value: engagement.ProfileOID}}

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := m.Collection.UpdateOne(cctx, filter, fields)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	if result.MatchedCount == 0 {
		return apperror.ErrNoData // document might have been deleted
	}

	return nil
}

// SetLikeCount is called by the like model
func (m PostModel) SetLikeCount(ctx context.Context, postOID primitive.ObjectID, count int32) error {

	filter := bson.D{{Key: "_id", Value: postOID}}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "likeCount", Value: count}}}}

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := m.Collection.UpdateOne(cctx, filter, update)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	if result.MatchedCount == 0 {
		return apperror.ErrNoData
	}

	return nil
}

// BumpCommentCount is called by the comment model after a successful insert
func (m PostModel) BumpCommentCount(ctx context.Context, postOID primitive.ObjectID, delta int32) error {

	filter := bson.D{{Key: "_id", Value: postOID}}
	update := bson.D{{Key: "$inc", Value: bson.D{{Key: "commentCount", Value: delta}}}}

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := m.Collection.UpdateOne(cctx, filter, update)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	if result.MatchedCount == 0 {
		return apperror.ErrNoData
	}

	return nil
}
