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

// Comment is the "interface" used for client communication.
// Comments are kept flat (no nesting); the creation timestamp lives in the ObjectID.
type Comment struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	PostID      primitive.ObjectID `json:"postID" bson:"postID" binding:"required"`
	CreatedTS   time.Time          `json:"createdTS" bson:"-"`
	CreatedID   primitive.ObjectID `json:"createdID" bson:"createdID"`
	CreatedName string             `json:"createdName" bson:"createdName"`
	Comment     string             `json:"comment" bson:"comment" binding:"required"`
}

// CommentModel provides the logics to the data type
type CommentModel struct {
	Collection *mongo.Collection
	// injected from the user and post models
	GetUserName      func(ctx context.Context, userOID primitive.ObjectID) (string, error)
	BumpCommentCount func(ctx context.Context, postOID primitive.ObjectID, delta int32) error
}

// Validate checks given values (immutable)
func (m CommentModel) Validate(comment Comment) (*Comment, error) {

	cleaned := comment

	cleaned.Comment = strings.TrimSpace(cleaned.Comment)
	if cleaned.Comment == "" {
		return nil, ErrCommentEmpty
	}

	return &cleaned, nil
}

// CreateComment adds a comment to a post and bumps the post's counter
func (m CommentModel) CreateComment(ctx context.Context, comment *Comment) (string, error) {

	userName, err := m.GetUserName(ctx, comment.CreatedID)
	if err != nil {
		return "", err
	}

	comment.ID = primitive.NewObjectID()
	comment.CreatedName = userName

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := m.Collection.InsertOne(cctx, comment)
	if err != nil {
		return "", helpers.WrapError(err, helpers.FuncName())
	}

	// counter maintained on the post document so feed reads never aggregate
	err = m.BumpCommentCount(ctx, comment.PostID, 1)
	if err != nil {
		return "", err
	}

	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

// ListComments returns the most recent comments of one post (bounded)
func (m CommentModel) ListComments(ctx context.Context, postID string) ([]Comment, error) {

	id, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, apperror.ErrNoData
	}

	filter := bson.D{{Key: "postID", Value: id}}
	// _id carries the insert time, saves an index
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}).SetLimit(defaultContentLimit)

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := m.Collection.Find(cctx, filter, opts)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var comments []Comment
	err = cursor.All(cctx, &comments)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	// check for empty result set (no error raised by find)
	if comments == nil {
		return nil, apperror.ErrNoData
	}

	for i := range comments {
		comments[i].CreatedTS = comments[i].ID.Timestamp()
	}

	return comments, nil
}
