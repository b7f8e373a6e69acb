package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFavoriteMovieIDsFiltersMalformedEntries(t *testing.T) {

	valid := primitive.NewObjectID()
	asObject := primitive.NewObjectID()

	p := Profile{
		FavoriteMovies: []interface{}{
			valid.Hex(),           // well-formed hex string
			asObject,              // already an ObjectID
			"junk",                // not a hex id
			int64(7),              // wrong type entirely
			nil,                   // null in the array
			primitive.NilObjectID, // zero id
		},
	}

	ids := p.FavoriteMovieIDs()

	require.Len(t, ids, 2)
	assert.Equal(t, valid, ids[0])
	assert.Equal(t, asObject, ids[1])
}

func TestFavoriteMovieIDsEmptyProfile(t *testing.T) {

	assert.Empty(t, Profile{}.FavoriteMovieIDs())
	assert.Empty(t, Profile{FavoriteMovies: []interface{}{}}.FavoriteMovieIDs())
}
