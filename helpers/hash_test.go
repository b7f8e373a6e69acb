package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndCompareHash(t *testing.T) {

	hash, err := GenerateHash("s3cret-Pa55word")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "s3cret-Pa55word", hash)

	match, err := CompareHash(hash, "s3cret-Pa55word")
	require.NoError(t, err)
	assert.True(t, match)

	// a mismatch reports both false and the bcrypt error
	match, err = CompareHash(hash, "wrong-password")
	assert.Error(t, err)
	assert.False(t, match)
}
