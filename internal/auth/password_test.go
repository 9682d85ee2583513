package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	hash, err := HashPassword("password123", 10)
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.NoError(t, ComparePassword(hash, "password123"))
	assert.ErrorIs(t, ComparePassword(hash, "password124"), ErrPasswordMismatch)
}

func TestHashRejectsOverlongPassword(t *testing.T) {
	_, err := HashPassword(strings.Repeat("é", 36), 10)
	require.NoError(t, err)

	_, err = HashPassword(strings.Repeat("é", 37), 10)
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}
