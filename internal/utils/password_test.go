package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	h, err := HashPassword("s3cret!", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", h)

	assert.True(t, VerifyPassword(h, "s3cret!"))
	assert.False(t, VerifyPassword(h, "S3cret!"))
	assert.False(t, VerifyPassword("not-a-bcrypt-hash", "s3cret!"))
}

func TestHashPasswordClampsLowCost(t *testing.T) {
	h, err := HashPassword("s3cret!", 0)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(h))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
