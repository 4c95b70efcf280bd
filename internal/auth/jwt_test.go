package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)

	assert.True(t, CheckPasswordHash("secret", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestTokenManager(t *testing.T) {
	userID := uuid.New()
	m := NewTokenManager("testsecret", 0)

	tokenStr, err := m.Generate(userID, "partner")
	require.NoError(t, err)
	assert.NotEmpty(t, tokenStr)

	t.Run("Success", func(t *testing.T) {
		id, claims, err := m.Parse(tokenStr)
		assert.NoError(t, err)
		assert.Equal(t, userID, id)
		assert.Equal(t, "partner", claims.Role)
	})

	t.Run("InvalidToken", func(t *testing.T) {
		_, _, err := m.Parse("invalid-token-string")
		assert.Error(t, err)
	})

	t.Run("NoSecret", func(t *testing.T) {
		empty := NewTokenManager("", time.Hour)

		_, err := empty.Generate(userID, "admin")
		assert.ErrorIs(t, err, ErrMissingSecret)

		_, _, err = empty.Parse(tokenStr)
		assert.ErrorIs(t, err, ErrMissingSecret)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		other := NewTokenManager("secret2", time.Hour)
		_, _, err := other.Parse(tokenStr)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "signature is invalid")
	})

	t.Run("Expired", func(t *testing.T) {
		short := NewTokenManager("testsecret", time.Nanosecond)
		expired, err := short.Generate(userID, "admin")
		require.NoError(t, err)

		time.Sleep(1100 * time.Millisecond)
		_, _, err = short.Parse(expired)
		assert.Error(t, err)
	})
}
