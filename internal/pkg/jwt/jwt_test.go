package jwt

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	id := uuid.New()
	token, err := GenerateAccessToken(id, "alice@example.com", "alice", "secret", 24)
	require.NoError(t, err)

	claims, err := ValidateAccessToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(uuid.New(), "a@b.c", "a", "secret", 24)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "other")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	token, err := GenerateAccessToken(uuid.New(), "a@b.c", "a", "secret", -1)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "secret")
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	_, err := ValidateAccessToken("not-a-token", "secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
