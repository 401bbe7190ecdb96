package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := HashWithCost("secret123", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, "secret123", hash)
	assert.True(t, Verify("secret123", hash))
	assert.False(t, Verify("wrong", hash))
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("123456"))
	assert.False(t, ValidatePassword("12345"))
}
