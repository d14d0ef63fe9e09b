package auth

import (
	"strings"
	"testing"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	hashCost = bcrypt.MinCost
	m.Run()
}

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)

	assert.NotEqual(t, "password123", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))
	assert.True(t, CheckPassword("password123", hash))
	assert.False(t, CheckPassword("password124", hash))
}

func TestHashPassword_Salted(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, CheckPassword("same", a))
	assert.True(t, CheckPassword("same", b))
}

func TestCheckPassword_GarbageHash(t *testing.T) {
	assert.False(t, CheckPassword("x", "not-a-bcrypt-hash"))
	assert.False(t, CheckPassword("", ""))
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", MaxPasswordBytes+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	assert.ErrorIs(t, err, common.ErrorValidation)

	hash, err := HashPassword(strings.Repeat("a", MaxPasswordBytes))
	require.NoError(t, err)
	assert.True(t, CheckPassword(strings.Repeat("a", MaxPasswordBytes), hash))
}
