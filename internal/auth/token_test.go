package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestTokenRoundTrip(t *testing.T) {
	tok, err := SignToken(testSecret, Identity{UserID: 42, Role: RoleAdmin}, time.Hour)
	require.NoError(t, err)

	id, err := VerifyToken(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id.UserID)
	assert.Equal(t, RoleAdmin, id.Role)
}

func TestTokenWrongSecret(t *testing.T) {
	tok, err := SignToken(testSecret, Identity{UserID: 1, Role: RoleCustomer}, time.Hour)
	require.NoError(t, err)

	_, err = VerifyToken([]byte("other-secret"), tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenExpired(t *testing.T) {
	tok, err := SignToken(testSecret, Identity{UserID: 1, Role: RoleCustomer}, -time.Minute)
	require.NoError(t, err)

	_, err = VerifyToken(testSecret, tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenGarbage(t *testing.T) {
	_, err := VerifyToken(testSecret, "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenRoleDefaultsToCustomer(t *testing.T) {
	tok, err := SignToken(testSecret, Identity{UserID: 7}, time.Hour)
	require.NoError(t, err)

	id, err := VerifyToken(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, RoleCustomer, id.Role)
}

func TestPasswordHashAndCheck(t *testing.T) {
	hash, err := HashPassword("hunter22", 4)
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
}
