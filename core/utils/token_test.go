package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateSessionToken(userID, "person@example.com", "test-secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseSessionToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "person@example.com", claims.Email)
}

func TestParseSessionTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateSessionToken(uuid.New(), "person@example.com", "test-secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseSessionToken(token, "other-secret")
	assert.Error(t, err)
}

func TestParseSessionTokenRejectsExpired(t *testing.T) {
	token, err := GenerateSessionToken(uuid.New(), "person@example.com", "test-secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseSessionToken(token, "test-secret")
	assert.Error(t, err)
}

func TestGenerateInviteToken(t *testing.T) {
	a := GenerateInviteToken()
	b := GenerateInviteToken()

	assert.NotEmpty(t, a)
	assert.Len(t, a, 21)
	assert.NotEqual(t, a, b)
}
