package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	token, err := m.Issue(42)
	require.NoError(t, err)

	userID, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).Issue(1)
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", time.Hour).Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	token, err := m.Issue(1)
	require.NoError(t, err)

	_, err = m.Verify(token + "x")
	assert.Error(t, err)
	_, err = m.Verify("not.a.token")
	assert.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := &TokenManager{secret: []byte("test-secret"), ttl: -time.Minute}
	token, err := m.Issue(1)
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.Error(t, err)
}
