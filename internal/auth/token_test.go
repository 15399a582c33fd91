package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserTokenRoundTrip(t *testing.T) {
	m := NewManager("secret", time.Hour)

	token, err := m.IssueUser("user-1")
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, RoleUser, claims.Role)
	require.NotNil(t, claims.ExpiresAt)
}

func TestAdminTokenCarriesRole(t *testing.T) {
	m := NewManager("secret", time.Hour)

	token, err := m.IssueAdmin()
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Empty(t, claims.UserID)
	assert.NotNil(t, claims.IssuedAt)
}

func TestRejectsForeignSignature(t *testing.T) {
	token, err := NewManager("one", time.Hour).IssueUser("u")
	require.NoError(t, err)

	_, err = NewManager("two", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewManager("one", time.Hour).Parse("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRejectsExpiredToken(t *testing.T) {
	m := NewManager("secret", time.Minute)
	issued := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return issued }

	token, err := m.IssueUser("u")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestZeroTTLNeverExpires(t *testing.T) {
	m := NewManager("secret", 0)
	token, err := m.IssueUser("u")
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Nil(t, claims.ExpiresAt)
}
