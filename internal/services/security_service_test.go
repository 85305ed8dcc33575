package services

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	s := NewSecurityService("test-secret")

	hash, err := s.HashPassword("Password1")
	require.NoError(t, err)
	assert.NotEqual(t, "Password1", hash)

	assert.True(t, s.CheckPassword("Password1", hash))
	assert.False(t, s.CheckPassword("Password2", hash))
	assert.False(t, s.CheckPassword("", hash))
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	s := NewSecurityService("test-secret")
	// structurally invalid hash must yield false, not panic or error out
	assert.False(t, s.CheckPassword("Password1", "not-a-bcrypt-hash"))
	assert.False(t, s.CheckPassword("Password1", ""))
}

func TestAccessTokenRoundTrip(t *testing.T) {
	s := NewSecurityService("test-secret")

	token, err := s.IssueAccessToken(42, "customer", time.Hour)
	require.NoError(t, err)

	claims, err := s.DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "customer", claims.Role)
	assert.Empty(t, claims.Kind)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, 42, id)
}

func TestAccessTokenExpired(t *testing.T) {
	s := NewSecurityService("test-secret")

	token, err := s.IssueAccessToken(42, "customer", -time.Minute)
	require.NoError(t, err)

	_, err = s.DecodeToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestDecodeTokenInvalid(t *testing.T) {
	s := NewSecurityService("test-secret")
	other := NewSecurityService("other-secret")

	good, err := s.IssueAccessToken(7, "admin", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.jwt"},
		{"empty", ""},
		{"tampered", good + "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.DecodeToken(tt.token)
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}

	// signed with a different secret
	foreign, err := other.IssueAccessToken(7, "admin", time.Hour)
	require.NoError(t, err)
	_, err = s.DecodeToken(foreign)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestActionTokenCarriesKind(t *testing.T) {
	s := NewSecurityService("test-secret")

	token, err := s.IssueActionToken(13, "reset", 30*time.Minute)
	require.NoError(t, err)

	claims, err := s.DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(13), claims.Subject)
	assert.Equal(t, "reset", claims.Kind)
	assert.Empty(t, claims.Role)
}
