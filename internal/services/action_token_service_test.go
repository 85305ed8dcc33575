package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghostsapi/internal/models"
)

func newTestTokenService() (ActionTokenService, *fakeActionTokenRepo, SecurityService) {
	repo := newFakeActionTokenRepo()
	security := NewSecurityService("test-secret")
	return NewActionTokenService(repo, security), repo, security
}

func TestActionTokenIssue(t *testing.T) {
	svc, repo, security := newTestTokenService()

	tok, err := svc.Issue(5, models.TokenKindVerification, 30*time.Minute, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, tok.UserID)
	assert.Equal(t, models.TokenKindVerification, tok.Kind)
	assert.False(t, tok.Used)
	assert.True(t, tok.ExpiresAt.After(time.Now()))
	assert.Nil(t, tok.OldPasswordHash)

	// the token string is a signed JWT carrying the kind
	claims, err := security.DecodeToken(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, models.TokenKindVerification, claims.Kind)

	// and it is persisted
	assert.Len(t, repo.byKind(models.TokenKindVerification), 1)
}

func TestActionTokenValidate(t *testing.T) {
	svc, _, _ := newTestTokenService()

	tok, err := svc.Issue(5, models.TokenKindReset, 30*time.Minute, nil)
	require.NoError(t, err)

	got, err := svc.Validate(tok.Token, models.TokenKindReset)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, tok.ID, got.ID)

	// validate is read-only: still valid afterwards
	got, err = svc.Validate(tok.Token, models.TokenKindReset)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestActionTokenValidateWrongKind(t *testing.T) {
	svc, _, _ := newTestTokenService()

	tok, err := svc.Issue(5, models.TokenKindReset, 30*time.Minute, nil)
	require.NoError(t, err)

	got, err := svc.Validate(tok.Token, models.TokenKindVerification)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestActionTokenValidateExpired(t *testing.T) {
	svc, _, _ := newTestTokenService()

	tok, err := svc.Issue(5, models.TokenKindReset, -time.Minute, nil)
	require.NoError(t, err)

	got, err := svc.Validate(tok.Token, models.TokenKindReset)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestActionTokenValidateForgedSignature(t *testing.T) {
	svc, repo, _ := newTestTokenService()

	// a row exists, but its token was signed by someone else
	forged, err := NewSecurityService("other-secret").IssueActionToken(5, models.TokenKindReset, 30*time.Minute)
	require.NoError(t, err)
	require.NoError(t, repo.Create(&models.ActionToken{
		UserID:    5,
		Token:     forged,
		Kind:      models.TokenKindReset,
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}))

	got, err := svc.Validate(forged, models.TokenKindReset)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestActionTokenConsumeIsSingleUse(t *testing.T) {
	svc, _, _ := newTestTokenService()

	tok, err := svc.Issue(5, models.TokenKindVerification, 30*time.Minute, nil)
	require.NoError(t, err)

	first, err := svc.Consume(tok.Token, models.TokenKindVerification)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.True(t, first.Used)

	// second consumption of the same token loses
	second, err := svc.Consume(tok.Token, models.TokenKindVerification)
	require.NoError(t, err)
	assert.Nil(t, second)

	// and validate agrees
	got, err := svc.Validate(tok.Token, models.TokenKindVerification)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestActionTokenRestoreCarriesOldHash(t *testing.T) {
	svc, _, _ := newTestTokenService()

	oldHash := "$2a$10$something"
	tok, err := svc.Issue(5, models.TokenKindRestore, 30*time.Minute, &oldHash)
	require.NoError(t, err)

	got, err := svc.Consume(tok.Token, models.TokenKindRestore)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.OldPasswordHash)
	assert.Equal(t, oldHash, *got.OldPasswordHash)
}
