package services

import (
	"database/sql"
	"fmt"
	"time"

	"ghostsapi/internal/models"
	"ghostsapi/internal/repositories"
)

// ActionTokenService issues, validates and consumes the single-use typed
// tokens behind the verification/reset/restore flows. The token string is a
// signed JWT embedding {sub, type, exp}; a row keyed by that string carries
// the used flag that the bearer format alone cannot provide.
type ActionTokenService interface {
	// Issue creates and persists a token of the given kind. oldHash is only
	// meaningful for restore tokens: the password hash the token can bring back.
	Issue(userID int, kind string, ttl time.Duration, oldHash *string) (*models.ActionToken, error)

	// Validate is the read-only check: record exists, unused, unexpired,
	// signature verifies and the signed kind matches. Every failure collapses
	// to (nil, nil) so callers cannot tell why a token was rejected.
	Validate(token, kind string) (*models.ActionToken, error)

	// Consume is the gate: atomically marks the record used and returns it,
	// or nil if it was already used, expired, missing or of the wrong kind.
	Consume(token, kind string) (*models.ActionToken, error)

	WithTx(tx *sql.Tx) ActionTokenService
}

type actionTokenService struct {
	repo     repositories.ActionTokenRepository
	security SecurityService
}

func NewActionTokenService(repo repositories.ActionTokenRepository, security SecurityService) ActionTokenService {
	return &actionTokenService{repo: repo, security: security}
}

func (s *actionTokenService) WithTx(tx *sql.Tx) ActionTokenService {
	return &actionTokenService{repo: s.repo.WithTx(tx), security: s.security}
}

func (s *actionTokenService) Issue(userID int, kind string, ttl time.Duration, oldHash *string) (*models.ActionToken, error) {
	expires := time.Now().Add(ttl)
	token, err := s.security.IssueActionToken(userID, kind, ttl)
	if err != nil {
		return nil, fmt.Errorf("sign %s token: %w", kind, err)
	}
	t := &models.ActionToken{
		UserID:          userID,
		Token:           token,
		Kind:            kind,
		ExpiresAt:       expires,
		OldPasswordHash: oldHash,
	}
	if err := s.repo.Create(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *actionTokenService) Validate(token, kind string) (*models.ActionToken, error) {
	if !s.kindMatches(token, kind) {
		return nil, nil
	}
	return s.repo.GetValid(token, kind, time.Now())
}

func (s *actionTokenService) Consume(token, kind string) (*models.ActionToken, error) {
	if !s.kindMatches(token, kind) {
		return nil, nil
	}
	return s.repo.ConsumeValid(token, kind, time.Now())
}

// kindMatches checks signature and the signed kind claim. A forged or
// re-kinded token never reaches the database.
func (s *actionTokenService) kindMatches(token, kind string) bool {
	claims, err := s.security.DecodeToken(token)
	if err != nil {
		return false
	}
	return claims.Kind == kind
}
