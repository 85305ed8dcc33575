package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ghostsapi/internal/models"
)

type ActionTokenRepository interface {
	Create(t *models.ActionToken) error
	// GetValid returns the unused, unexpired record for token+kind, or nil.
	GetValid(token, kind string, now time.Time) (*models.ActionToken, error)
	// ConsumeValid atomically flips used=TRUE on the matching unused,
	// unexpired record and returns it. Returns nil if no such record — the
	// same token presented twice can only win once, even concurrently.
	ConsumeValid(token, kind string, now time.Time) (*models.ActionToken, error)

	WithTx(tx *sql.Tx) ActionTokenRepository
}

type actionTokenRepository struct {
	db DBTX
}

func NewActionTokenRepository(db *sql.DB) ActionTokenRepository {
	return &actionTokenRepository{db: db}
}

func (r *actionTokenRepository) WithTx(tx *sql.Tx) ActionTokenRepository {
	return &actionTokenRepository{db: tx}
}

func (r *actionTokenRepository) Create(t *models.ActionToken) error {
	const q = `
		INSERT INTO action_tokens (user_id, token, kind, expires_at, used, old_password_hash)
		VALUES ($1, $2, $3, $4, FALSE, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(q, t.UserID, t.Token, t.Kind, t.ExpiresAt, t.OldPasswordHash).
		Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("action_token create: %w", err)
	}
	return nil
}

func (r *actionTokenRepository) GetValid(token, kind string, now time.Time) (*models.ActionToken, error) {
	const q = `
		SELECT id, user_id, token, kind, expires_at, used, old_password_hash, created_at
		FROM action_tokens
		WHERE token = $1 AND kind = $2 AND used = FALSE AND expires_at > $3
	`
	return scanActionToken(r.db.QueryRow(q, token, kind, now))
}

func (r *actionTokenRepository) ConsumeValid(token, kind string, now time.Time) (*models.ActionToken, error) {
	const q = `
		UPDATE action_tokens
		SET used = TRUE
		WHERE token = $1 AND kind = $2 AND used = FALSE AND expires_at > $3
		RETURNING id, user_id, token, kind, expires_at, used, old_password_hash, created_at
	`
	return scanActionToken(r.db.QueryRow(q, token, kind, now))
}

func scanActionToken(row *sql.Row) (*models.ActionToken, error) {
	t := &models.ActionToken{}
	var oldHash sql.NullString
	err := row.Scan(&t.ID, &t.UserID, &t.Token, &t.Kind, &t.ExpiresAt, &t.Used, &oldHash, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("action_token scan: %w", err)
	}
	if oldHash.Valid {
		s := oldHash.String
		t.OldPasswordHash = &s
	}
	return t, nil
}
