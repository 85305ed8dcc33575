package models

import "time"

// Token kinds. A token is only ever accepted by the operation matching its kind.
const (
	TokenKindVerification = "verification"
	TokenKindReset        = "reset"
	TokenKindRestore      = "restore"
)

// ActionToken — single-use, typed, time-boxed token backing the
// email-verification / password-reset / password-restore flows.
// The signed token string doubles as the lookup key.
type ActionToken struct {
	ID        int64     `json:"id"`
	UserID    int       `json:"user_id"`
	Token     string    `json:"token"`
	Kind      string    `json:"kind"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
	CreatedAt time.Time `json:"created_at"`

	// OldPasswordHash is set for "restore" tokens only: the hash that was
	// replaced by the reset, written back by undo-password-change.
	OldPasswordHash *string `json:"-"`
}
