package session

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDisabled           = errors.New("minister account is disabled")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)

// Session is the server-side row behind a signed token. Deleting the row
// revokes the token regardless of its expiry.
type Session struct {
	ID         uuid.UUID `db:"id" json:"id"`
	MinisterID uuid.UUID `db:"minister_id" json:"minister_id"`
	// Admin records how the session was obtained, not the minister's role: a
	// credential sign-in yields true, an access-code sign-in always false.
	Admin     bool      `db:"admin" json:"admin"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
}

// PasswordReset is a single-use, time-limited token for the credential path.
type PasswordReset struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	MinisterID uuid.UUID  `db:"minister_id" json:"minister_id"`
	Token      string     `db:"token" json:"-"`
	ExpiresAt  time.Time  `db:"expires_at" json:"expires_at"`
	UsedAt     *time.Time `db:"used_at" json:"used_at,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}
