package minister

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

var (
	ErrNotFound        = errors.New("minister not found")
	ErrEmailTaken      = errors.New("email already registered to another admin")
	ErrCodeTaken       = errors.New("access code already in use")
	ErrHasAppointments = errors.New("minister is referenced by appointments and cannot be deleted")
)

// Minister maps to the ministers table. Password is write-only input; the
// stored value is always the bcrypt hash.
type Minister struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Email          *string   `db:"email" json:"email,omitempty"`
	Phone          *string   `db:"phone" json:"phone,omitempty"`
	Role           string    `db:"role" json:"role"`
	AccessCode     string    `db:"access_code" json:"access_code"`
	Password       string    `db:"-" json:"password,omitempty"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	Disabled       bool      `db:"disabled" json:"disabled"`
	ExternalAuthID *string   `db:"external_auth_id" json:"external_auth_id,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

func (m *Minister) IsAdmin() bool { return m.Role == RoleAdmin }
