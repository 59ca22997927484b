package appointment

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists appointments. SetSecondary and UpdateStatus are
// conditional single-statement writes: they only take effect while the row
// still satisfies the stated precondition, so concurrent callers race safely
// and exactly one wins.
type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
	// SetSecondary assigns ministerID as secondary iff the appointment is
	// still scheduled, has no secondary yet and ministerID is not the primary.
	SetSecondary(ctx context.Context, id, ministerID uuid.UUID) error
	// UpdateStatus moves the appointment from one status to another iff it is
	// currently in the from status.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) error
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error)
	CountByMinister(ctx context.Context, ministerID uuid.UUID) (int, error)
}
