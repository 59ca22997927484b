package patient

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists patients together with their phone rows. Create, Update
// and Delete are transactional: the patient row and its phones change as a
// unit, never leaving a patient without phones or phones without a patient.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Patient, int, error)
}
