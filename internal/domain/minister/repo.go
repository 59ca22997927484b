package minister

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, m *Minister) error
	GetByID(ctx context.Context, id uuid.UUID) (*Minister, error)
	GetByEmail(ctx context.Context, email string) (*Minister, error)
	GetByAccessCode(ctx context.Context, code string) (*Minister, error)
	Update(ctx context.Context, m *Minister) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Minister, int, error)
}
