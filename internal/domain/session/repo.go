package session

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, s *Session) error
	// Exists reports whether the session row is present and unexpired.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByMinister(ctx context.Context, ministerID uuid.UUID) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type ResetRepository interface {
	Create(ctx context.Context, r *PasswordReset) error
	// GetByToken returns the reset row only while it is unused and unexpired.
	GetByToken(ctx context.Context, token string) (*PasswordReset, error)
	MarkUsed(ctx context.Context, id uuid.UUID) error
}
