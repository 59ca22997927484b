package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/visitas/visitas/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

func (r *repoPG) Create(ctx context.Context, s *Session) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO sessions (id, minister_id, admin, expires_at)
		VALUES ($1,$2,$3,$4)`,
		s.ID, s.MinisterID, s.Admin, s.ExpiresAt)
	return err
}

func (r *repoPG) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM sessions WHERE id = $1 AND expires_at > NOW())`, id).Scan(&exists)
	return exists, err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

func (r *repoPG) DeleteByMinister(ctx context.Context, ministerID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM sessions WHERE minister_id = $1`, ministerID)
	return err
}

func (r *repoPG) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type resetRepoPG struct{ pool *pgxpool.Pool }

func NewResetRepoPG(pool *pgxpool.Pool) ResetRepository { return &resetRepoPG{pool: pool} }

func (r *resetRepoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

func (r *resetRepoPG) Create(ctx context.Context, pr *PasswordReset) error {
	pr.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO password_resets (id, minister_id, token, expires_at)
		VALUES ($1,$2,$3,$4)`,
		pr.ID, pr.MinisterID, pr.Token, pr.ExpiresAt)
	return err
}

func (r *resetRepoPG) GetByToken(ctx context.Context, token string) (*PasswordReset, error) {
	var pr PasswordReset
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, minister_id, token, expires_at, used_at, created_at
		FROM password_resets
		WHERE token = $1 AND used_at IS NULL AND expires_at > NOW()`, token).
		Scan(&pr.ID, &pr.MinisterID, &pr.Token, &pr.ExpiresAt, &pr.UsedAt, &pr.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvalidResetToken
	}
	if err != nil {
		return nil, err
	}
	return &pr, nil
}

func (r *resetRepoPG) MarkUsed(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `UPDATE password_resets SET used_at = NOW() WHERE id = $1`, id)
	return err
}
