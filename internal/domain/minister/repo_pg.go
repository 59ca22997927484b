package minister

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/visitas/visitas/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

const cols = `id, name, email, phone, role, access_code, password_hash,
	disabled, external_auth_id, created_at, updated_at`

func scanMinister(row pgx.Row) (*Minister, error) {
	var m Minister
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Role, &m.AccessCode,
		&m.PasswordHash, &m.Disabled, &m.ExternalAuthID, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &m, err
}

// mapConstraintErr translates unique and foreign key violations into the
// domain sentinels. Constraint names come from the migrations.
func mapConstraintErr(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23505":
		if strings.Contains(pgErr.ConstraintName, "email") {
			return ErrEmailTaken
		}
		if strings.Contains(pgErr.ConstraintName, "access_code") {
			return ErrCodeTaken
		}
	case "23503":
		return ErrHasAppointments
	}
	return err
}

func (r *repoPG) Create(ctx context.Context, m *Minister) error {
	m.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO ministers (id, name, email, phone, role, access_code,
			password_hash, disabled, external_auth_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		m.ID, m.Name, m.Email, m.Phone, m.Role, m.AccessCode,
		m.PasswordHash, m.Disabled, m.ExternalAuthID)
	return mapConstraintErr(err)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Minister, error) {
	return scanMinister(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM ministers WHERE id = $1`, id))
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*Minister, error) {
	return scanMinister(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM ministers WHERE lower(email) = lower($1)`, email))
}

func (r *repoPG) GetByAccessCode(ctx context.Context, code string) (*Minister, error) {
	return scanMinister(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM ministers WHERE access_code = $1`, code))
}

func (r *repoPG) Update(ctx context.Context, m *Minister) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE ministers SET name=$2, email=$3, phone=$4, role=$5, access_code=$6,
			disabled=$7, external_auth_id=$8, updated_at=NOW()
		WHERE id = $1`,
		m.ID, m.Name, m.Email, m.Phone, m.Role, m.AccessCode,
		m.Disabled, m.ExternalAuthID)
	if err != nil {
		return mapConstraintErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE ministers SET password_hash=$2, updated_at=NOW() WHERE id = $1`, id, hash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM ministers WHERE id = $1`, id)
	if err != nil {
		return mapConstraintErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Minister, int, error) {
	query := `SELECT ` + cols + ` FROM ministers WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM ministers WHERE 1=1`
	var args []interface{}
	idx := 1

	if p, ok := params["role"]; ok {
		query += fmt.Sprintf(` AND role = $%d`, idx)
		countQuery += fmt.Sprintf(` AND role = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["disabled"]; ok {
		query += fmt.Sprintf(` AND disabled = $%d`, idx)
		countQuery += fmt.Sprintf(` AND disabled = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["name"]; ok {
		query += fmt.Sprintf(` AND name ILIKE $%d`, idx)
		countQuery += fmt.Sprintf(` AND name ILIKE $%d`, idx)
		args = append(args, "%"+p+"%")
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY name ASC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Minister
	for rows.Next() {
		m, err := scanMinister(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	return items, total, nil
}
