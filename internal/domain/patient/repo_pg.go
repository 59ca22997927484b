package patient

import (
	"context"
	"errors"
	"fmt"

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

const cols = `id, name, address, sector, notes, latitude, longitude,
	registered_by, created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.Name, &p.Address, &p.Sector, &p.Notes,
		&p.Latitude, &p.Longitude, &p.RegisteredBy, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	return db.WithTx(ctx, r.pool, func(ctx context.Context) error {
		_, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO patients (id, name, address, sector, notes, latitude, longitude, registered_by)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			p.ID, p.Name, p.Address, p.Sector, p.Notes, p.Latitude, p.Longitude, p.RegisteredBy)
		if err != nil {
			return err
		}
		return r.insertPhones(ctx, p)
	})
}

func (r *repoPG) insertPhones(ctx context.Context, p *Patient) error {
	for i := range p.Phones {
		p.Phones[i].ID = uuid.New()
		p.Phones[i].PatientID = p.ID
		_, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO patient_phones (id, patient_id, number, label)
			VALUES ($1,$2,$3,$4)`,
			p.Phones[i].ID, p.Phones[i].PatientID, p.Phones[i].Number, p.Phones[i].Label)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repoPG) loadPhones(ctx context.Context, p *Patient) error {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, patient_id, number, label
		FROM patient_phones WHERE patient_id = $1 ORDER BY number`, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var ph Phone
		if err := rows.Scan(&ph.ID, &ph.PatientID, &ph.Number, &ph.Label); err != nil {
			return err
		}
		p.Phones = append(p.Phones, ph)
	}
	return rows.Err()
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM patients WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadPhones(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the patient row and its phone set in one transaction.
func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	return db.WithTx(ctx, r.pool, func(ctx context.Context) error {
		tag, err := r.conn(ctx).Exec(ctx, `
			UPDATE patients SET name=$2, address=$3, sector=$4, notes=$5,
				latitude=$6, longitude=$7, updated_at=NOW()
			WHERE id = $1`,
			p.ID, p.Name, p.Address, p.Sector, p.Notes, p.Latitude, p.Longitude)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		if _, err := r.conn(ctx).Exec(ctx, `DELETE FROM patient_phones WHERE patient_id = $1`, p.ID); err != nil {
			return err
		}
		return r.insertPhones(ctx, p)
	})
}

// Delete removes the patient and its phones together. Appointments keep a
// RESTRICT foreign key, so a referenced patient cannot be deleted.
func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	return db.WithTx(ctx, r.pool, func(ctx context.Context) error {
		if _, err := r.conn(ctx).Exec(ctx, `DELETE FROM patient_phones WHERE patient_id = $1`, id); err != nil {
			return err
		}
		tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return ErrHasAppointments
			}
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *repoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Patient, int, error) {
	query := `SELECT ` + cols + ` FROM patients WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM patients WHERE 1=1`
	var args []interface{}
	idx := 1

	if p, ok := params["sector"]; ok {
		query += fmt.Sprintf(` AND sector = $%d`, idx)
		countQuery += fmt.Sprintf(` AND sector = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["name"]; ok {
		query += fmt.Sprintf(` AND name ILIKE $%d`, idx)
		countQuery += fmt.Sprintf(` AND name ILIKE $%d`, idx)
		args = append(args, "%"+p+"%")
		idx++
	}
	if p, ok := params["registered_by"]; ok {
		query += fmt.Sprintf(` AND registered_by = $%d`, idx)
		countQuery += fmt.Sprintf(` AND registered_by = $%d`, idx)
		args = append(args, p)
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
	var items []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	for _, p := range items {
		if err := r.loadPhones(ctx, p); err != nil {
			return nil, 0, err
		}
	}
	return items, total, nil
}
