package patient

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("patient not found")
	ErrHasAppointments = errors.New("patient is referenced by appointments and cannot be deleted")
)

// Patient maps to the patients table with its dependent phone rows embedded.
type Patient struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	Address      *string    `db:"address" json:"address,omitempty"`
	Sector       string     `db:"sector" json:"sector"`
	Phones       []Phone    `db:"-" json:"phones"`
	Notes        *string    `db:"notes" json:"notes,omitempty"`
	Latitude     *float64   `db:"latitude" json:"latitude,omitempty"`
	Longitude    *float64   `db:"longitude" json:"longitude,omitempty"`
	RegisteredBy *uuid.UUID `db:"registered_by" json:"registered_by,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

type Phone struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	Number    string    `db:"number" json:"number"`
	Label     *string   `db:"label" json:"label,omitempty"`
}
