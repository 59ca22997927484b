package appointment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	StatusScheduled = "agendado"
	StatusCompleted = "concluido"
	StatusCancelled = "cancelado"
)

var (
	ErrNotFound       = errors.New("appointment not found")
	ErrStateConflict  = errors.New("appointment is no longer scheduled")
	ErrSecondaryTaken = errors.New("appointment already has a secondary minister")
	ErrSamePrimary    = errors.New("primary minister cannot join as secondary")
	ErrPatientBusy    = errors.New("patient already has a scheduled appointment")
)

// Appointment maps to the appointments table. MinisterID is the primary
// minister and is never null; SecondaryMinisterID is set at most once while
// the appointment is still scheduled.
type Appointment struct {
	ID                  uuid.UUID  `db:"id" json:"id"`
	PatientID           uuid.UUID  `db:"patient_id" json:"patient_id"`
	MinisterID          uuid.UUID  `db:"minister_id" json:"minister_id"`
	SecondaryMinisterID *uuid.UUID `db:"secondary_minister_id" json:"secondary_minister_id,omitempty"`
	Date                time.Time  `db:"date" json:"date"`
	Time                *string    `db:"time" json:"time,omitempty"`
	Status              string     `db:"status" json:"status"`
	Notes               *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// Terminal reports whether the appointment has reached a final status.
func (a *Appointment) Terminal() bool {
	return a.Status == StatusCompleted || a.Status == StatusCancelled
}
