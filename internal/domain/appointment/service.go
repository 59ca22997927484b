package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	appointments Repository
}

func NewService(appointments Repository) *Service {
	return &Service{appointments: appointments}
}

func (s *Service) Create(ctx context.Context, a *Appointment) error {
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if a.MinisterID == uuid.Nil {
		return fmt.Errorf("minister_id is required")
	}
	if a.SecondaryMinisterID != nil && *a.SecondaryMinisterID == a.MinisterID {
		return ErrSamePrimary
	}
	if a.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	a.Status = StatusScheduled
	// The one-scheduled-per-patient rule is enforced by a partial unique
	// index; a pre-check here would still race.
	return s.appointments.Create(ctx, a)
}

// QuickAssign creates a scheduled appointment for the acting minister dated
// today with no time slot.
func (s *Service) QuickAssign(ctx context.Context, patientID, ministerID uuid.UUID, notes *string) (*Appointment, error) {
	a := &Appointment{
		PatientID:  patientID,
		MinisterID: ministerID,
		Date:       time.Now().Truncate(24 * time.Hour),
		Notes:      notes,
	}
	if err := s.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.appointments.GetByID(ctx, id)
}

// Update edits date, time and notes. Status changes go through Complete,
// Cancel and Join only.
func (s *Service) Update(ctx context.Context, a *Appointment) error {
	if a.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	return s.appointments.Update(ctx, a)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.appointments.Delete(ctx, id)
}

// Join assigns the acting minister as the secondary visitor.
func (s *Service) Join(ctx context.Context, id, ministerID uuid.UUID) (*Appointment, error) {
	if err := s.appointments.SetSecondary(ctx, id, ministerID); err != nil {
		return nil, err
	}
	return s.appointments.GetByID(ctx, id)
}

func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	if err := s.appointments.UpdateStatus(ctx, id, StatusScheduled, StatusCompleted); err != nil {
		return nil, err
	}
	return s.appointments.GetByID(ctx, id)
}

func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	if err := s.appointments.UpdateStatus(ctx, id, StatusScheduled, StatusCancelled); err != nil {
		return nil, err
	}
	return s.appointments.GetByID(ctx, id)
}

func (s *Service) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.Search(ctx, params, limit, offset)
}
