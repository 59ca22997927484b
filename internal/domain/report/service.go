package report

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/visitas/visitas/internal/domain/appointment"
	"github.com/visitas/visitas/internal/domain/minister"
	"github.com/visitas/visitas/internal/domain/patient"
)

// Row is one line of the coordinators' visit report.
type Row struct {
	AppointmentID     uuid.UUID `json:"appointment_id"`
	PatientName       string    `json:"patient_name"`
	Sector            string    `json:"sector"`
	MinisterName      string    `json:"minister_name"`
	SecondaryMinister string    `json:"secondary_minister,omitempty"`
	Date              string    `json:"date"`
	Time              string    `json:"time,omitempty"`
	Status            string    `json:"status"`
}

// Filter narrows the report. Status, minister and the date range are pushed
// down to the appointment query; sector is applied after the patient join.
type Filter struct {
	Status   string
	Minister string
	Sector   string
	From     string
	To       string
}

type AppointmentSource interface {
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*appointment.Appointment, int, error)
}

type PatientSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
}

type MinisterSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*minister.Minister, error)
}

// Service assembles report rows from independent per-entity fetches joined
// in memory by id, rather than a SQL join across domains.
type Service struct {
	appointments AppointmentSource
	patients     PatientSource
	ministers    MinisterSource
}

func NewService(appointments AppointmentSource, patients PatientSource, ministers MinisterSource) *Service {
	return &Service{appointments: appointments, patients: patients, ministers: ministers}
}

const maxReportRows = 1000

func (s *Service) Appointments(ctx context.Context, f Filter) ([]Row, error) {
	params := map[string]string{}
	if f.Status != "" {
		params["status"] = f.Status
	}
	if f.Minister != "" {
		params["minister"] = f.Minister
	}
	if f.From != "" {
		params["from"] = f.From
	}
	if f.To != "" {
		params["to"] = f.To
	}

	appts, _, err := s.appointments.Search(ctx, params, maxReportRows, 0)
	if err != nil {
		return nil, fmt.Errorf("fetch appointments: %w", err)
	}

	patientsByID := map[uuid.UUID]*patient.Patient{}
	ministersByID := map[uuid.UUID]*minister.Minister{}
	for _, a := range appts {
		if _, ok := patientsByID[a.PatientID]; !ok {
			p, err := s.patients.GetByID(ctx, a.PatientID)
			if err != nil {
				return nil, fmt.Errorf("fetch patient %s: %w", a.PatientID, err)
			}
			patientsByID[a.PatientID] = p
		}
		for _, id := range ministerIDs(a) {
			if _, ok := ministersByID[id]; !ok {
				m, err := s.ministers.GetByID(ctx, id)
				if err != nil {
					return nil, fmt.Errorf("fetch minister %s: %w", id, err)
				}
				ministersByID[id] = m
			}
		}
	}

	rows := make([]Row, 0, len(appts))
	for _, a := range appts {
		p := patientsByID[a.PatientID]
		if f.Sector != "" && p.Sector != f.Sector {
			continue
		}
		row := Row{
			AppointmentID: a.ID,
			PatientName:   p.Name,
			Sector:        p.Sector,
			MinisterName:  ministersByID[a.MinisterID].Name,
			Date:          a.Date.Format("2006-01-02"),
			Status:        a.Status,
		}
		if a.Time != nil {
			row.Time = *a.Time
		}
		if a.SecondaryMinisterID != nil {
			row.SecondaryMinister = ministersByID[*a.SecondaryMinisterID].Name
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func ministerIDs(a *appointment.Appointment) []uuid.UUID {
	ids := []uuid.UUID{a.MinisterID}
	if a.SecondaryMinisterID != nil {
		ids = append(ids, *a.SecondaryMinisterID)
	}
	return ids
}
