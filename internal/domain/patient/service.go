package patient

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	patients Repository
}

func NewService(patients Repository) *Service {
	return &Service{patients: patients}
}

func validate(p *Patient) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Sector == "" {
		return fmt.Errorf("sector is required")
	}
	if len(p.Phones) == 0 {
		return fmt.Errorf("at least one phone is required")
	}
	for i, ph := range p.Phones {
		if ph.Number == "" {
			return fmt.Errorf("phone %d: number is required", i+1)
		}
	}
	if (p.Latitude == nil) != (p.Longitude == nil) {
		return fmt.Errorf("latitude and longitude must be provided together")
	}
	if p.Latitude != nil {
		if *p.Latitude < -90 || *p.Latitude > 90 {
			return fmt.Errorf("latitude out of range")
		}
		if *p.Longitude < -180 || *p.Longitude > 180 {
			return fmt.Errorf("longitude out of range")
		}
	}
	return nil
}

func (s *Service) Create(ctx context.Context, p *Patient, registeredBy uuid.UUID) error {
	if err := validate(p); err != nil {
		return err
	}
	if registeredBy != uuid.Nil {
		p.RegisteredBy = &registeredBy
	}
	return s.patients.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, p *Patient) error {
	if err := validate(p); err != nil {
		return err
	}
	return s.patients.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.patients.Delete(ctx, id)
}

func (s *Service) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Patient, int, error) {
	return s.patients.Search(ctx, params, limit, offset)
}
