package minister

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AppointmentCounter reports how many appointments reference a minister as
// primary or secondary. Implemented by the appointment repository.
type AppointmentCounter interface {
	CountByMinister(ctx context.Context, ministerID uuid.UUID) (int, error)
}

type Service struct {
	ministers    Repository
	appointments AppointmentCounter
}

func NewService(ministers Repository, appointments AppointmentCounter) *Service {
	return &Service{ministers: ministers, appointments: appointments}
}

var validRoles = map[string]bool{RoleAdmin: true, RoleUser: true}

func validate(m *Minister) error {
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !validRoles[m.Role] {
		return fmt.Errorf("invalid role: %s", m.Role)
	}
	if !isNumericCode(m.AccessCode) {
		return fmt.Errorf("access_code must be 4 to 10 digits")
	}
	if m.Role == RoleAdmin && (m.Email == nil || *m.Email == "") {
		return fmt.Errorf("email is required for admin ministers")
	}
	return nil
}

func isNumericCode(code string) bool {
	if len(code) < 4 || len(code) > 10 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (s *Service) Create(ctx context.Context, m *Minister) error {
	if err := validate(m); err != nil {
		return err
	}
	if m.Role == RoleAdmin && m.Password == "" {
		return fmt.Errorf("password is required for admin ministers")
	}
	if m.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(m.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		m.PasswordHash = string(hash)
		m.Password = ""
	}
	return s.ministers.Create(ctx, m)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Minister, error) {
	return s.ministers.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*Minister, error) {
	return s.ministers.GetByEmail(ctx, email)
}

func (s *Service) GetByAccessCode(ctx context.Context, code string) (*Minister, error) {
	return s.ministers.GetByAccessCode(ctx, code)
}

// Update replaces the mutable fields. A non-empty Password additionally
// rotates the stored hash.
func (s *Service) Update(ctx context.Context, m *Minister) error {
	if err := validate(m); err != nil {
		return err
	}
	if err := s.ministers.Update(ctx, m); err != nil {
		return err
	}
	if m.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(m.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		m.Password = ""
		return s.ministers.UpdatePassword(ctx, m.ID, string(hash))
	}
	return nil
}

// Delete refuses to remove a minister who is still referenced by any
// appointment. The foreign keys enforce the same rule as a backstop.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.appointments.CountByMinister(ctx, id)
	if err != nil {
		return fmt.Errorf("count appointments: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("%w: %d appointment(s) reference this minister", ErrHasAppointments, n)
	}
	return s.ministers.Delete(ctx, id)
}

func (s *Service) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Minister, int, error) {
	return s.ministers.Search(ctx, params, limit, offset)
}

// CheckPassword verifies a candidate password against the stored hash.
func (m *Minister) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(password)) == nil
}
