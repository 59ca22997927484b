package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

// -- Mock Repository --

// mockRepo mirrors the conditional-write semantics of the Postgres
// implementation: SetSecondary and UpdateStatus only apply when their
// preconditions hold, and Create enforces one scheduled appointment per
// patient the way the partial unique index does.
type mockRepo struct {
	appts map[uuid.UUID]*Appointment
}

func newMockRepo() *mockRepo {
	return &mockRepo{appts: make(map[uuid.UUID]*Appointment)}
}

func (m *mockRepo) Create(_ context.Context, a *Appointment) error {
	for _, existing := range m.appts {
		if existing.PatientID == a.PatientID && existing.Status == StatusScheduled {
			return ErrPatientBusy
		}
	}
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	m.appts[a.ID] = a
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := m.appts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

func (m *mockRepo) Update(_ context.Context, a *Appointment) error {
	existing, ok := m.appts[a.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Date = a.Date
	existing.Time = a.Time
	existing.Notes = a.Notes
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.appts[id]; !ok {
		return ErrNotFound
	}
	delete(m.appts, id)
	return nil
}

func (m *mockRepo) SetSecondary(_ context.Context, id, ministerID uuid.UUID) error {
	a, ok := m.appts[id]
	if !ok {
		return ErrNotFound
	}
	switch {
	case a.Status != StatusScheduled:
		return ErrStateConflict
	case a.MinisterID == ministerID:
		return ErrSamePrimary
	case a.SecondaryMinisterID != nil:
		return ErrSecondaryTaken
	}
	a.SecondaryMinisterID = &ministerID
	return nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to string) error {
	a, ok := m.appts[id]
	if !ok {
		return ErrNotFound
	}
	if a.Status != from {
		return ErrStateConflict
	}
	a.Status = to
	return nil
}

func (m *mockRepo) Search(_ context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error) {
	var result []*Appointment
	for _, a := range m.appts {
		if status, ok := params["status"]; ok && a.Status != status {
			continue
		}
		if minister, ok := params["minister"]; ok {
			if a.MinisterID.String() != minister &&
				(a.SecondaryMinisterID == nil || a.SecondaryMinisterID.String() != minister) {
				continue
			}
		}
		result = append(result, a)
	}
	return result, len(result), nil
}

func (m *mockRepo) CountByMinister(_ context.Context, ministerID uuid.UUID) (int, error) {
	n := 0
	for _, a := range m.appts {
		if a.MinisterID == ministerID ||
			(a.SecondaryMinisterID != nil && *a.SecondaryMinisterID == ministerID) {
			n++
		}
	}
	return n, nil
}

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	return NewService(repo), repo
}

func scheduled(t *testing.T, svc *Service) *Appointment {
	t.Helper()
	a := &Appointment{
		PatientID:  uuid.New(),
		MinisterID: uuid.New(),
		Date:       time.Now(),
	}
	if err := svc.Create(context.Background(), a); err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	return a
}

// -- Tests --

func TestCreate_ForcesScheduledStatus(t *testing.T) {
	svc, _ := newTestService()
	a := &Appointment{
		PatientID:  uuid.New(),
		MinisterID: uuid.New(),
		Date:       time.Now(),
		Status:     StatusCompleted, // client-supplied status is ignored
	}
	if err := svc.Create(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != StatusScheduled {
		t.Errorf("expected %s, got %s", StatusScheduled, a.Status)
	}
}

func TestCreate_SecondaryMustDiffer(t *testing.T) {
	svc, _ := newTestService()
	ministerID := uuid.New()
	a := &Appointment{
		PatientID:           uuid.New(),
		MinisterID:          ministerID,
		SecondaryMinisterID: &ministerID,
		Date:                time.Now(),
	}
	if err := svc.Create(context.Background(), a); err != ErrSamePrimary {
		t.Errorf("expected ErrSamePrimary, got %v", err)
	}
}

func TestCreate_OneScheduledPerPatient(t *testing.T) {
	svc, _ := newTestService()
	patientID := uuid.New()

	first := &Appointment{PatientID: patientID, MinisterID: uuid.New(), Date: time.Now()}
	if err := svc.Create(context.Background(), first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := &Appointment{PatientID: patientID, MinisterID: uuid.New(), Date: time.Now()}
	if err := svc.Create(context.Background(), second); err != ErrPatientBusy {
		t.Errorf("expected ErrPatientBusy, got %v", err)
	}

	// A completed appointment frees the patient for a new one.
	if _, err := svc.Complete(context.Background(), first.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Create(context.Background(), second); err != nil {
		t.Errorf("expected create after completion to succeed, got %v", err)
	}
}

func TestQuickAssign(t *testing.T) {
	svc, _ := newTestService()
	ministerID := uuid.New()

	a, err := svc.QuickAssign(context.Background(), uuid.New(), ministerID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != StatusScheduled {
		t.Errorf("expected %s, got %s", StatusScheduled, a.Status)
	}
	if a.MinisterID != ministerID {
		t.Error("expected acting minister as primary")
	}
	if a.Time != nil {
		t.Error("quick assignment should have no time slot")
	}
	if a.Date.IsZero() {
		t.Error("quick assignment should be dated")
	}
}

func TestJoin(t *testing.T) {
	svc, _ := newTestService()
	a := scheduled(t, svc)
	joiner := uuid.New()

	got, err := svc.Join(context.Background(), a.ID, joiner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.SecondaryMinisterID == nil || *got.SecondaryMinisterID != joiner {
		t.Error("expected joiner recorded as secondary")
	}
}

func TestJoin_SingleWinner(t *testing.T) {
	svc, _ := newTestService()
	a := scheduled(t, svc)

	if _, err := svc.Join(context.Background(), a.ID, uuid.New()); err != nil {
		t.Fatalf("first join should win: %v", err)
	}
	if _, err := svc.Join(context.Background(), a.ID, uuid.New()); err != ErrSecondaryTaken {
		t.Errorf("expected ErrSecondaryTaken for second join, got %v", err)
	}
}

func TestJoin_PrimaryCannotJoin(t *testing.T) {
	svc, _ := newTestService()
	a := scheduled(t, svc)

	if _, err := svc.Join(context.Background(), a.ID, a.MinisterID); err != ErrSamePrimary {
		t.Errorf("expected ErrSamePrimary, got %v", err)
	}
}

func TestJoin_TerminalAppointment(t *testing.T) {
	svc, _ := newTestService()
	a := scheduled(t, svc)
	if _, err := svc.Cancel(context.Background(), a.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Join(context.Background(), a.ID, uuid.New()); err != ErrStateConflict {
		t.Errorf("expected ErrStateConflict, got %v", err)
	}
}

func TestComplete(t *testing.T) {
	svc, _ := newTestService()
	a := scheduled(t, svc)

	got, err := svc.Complete(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Errorf("expected %s, got %s", StatusCompleted, got.Status)
	}
	if !got.Terminal() {
		t.Error("completed appointment should be terminal")
	}
}

func TestCancel(t *testing.T) {
	svc, _ := newTestService()
	a := scheduled(t, svc)

	got, err := svc.Cancel(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != StatusCancelled {
		t.Errorf("expected %s, got %s", StatusCancelled, got.Status)
	}
}

func TestTerminalTransitionsRejected(t *testing.T) {
	svc, _ := newTestService()

	completed := scheduled(t, svc)
	if _, err := svc.Complete(context.Background(), completed.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Cancel(context.Background(), completed.ID); err != ErrStateConflict {
		t.Errorf("concluido -> cancelado: expected ErrStateConflict, got %v", err)
	}
	if _, err := svc.Complete(context.Background(), completed.ID); err != ErrStateConflict {
		t.Errorf("concluido -> concluido: expected ErrStateConflict, got %v", err)
	}

	cancelled := scheduled(t, svc)
	if _, err := svc.Cancel(context.Background(), cancelled.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Complete(context.Background(), cancelled.ID); err != ErrStateConflict {
		t.Errorf("cancelado -> concluido: expected ErrStateConflict, got %v", err)
	}
}

func TestUpdate_DoesNotTouchStatus(t *testing.T) {
	svc, repo := newTestService()
	a := scheduled(t, svc)
	if _, err := svc.Complete(context.Background(), a.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	newTime := "14:30"
	edit := &Appointment{ID: a.ID, Date: a.Date.AddDate(0, 0, 1), Time: &newTime}
	if err := svc.Update(context.Background(), edit); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored := repo.appts[a.ID]
	if stored.Status != StatusCompleted {
		t.Error("editing date/time must not change status")
	}
	if stored.Time == nil || *stored.Time != "14:30" {
		t.Error("expected time edit applied")
	}
}

func TestSearch_MinisterMatchesEitherRole(t *testing.T) {
	svc, _ := newTestService()
	a := scheduled(t, svc)
	joiner := uuid.New()
	if _, err := svc.Join(context.Background(), a.ID, joiner); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items, total, err := svc.Search(context.Background(), map[string]string{"minister": joiner.String()}, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("expected secondary minister to match the filter, got %d", total)
	}
}

func TestDelete(t *testing.T) {
	svc, repo := newTestService()
	a := scheduled(t, svc)
	if err := svc.Delete(context.Background(), a.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := repo.appts[a.ID]; ok {
		t.Error("appointment should have been deleted")
	}
}
