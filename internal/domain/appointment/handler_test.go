package appointment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/visitas/visitas/internal/platform/auth"
)

func newTestHandler() (*Handler, *echo.Echo) {
	svc, _ := newTestService()
	return NewHandler(svc), echo.New()
}

func requestAs(method, target, body string, ministerID uuid.UUID) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), auth.MinisterIDKey, ministerID.String())
	return req.WithContext(ctx)
}

func TestHandler_QuickAssign(t *testing.T) {
	h, e := newTestHandler()
	ministerID := uuid.New()
	body := `{"patient_id":"` + uuid.New().String() + `"}`

	rec := httptest.NewRecorder()
	c := e.NewContext(requestAs(http.MethodPost, "/", body, ministerID), rec)

	if err := h.QuickAssign(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	var a Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &a); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if a.MinisterID != ministerID {
		t.Error("expected session minister as primary")
	}
	if a.Status != StatusScheduled {
		t.Errorf("expected %s, got %s", StatusScheduled, a.Status)
	}
}

func TestHandler_QuickAssign_NoSession(t *testing.T) {
	h, e := newTestHandler()
	body := `{"patient_id":"` + uuid.New().String() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	err := h.QuickAssign(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestHandler_QuickAssign_PatientBusy(t *testing.T) {
	h, e := newTestHandler()
	patientID := uuid.New()
	body := `{"patient_id":"` + patientID.String() + `"}`

	c := e.NewContext(requestAs(http.MethodPost, "/", body, uuid.New()), httptest.NewRecorder())
	if err := h.QuickAssign(c); err != nil {
		t.Fatalf("first assignment: %v", err)
	}

	c = e.NewContext(requestAs(http.MethodPost, "/", body, uuid.New()), httptest.NewRecorder())
	err := h.QuickAssign(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusConflict {
		t.Fatalf("expected 409 for busy patient, got %v", err)
	}
}

func TestHandler_Join(t *testing.T) {
	h, e := newTestHandler()
	a := scheduled(t, h.svc)
	joiner := uuid.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(requestAs(http.MethodPost, "/", "", joiner), rec)
	c.SetParamNames("id")
	c.SetParamValues(a.ID.String())

	if err := h.Join(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.SecondaryMinisterID == nil || *got.SecondaryMinisterID != joiner {
		t.Error("expected joiner as secondary in response")
	}
}

func TestHandler_Join_Taken(t *testing.T) {
	h, e := newTestHandler()
	a := scheduled(t, h.svc)
	if _, err := h.svc.Join(context.Background(), a.ID, uuid.New()); err != nil {
		t.Fatalf("seed secondary: %v", err)
	}

	c := e.NewContext(requestAs(http.MethodPost, "/", "", uuid.New()), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(a.ID.String())

	err := h.Join(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %v", err)
	}
}

func TestHandler_Complete_ThenCancelRejected(t *testing.T) {
	h, e := newTestHandler()
	a := scheduled(t, h.svc)

	rec := httptest.NewRecorder()
	c := e.NewContext(requestAs(http.MethodPost, "/", "", uuid.New()), rec)
	c.SetParamNames("id")
	c.SetParamValues(a.ID.String())
	if err := h.Complete(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	c = e.NewContext(requestAs(http.MethodPost, "/", "", uuid.New()), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(a.ID.String())
	err := h.Cancel(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusConflict {
		t.Fatalf("expected 409 for terminal transition, got %v", err)
	}
}

func TestHandler_Create(t *testing.T) {
	h, e := newTestHandler()
	body := `{"patient_id":"` + uuid.New().String() + `","minister_id":"` + uuid.New().String() +
		`","date":"` + time.Now().Format(time.RFC3339) + `"}`
	rec := httptest.NewRecorder()
	c := e.NewContext(requestAs(http.MethodPost, "/", body, uuid.New()), rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
}

func TestHandler_Get_NotFound(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	err := h.Get(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestHandler_List_ByStatus(t *testing.T) {
	h, e := newTestHandler()
	a := scheduled(t, h.svc)
	if _, err := h.svc.Complete(context.Background(), a.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	scheduled(t, h.svc)

	req := httptest.NewRequest(http.MethodGet, "/?status=concluido", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp struct {
		Data  []*Appointment `json:"data"`
		Total int            `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 1 || resp.Data[0].Status != StatusCompleted {
		t.Errorf("expected one completed appointment, got total=%d", resp.Total)
	}
}
