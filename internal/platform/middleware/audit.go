package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/visitas/visitas/internal/platform/auth"
)

// AuditEntry records who changed what. Only mutating requests under /api/v1/
// are audited; reads pass through untouched.
type AuditEntry struct {
	MinisterID string
	Role       string
	Admin      bool
	Resource   string
	Action     string // create, update, delete
	Path       string
	Method     string
	IPAddress  string
	RequestID  string
	StatusCode int
	Timestamp  time.Time
}

// AuditRecorder persists audit entries. Tests provide a mock; production
// wiring may omit it and rely on the structured log alone.
type AuditRecorder interface {
	Record(entry AuditEntry) error
}

// AuditRecorderFunc is a function adapter for AuditRecorder.
type AuditRecorderFunc func(entry AuditEntry) error

func (f AuditRecorderFunc) Record(entry AuditEntry) error {
	return f(entry)
}

// Audit logs every mutation under /api/v1/ with the acting minister taken
// from the session context.
func Audit(logger zerolog.Logger, recorders ...AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			action, ok := mutationAction(req.Method)
			if !ok || !strings.HasPrefix(req.URL.Path, "/api/v1/") {
				return next(c)
			}

			// Run the handler first so the response status is known.
			err := next(c)

			ctx := req.Context()
			entry := AuditEntry{
				MinisterID: auth.MinisterIDFromContext(ctx),
				Role:       auth.RoleFromContext(ctx),
				Admin:      auth.IsAdmin(ctx),
				Resource:   resourceFromPath(req.URL.Path),
				Action:     action,
				Path:       req.URL.Path,
				Method:     req.Method,
				IPAddress:  c.RealIP(),
				StatusCode: c.Response().Status,
				Timestamp:  time.Now().UTC(),
			}
			if rid, ok := c.Get("request_id").(string); ok {
				entry.RequestID = rid
			}

			if len(recorders) > 0 && recorders[0] != nil {
				if recErr := recorders[0].Record(entry); recErr != nil {
					logger.Error().Err(recErr).
						Str("request_id", entry.RequestID).
						Msg("failed to record audit entry")
				}
			}

			logger.Info().
				Str("type", "audit").
				Str("request_id", entry.RequestID).
				Str("minister_id", entry.MinisterID).
				Str("role", entry.Role).
				Bool("admin", entry.Admin).
				Str("resource", entry.Resource).
				Str("action", entry.Action).
				Str("method", entry.Method).
				Str("path", entry.Path).
				Str("remote_ip", entry.IPAddress).
				Int("status", entry.StatusCode).
				Msg("mutation")

			return err
		}
	}
}

func mutationAction(method string) (string, bool) {
	switch method {
	case http.MethodPost:
		return "create", true
	case http.MethodPut, http.MethodPatch:
		return "update", true
	case http.MethodDelete:
		return "delete", true
	default:
		return "", false
	}
}

// resourceFromPath returns the first path segment after /api/v1/, e.g.
// /api/v1/appointments/123/join -> appointments.
func resourceFromPath(path string) string {
	segments := strings.Split(strings.TrimPrefix(path, "/api/v1/"), "/")
	if len(segments) > 0 && segments[0] != "" {
		return segments[0]
	}
	return "unknown"
}
