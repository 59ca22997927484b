package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	MinisterIDKey contextKey = "minister_id"
	RoleKey       contextKey = "minister_role"
	AdminKey      contextKey = "session_admin"
	SessionIDKey  contextKey = "session_id"
)

// Claims is the session token payload. Admin is carried separately from Role
// because a code-based login always produces a non-admin session even for a
// minister whose role is admin.
type Claims struct {
	jwt.RegisteredClaims
	Role  string `json:"role"`
	Admin bool   `json:"admin"`
}

// SessionChecker reports whether a session row still exists. Sign-out deletes
// the row, so a revoked token fails this check even before it expires.
type SessionChecker interface {
	SessionExists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Config struct {
	SigningKey []byte
	Sessions   SessionChecker
	// Skipper exempts routes (health, login) from authentication.
	Skipper func(echo.Context) bool
}

// Middleware validates the bearer session token and places the minister
// identity on the request context. A malformed or expired token is treated as
// an unauthenticated request; no detail is surfaced to the client.
func Middleware(cfg Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Skipper != nil && cfg.Skipper(c) {
				return next(c)
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
				return cfg.SigningKey, nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session")
			}

			sessionID, err := uuid.Parse(claims.ID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session")
			}

			if cfg.Sessions != nil {
				ok, err := cfg.Sessions.SessionExists(c.Request().Context(), sessionID)
				if err != nil {
					return echo.NewHTTPError(http.StatusServiceUnavailable, "session store unavailable")
				}
				if !ok {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session")
				}
			}

			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, MinisterIDKey, claims.Subject)
			ctx = context.WithValue(ctx, RoleKey, claims.Role)
			ctx = context.WithValue(ctx, AdminKey, claims.Admin)
			ctx = context.WithValue(ctx, SessionIDKey, sessionID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

func MinisterIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(MinisterIDKey).(string)
	return id
}

func RoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(RoleKey).(string)
	return role
}

func IsAdmin(ctx context.Context) bool {
	admin, _ := ctx.Value(AdminKey).(bool)
	return admin
}

func SessionIDFromContext(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(SessionIDKey).(uuid.UUID)
	return id
}
