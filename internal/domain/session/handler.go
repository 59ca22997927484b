package session

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/visitas/visitas/internal/domain/minister"
	"github.com/visitas/visitas/internal/platform/auth"
)

type Handler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHandler(svc *Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes wires the public auth endpoints onto public and the
// session-protected ones onto protected.
func (h *Handler) RegisterRoutes(public, protected *echo.Group) {
	public.POST("/login", h.Login)
	public.POST("/login/code", h.LoginWithCode)
	public.POST("/password/reset-request", h.RequestPasswordReset)
	public.POST("/password/reset", h.ResetPassword)

	protected.POST("/logout", h.Logout)
	protected.GET("/me", h.Me)
}

type loginResponse struct {
	Token    string             `json:"token"`
	Minister *minister.Minister `json:"minister"`
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, ErrDisabled):
		return echo.NewHTTPError(http.StatusForbidden, "account disabled")
	case errors.Is(err, ErrInvalidResetToken):
		return echo.NewHTTPError(http.StatusBadRequest, "invalid or expired reset token")
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}

func (h *Handler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	token, m, err := h.svc.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, loginResponse{Token: token, Minister: m})
}

func (h *Handler) LoginWithCode(c echo.Context) error {
	var req struct {
		Code string `json:"code"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	token, m, err := h.svc.SignInWithCode(c.Request().Context(), req.Code)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, loginResponse{Token: token, Minister: m})
}

func (h *Handler) Logout(c echo.Context) error {
	sessionID := auth.SessionIDFromContext(c.Request().Context())
	if sessionID != uuid.Nil {
		if err := h.svc.SignOut(c.Request().Context(), sessionID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "sign out failed")
		}
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Me(c echo.Context) error {
	id, err := uuid.Parse(auth.MinisterIDFromContext(c.Request().Context()))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "no minister session")
	}
	m, err := h.svc.Me(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "minister not found")
	}
	return c.JSON(http.StatusOK, m)
}

// RequestPasswordReset always answers 204. The token is only logged; wiring
// it to an outbound mailer is the operator's concern.
func (h *Handler) RequestPasswordReset(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	token, err := h.svc.RequestPasswordReset(c.Request().Context(), req.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "reset request failed")
	}
	if token != "" {
		h.logger.Info().Str("email", req.Email).Msg("password reset token issued")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ResetPassword(c echo.Context) error {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.ResetPassword(c.Request().Context(), req.Token, req.Password); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
