package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vedaclinic/booking-api/internal/api/metrics"
	"github.com/vedaclinic/booking-api/internal/api/middleware"
	"github.com/vedaclinic/booking-api/internal/core/domain"
	"github.com/vedaclinic/booking-api/internal/core/ports"
)

type AuthHandler struct {
	provider ports.IdentityProvider
}

func NewAuthHandler(provider ports.IdentityProvider) *AuthHandler {
	return &AuthHandler{provider: provider}
}

type signUpRequest struct {
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,min=6"`
	FullName string `json:"full_name" validate:"max=120"`
	Phone    string `json:"phone"`
}

type signInRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user,omitempty"`
}

func toSessionResponse(s *ports.Session, u *domain.User) sessionResponse {
	return sessionResponse{Token: s.Token, ExpiresAt: s.ExpiresAt, User: u}
}

func countAuth(action string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.AuthRequestsTotal.WithLabelValues(action, outcome).Inc()
}

// SignUp registers an account and signs it in.
//
// @Summary      Create an account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "Account details"
// @Success      201   {object}  Envelope{data=sessionResponse}
// @Failure      400   {object}  Envelope
// @Failure      409   {object}  Envelope
// @Failure      429   {object}  Envelope
// @Router       /v1/auth/signup [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	session, user, err := h.provider.SignUp(c.Request().Context(), req.Email, req.Password, map[string]string{
		"full_name": req.FullName,
		"phone":     req.Phone,
	})
	countAuth("signup", err)
	if err != nil {
		return err
	}
	return created(c, toSessionResponse(session, user))
}

// SignIn exchanges credentials for a session token.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signInRequest  true  "Credentials"
// @Success      200   {object}  Envelope{data=sessionResponse}
// @Failure      400   {object}  Envelope
// @Failure      401   {object}  Envelope
// @Failure      429   {object}  Envelope
// @Router       /v1/auth/signin [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	session, user, err := h.provider.SignIn(c.Request().Context(), req.Email, req.Password)
	countAuth("signin", err)
	if err != nil {
		return err
	}
	return ok(c, toSessionResponse(session, user))
}

// SignOut ends the session named by the bearer token.
//
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope
// @Failure      401  {object}  Envelope
// @Router       /v1/auth/signout [post]
func (h *AuthHandler) SignOut(c echo.Context) error {
	token := middleware.TokenFrom(c)
	if token == "" {
		return domain.ErrUnauthenticated
	}
	err := h.provider.SignOut(c.Request().Context(), token)
	countAuth("signout", err)
	if err != nil {
		return err
	}
	return ok(c, nil)
}

// Refresh reissues the bearer token for the same session.
//
// @Summary      Refresh the session token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope{data=sessionResponse}
// @Failure      401  {object}  Envelope
// @Router       /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	token := middleware.TokenFrom(c)
	if token == "" {
		return domain.ErrUnauthenticated
	}
	session, err := h.provider.Refresh(c.Request().Context(), token)
	countAuth("refresh", err)
	if err != nil {
		return err
	}
	return ok(c, toSessionResponse(session, nil))
}

// Session reports who the caller resolved to. Anonymous callers get
// is_authenticated=false rather than an error.
//
// @Summary      Current identity
// @Tags         auth
// @Produce      json
// @Success      200  {object}  Envelope{data=domain.Identity}
// @Router       /v1/auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	return ok(c, caller(c))
}
