// Package auth contiene el controller HTTP de autenticación.
package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	dto "github.com/dropDatabas3/secaware/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/secaware/internal/http/errors"
	"github.com/dropDatabas3/secaware/internal/http/metrics"
	"github.com/dropDatabas3/secaware/internal/http/middlewares"
	svc "github.com/dropDatabas3/secaware/internal/http/services/auth"
	"github.com/dropDatabas3/secaware/internal/observability/logger"
)

// maxAuthBody acota los bodies de los endpoints auth, todos JSON chicos.
const maxAuthBody = 16 << 10

// Controller maneja los endpoints /api/auth/*.
type Controller struct {
	services svc.Services

	session middlewares.Middleware
	// limiters de credenciales; nil = sin límite
	loginLimiter middlewares.Middleware
	twoFALimiter middlewares.Middleware
}

// NewController crea el controller de auth.
// session es el middleware de bearer token; los limiters pueden ser nil.
func NewController(s svc.Services, session, loginLimiter, twoFALimiter middlewares.Middleware) *Controller {
	passthrough := func(next http.Handler) http.Handler { return next }
	if loginLimiter == nil {
		loginLimiter = passthrough
	}
	if twoFALimiter == nil {
		twoFALimiter = passthrough
	}
	return &Controller{services: s, session: session, loginLimiter: loginLimiter, twoFALimiter: twoFALimiter}
}

// Register monta las rutas del controller. Las rutas que responden tokens
// o secretos llevan no-store.
func (c *Controller) Register(r chi.Router) {
	noStore := middlewares.WithNoStore()

	r.With(noStore).Post("/register", c.register)
	r.With(c.loginLimiter, noStore).Post("/login", c.login)
	r.Get("/verify-email", c.verifyEmail)

	r.Group(func(r chi.Router) {
		r.Use(c.session)
		r.With(noStore).Post("/2fa/enable", c.enableTwoFA)
		r.With(c.twoFALimiter).Post("/2fa/verify", c.verifyTwoFA)
		r.Get("/profile", c.profile)
	})
}

// register maneja POST /api/auth/register
func (c *Controller) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("auth.register"))

	r.Body = http.MaxBytesReader(w, r.Body, maxAuthBody)

	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	resp, err := c.services.Register.Register(ctx, req)
	if err != nil {
		if errors.Is(err, svc.ErrRegisterEmailTaken) {
			metrics.CountRegistration("conflict")
		}
		c.writeAuthError(w, err, log)
		return
	}

	metrics.CountRegistration("created")
	httperrors.WriteJSON(w, http.StatusCreated, resp)
}

// login maneja POST /api/auth/login
func (c *Controller) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("auth.login"))

	r.Body = http.MaxBytesReader(w, r.Body, maxAuthBody)

	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	result, err := c.services.Login.Login(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrLoginInvalidCredentials):
			metrics.CountLogin("invalid")
		case errors.Is(err, svc.ErrLoginEmailNotVerified):
			metrics.CountLogin("unverified")
		case errors.Is(err, svc.ErrLoginInvalidTwoFACode):
			metrics.CountLogin("invalid")
			metrics.CountTwoFACheck("bad_code")
		}
		c.writeAuthError(w, err, log)
		return
	}

	// Step-up: password correcta, falta el segundo factor. 206 sin token.
	if result.TwoFARequired {
		metrics.CountLogin("step_up")
		httperrors.WriteJSON(w, http.StatusPartialContent, dto.TwoFARequiredResponse{
			Error:         "2FA code required",
			TwoFARequired: true,
		})
		return
	}

	metrics.CountLogin("success")
	httperrors.WriteJSON(w, http.StatusOK, dto.LoginResponse{
		Message: "Login successful",
		User:    result.User,
		Token:   result.Token,
		Role:    result.Role,
	})
}

// verifyEmail maneja GET /api/auth/verify-email?token=
func (c *Controller) verifyEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("auth.verify_email"))

	resp, err := c.services.Verify.VerifyEmail(ctx, r.URL.Query().Get("token"))
	if err != nil {
		c.writeAuthError(w, err, log)
		return
	}
	httperrors.WriteJSON(w, http.StatusOK, resp)
}

// enableTwoFA maneja POST /api/auth/2fa/enable
func (c *Controller) enableTwoFA(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("auth.twofa_enable"))

	userID := middlewares.SubjectID(ctx)
	if userID == "" {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	resp, err := c.services.TwoFA.Enable(ctx, userID)
	if err != nil {
		c.writeAuthError(w, err, log)
		return
	}

	// La respuesta contiene el secreto: nunca se cachea.
	w.Header().Set("Pragma", "no-cache")
	httperrors.WriteJSON(w, http.StatusOK, resp)
}

// verifyTwoFA maneja POST /api/auth/2fa/verify
func (c *Controller) verifyTwoFA(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("auth.twofa_verify"))

	userID := middlewares.SubjectID(ctx)
	if userID == "" {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAuthBody)

	var req dto.VerifyTwoFARequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	resp, err := c.services.TwoFA.Confirm(ctx, userID, req.Code)
	if err != nil {
		if errors.Is(err, svc.ErrTwoFABadCode) {
			metrics.CountTwoFACheck("bad_code")
		}
		c.writeAuthError(w, err, log)
		return
	}

	metrics.CountTwoFACheck("ok")
	httperrors.WriteJSON(w, http.StatusOK, resp)
}

// profile maneja GET /api/auth/profile
func (c *Controller) profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("auth.profile"))

	claims := middlewares.Session(ctx)
	if claims == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}
	kind, err := claims.SubjectKind()
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrTokenInvalid)
		return
	}

	resp, err := c.services.Profile.Profile(ctx, claims.Subject, kind)
	if err != nil {
		c.writeAuthError(w, err, log)
		return
	}
	httperrors.WriteJSON(w, http.StatusOK, resp)
}
