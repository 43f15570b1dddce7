package auth

import (
	"context"
	"errors"

	"github.com/dropDatabas3/secaware/internal/domain/repository"
	"github.com/dropDatabas3/secaware/internal/domain/types"
	dto "github.com/dropDatabas3/secaware/internal/http/dto/auth"
	"github.com/dropDatabas3/secaware/internal/observability/logger"
	"github.com/dropDatabas3/secaware/internal/security/totp"
	"github.com/dropDatabas3/secaware/internal/validation"
	"go.uber.org/zap"
)

// LoginService maneja el login por password con segundo factor opcional.
type LoginService interface {
	Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResult, error)
}

// Errores de login (sentinel). Credencial inválida y email desconocido
// producen el MISMO error: el caller nunca distingue cuál falló.
var (
	ErrLoginMissingFields      = errors.New("email and password are required")
	ErrLoginInvalidCredentials = errors.New("invalid credentials")
	ErrLoginEmailNotVerified   = errors.New("email not verified")
	ErrLoginInvalidTwoFACode   = errors.New("invalid 2fa code")
	ErrLoginTokenFailed        = errors.New("failed to issue session token")
)

type loginService struct {
	deps Deps
}

// NewLoginService crea el service de login.
func NewLoginService(d Deps) LoginService {
	return &loginService{deps: d}
}

// Login ejecuta la secuencia: lookup → gate de verificación → password →
// gate 2FA → lastLogin → token. Los users se buscan primero; si el email no
// está en users se intenta la tabla admins (sin verificación ni 2FA).
func (s *loginService) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.login"),
		logger.Op("Login"),
	)

	in.Email = validation.NormalizeEmail(in.Email)
	if in.Email == "" || in.Password == "" {
		return nil, ErrLoginMissingFields
	}

	user, err := s.deps.Users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return s.loginAdmin(ctx, in, log)
		}
		log.Error("user lookup failed", logger.Err(err))
		return nil, err
	}

	log = log.With(logger.UserID(user.ID))

	// Gate de verificación ANTES del password: una cuenta sin verificar no
	// revela si la password era correcta.
	if !user.Verified {
		log.Info("login blocked: email not verified")
		return nil, ErrLoginEmailNotVerified
	}

	if !s.deps.Hasher.Verify(ctx, in.Password, user.PasswordHash) {
		log.Debug("password check failed")
		return nil, ErrLoginInvalidCredentials
	}

	// Gate 2FA: password correcta pero falta el segundo factor.
	if user.TOTPEnabled {
		if in.TwoFACode == "" {
			log.Info("2fa step-up required")
			return &dto.LoginResult{TwoFARequired: true}, nil
		}
		secret := ""
		if user.TOTPSecret != nil {
			secret = *user.TOTPSecret
		}
		if !totp.VerifyNow(secret, in.TwoFACode) {
			log.Info("2fa code rejected")
			return nil, ErrLoginInvalidTwoFACode
		}
	}

	if err := s.deps.Users.UpdateLastLogin(ctx, user.ID); err != nil {
		// No bloquea el login: el timestamp es informativo.
		log.Warn("last login update failed", logger.Err(err))
	}

	token, _, err := s.deps.Issuer.Issue(user.ID, user.Role, types.SubjectUser)
	if err != nil {
		log.Error("session token issue failed", logger.Err(err))
		return nil, ErrLoginTokenFailed
	}

	log.Info("login ok")
	return &dto.LoginResult{
		Success: true,
		Token:   token,
		User:    user.Public(),
		Role:    string(user.Role),
	}, nil
}

// loginAdmin intenta el login contra la tabla admins. El contrato de error
// es idéntico al de users: nunca se revela qué tabla (si alguna) matcheó.
func (s *loginService) loginAdmin(ctx context.Context, in dto.LoginRequest, log *zap.Logger) (*dto.LoginResult, error) {
	admin, err := s.deps.Admins.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Debug("unknown email")
			return nil, ErrLoginInvalidCredentials
		}
		log.Error("admin lookup failed", logger.Err(err))
		return nil, err
	}

	log = log.With(logger.AdminID(admin.ID))

	if !s.deps.Hasher.Verify(ctx, in.Password, admin.PasswordHash) {
		log.Debug("password check failed")
		return nil, ErrLoginInvalidCredentials
	}

	if err := s.deps.Admins.UpdateLastLogin(ctx, admin.ID); err != nil {
		log.Warn("last login update failed", logger.Err(err))
	}

	token, _, err := s.deps.Issuer.Issue(admin.ID, types.RoleAdmin, types.SubjectAdmin)
	if err != nil {
		log.Error("session token issue failed", logger.Err(err))
		return nil, ErrLoginTokenFailed
	}

	log.Info("admin login ok")
	return &dto.LoginResult{
		Success: true,
		Token:   token,
		User:    admin.Public(),
		Role:    string(types.RoleAdmin),
	}, nil
}
