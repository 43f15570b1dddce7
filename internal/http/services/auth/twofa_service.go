package auth

import (
	"context"
	"errors"

	"github.com/dropDatabas3/secaware/internal/domain/repository"
	dto "github.com/dropDatabas3/secaware/internal/http/dto/auth"
	"github.com/dropDatabas3/secaware/internal/observability/logger"
	"github.com/dropDatabas3/secaware/internal/security/totp"
)

// TwoFAService maneja el enrolamiento TOTP en dos pasos:
// Enable genera el secreto provisional, Confirm lo activa tras el primer
// código correcto.
type TwoFAService interface {
	Enable(ctx context.Context, userID string) (*dto.EnableTwoFAResponse, error)
	Confirm(ctx context.Context, userID, code string) (*dto.MessageResponse, error)
}

// Errores de 2FA (sentinel)
var (
	ErrTwoFAUserNotFound = errors.New("user not found")
	ErrTwoFANotEnrolled  = errors.New("2fa enrollment not started")
	ErrTwoFABadCode      = errors.New("invalid 2fa code")
)

type twoFAService struct {
	deps Deps
}

// NewTwoFAService crea el service de segundo factor.
func NewTwoFAService(d Deps) TwoFAService {
	return &twoFAService{deps: d}
}

// Enable genera un secreto TOTP nuevo y lo guarda con totp_enabled=false.
// Repetir Enable antes de confirmar pisa el secreto anterior: el último
// secreto emitido es el único válido.
func (s *twoFAService) Enable(ctx context.Context, userID string) (*dto.EnableTwoFAResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.twofa"),
		logger.Op("Enable"),
		logger.UserID(userID),
	)

	user, err := s.deps.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTwoFAUserNotFound
		}
		log.Error("user lookup failed", logger.Err(err))
		return nil, err
	}

	_, secretB32, err := totp.GenerateSecret()
	if err != nil {
		log.Error("secret generation failed", logger.Err(err))
		return nil, err
	}

	if err := s.deps.Users.SetTOTPSecret(ctx, user.ID, secretB32); err != nil {
		log.Error("secret persist failed", logger.Err(err))
		return nil, err
	}

	log.Info("2fa enrollment started")
	return &dto.EnableTwoFAResponse{
		Secret:     secretB32,
		OTPAuthURL: totp.OTPAuthURL(s.deps.TOTPIssuer, user.Email, secretB32),
	}, nil
}

// Confirm valida el primer código contra el secreto provisional y activa
// el segundo factor. Sólo un código correcto enciende totp_enabled.
func (s *twoFAService) Confirm(ctx context.Context, userID, code string) (*dto.MessageResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.twofa"),
		logger.Op("Confirm"),
		logger.UserID(userID),
	)

	user, err := s.deps.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTwoFAUserNotFound
		}
		log.Error("user lookup failed", logger.Err(err))
		return nil, err
	}

	if user.TOTPSecret == nil || *user.TOTPSecret == "" {
		return nil, ErrTwoFANotEnrolled
	}

	if !totp.VerifyNow(*user.TOTPSecret, code) {
		log.Info("2fa confirmation code rejected")
		return nil, ErrTwoFABadCode
	}

	if err := s.deps.Users.EnableTOTP(ctx, user.ID); err != nil {
		log.Error("2fa activation failed", logger.Err(err))
		return nil, err
	}

	log.Info("2fa enabled")
	return &dto.MessageResponse{Message: "2FA enabled successfully"}, nil
}
