package auth

import (
	"context"
	"errors"

	"github.com/dropDatabas3/secaware/internal/domain/repository"
	dto "github.com/dropDatabas3/secaware/internal/http/dto/auth"
	"github.com/dropDatabas3/secaware/internal/observability/logger"
)

// VerifyEmailService canjea tokens de verificación de email.
type VerifyEmailService interface {
	VerifyEmail(ctx context.Context, token string) (*dto.MessageResponse, error)
}

// Errores de verificación (sentinel)
var (
	ErrVerifyInvalidToken = errors.New("invalid or expired verification token")
)

type verifyEmailService struct {
	deps Deps
}

// NewVerifyEmailService crea el service de verificación de email.
func NewVerifyEmailService(d Deps) VerifyEmailService {
	return &verifyEmailService{deps: d}
}

// VerifyEmail canjea el token: lookup → consume en un único UPDATE.
// Idempotente: un usuario ya verificado responde éxito con mensaje propio,
// nunca error. El token no expira (contrato legado).
func (s *verifyEmailService) VerifyEmail(ctx context.Context, token string) (*dto.MessageResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.verify"),
		logger.Op("VerifyEmail"),
	)

	if token == "" {
		return nil, ErrVerifyInvalidToken
	}

	user, err := s.deps.Users.GetByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Info("verification token not found")
			return nil, ErrVerifyInvalidToken
		}
		log.Error("token lookup failed", logger.Err(err))
		return nil, err
	}

	log = log.With(logger.UserID(user.ID))

	if user.Verified {
		log.Info("email already verified")
		return &dto.MessageResponse{Message: "Email already verified. You can now log in."}, nil
	}

	if err := s.deps.Users.MarkVerified(ctx, user.ID); err != nil {
		log.Error("mark verified failed", logger.Err(err))
		return nil, err
	}

	log.Info("email verified")
	return &dto.MessageResponse{Message: "Email verified successfully. You can now log in."}, nil
}
