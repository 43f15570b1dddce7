package auth

import (
	"context"
	"errors"

	"github.com/dropDatabas3/secaware/internal/domain/repository"
	"github.com/dropDatabas3/secaware/internal/domain/types"
	dto "github.com/dropDatabas3/secaware/internal/http/dto/auth"
	"github.com/dropDatabas3/secaware/internal/observability/logger"
	tokens "github.com/dropDatabas3/secaware/internal/security/token"
	"github.com/dropDatabas3/secaware/internal/validation"
)

// RegisterService maneja el alta de usuarios.
type RegisterService interface {
	Register(ctx context.Context, in dto.RegisterRequest) (*dto.RegisterResponse, error)
}

// Errores de registro (sentinel)
var (
	ErrRegisterMissingFields = errors.New("missing required fields")
	ErrRegisterInvalidEmail  = errors.New("invalid email format")
	ErrRegisterWeakPassword  = errors.New("password too short")
	ErrRegisterEmailTaken    = errors.New("email already registered")
	ErrRegisterHashFailed    = errors.New("failed to hash password")
	ErrRegisterCreateFailed  = errors.New("failed to create user")
	ErrRegisterTokenFailed   = errors.New("failed to issue session token")
)

type registerService struct {
	deps Deps
}

// NewRegisterService crea el service de registro.
func NewRegisterService(d Deps) RegisterService {
	if d.Mailer == nil {
		d.Mailer = NoopMailer()
	}
	return &registerService{deps: d}
}

// Register crea la cuenta: hash de password, token de verificación, insert,
// mail de verificación (soft fail) y session token inmediato.
// El conflicto de email lo decide la constraint de unicidad de la DB, no un
// pre-check: el insert es la única autoridad.
func (s *registerService) Register(ctx context.Context, in dto.RegisterRequest) (*dto.RegisterResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.register"),
		logger.Op("Register"),
	)

	in.Email = validation.NormalizeEmail(in.Email)

	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, ErrRegisterMissingFields
	}
	if !validation.ValidEmail(in.Email) {
		return nil, ErrRegisterInvalidEmail
	}
	if !validation.ValidPassword(in.Password) {
		return nil, ErrRegisterWeakPassword
	}

	digest, err := s.deps.Hasher.Hash(ctx, in.Password)
	if err != nil {
		log.Error("password hash failed", logger.Err(err))
		return nil, ErrRegisterHashFailed
	}

	verifyToken, err := tokens.NewVerificationToken()
	if err != nil {
		log.Error("verification token generation failed", logger.Err(err))
		return nil, ErrRegisterCreateFailed
	}

	user, err := s.deps.Users.Create(ctx, repository.CreateUserInput{
		Email:             in.Email,
		DisplayName:       in.Username,
		PasswordHash:      digest,
		VerificationToken: verifyToken,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			log.Info("registration conflict", logger.Email(in.Email))
			return nil, ErrRegisterEmailTaken
		}
		log.Error("user insert failed", logger.Err(err))
		return nil, ErrRegisterCreateFailed
	}

	log = log.With(logger.UserID(user.ID))

	// El mail de verificación nunca tumba el registro: la cuenta ya existe
	// y el usuario puede pedir la verificación más tarde.
	emailSent := true
	if err := s.deps.Mailer.SendVerification(user.Email, user.DisplayName, verifyToken); err != nil {
		emailSent = false
		log.Warn("verification email failed", logger.Err(err))
	}

	sessionToken, _, err := s.deps.Issuer.Issue(user.ID, types.RoleUser, types.SubjectUser)
	if err != nil {
		log.Error("session token issue failed", logger.Err(err))
		return nil, ErrRegisterTokenFailed
	}

	log.Info("user registered", logger.Bool("email_sent", emailSent))

	return &dto.RegisterResponse{
		Message:   "User registered successfully. Please check your email to verify your account.",
		User:      user.Public(),
		Token:     sessionToken,
		Role:      string(types.RoleUser),
		EmailSent: emailSent,
	}, nil
}
