package auth

import (
	"context"
	"errors"

	"github.com/dropDatabas3/secaware/internal/domain/repository"
	"github.com/dropDatabas3/secaware/internal/domain/types"
	dto "github.com/dropDatabas3/secaware/internal/http/dto/auth"
	"github.com/dropDatabas3/secaware/internal/observability/logger"
)

// ProfileService resuelve el perfil del principal autenticado.
type ProfileService interface {
	Profile(ctx context.Context, subjectID string, kind types.SubjectKind) (*dto.ProfileResponse, error)
}

// ErrProfileNotFound indica que el sujeto del token ya no existe.
var ErrProfileNotFound = errors.New("subject not found")

type profileService struct {
	deps Deps
}

// NewProfileService crea el service de perfil.
func NewProfileService(d Deps) ProfileService {
	return &profileService{deps: d}
}

// Profile busca el principal en la tabla que indica el kind del token.
func (s *profileService) Profile(ctx context.Context, subjectID string, kind types.SubjectKind) (*dto.ProfileResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.profile"),
		logger.Op("Profile"),
	)

	switch kind {
	case types.SubjectAdmin:
		admin, err := s.deps.Admins.GetByID(ctx, subjectID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrProfileNotFound
			}
			log.Error("admin lookup failed", logger.Err(err))
			return nil, err
		}
		return &dto.ProfileResponse{User: admin.Public()}, nil
	default:
		user, err := s.deps.Users.GetByID(ctx, subjectID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrProfileNotFound
			}
			log.Error("user lookup failed", logger.Err(err))
			return nil, err
		}
		return &dto.ProfileResponse{User: user.Public()}, nil
	}
}
