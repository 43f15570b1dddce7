package auth

import (
	"errors"
	"net/http"

	httperrors "github.com/dropDatabas3/secaware/internal/http/errors"
	svc "github.com/dropDatabas3/secaware/internal/http/services/auth"
	"github.com/dropDatabas3/secaware/internal/observability/logger"
	"go.uber.org/zap"
)

// twoFAFailedBody es el 401 de código 2FA inválido: mantiene el flag de
// step-up para que el cliente reintente el código sin repetir la password.
type twoFAFailedBody struct {
	Code          string `json:"code"`
	Message       string `json:"message"`
	TwoFARequired bool   `json:"twofa_required"`
}

// writeAuthError mapea errores sentinel de los services auth a AppErrors.
// Todo lo no mapeado es un 500 genérico: los detalles quedan en el log,
// nunca en la respuesta.
func (c *Controller) writeAuthError(w http.ResponseWriter, err error, log *zap.Logger) {
	switch {
	case errors.Is(err, svc.ErrRegisterMissingFields) || errors.Is(err, svc.ErrLoginMissingFields):
		httperrors.WriteError(w, httperrors.ErrMissingFields)
	case errors.Is(err, svc.ErrRegisterInvalidEmail):
		httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail("invalid email"))
	case errors.Is(err, svc.ErrRegisterWeakPassword):
		httperrors.WriteError(w, httperrors.ErrPasswordTooWeak)
	case errors.Is(err, svc.ErrRegisterEmailTaken):
		httperrors.WriteError(w, httperrors.ErrEmailAlreadyInUse)
	case errors.Is(err, svc.ErrLoginInvalidCredentials):
		httperrors.WriteError(w, httperrors.ErrInvalidCredentials)
	case errors.Is(err, svc.ErrLoginEmailNotVerified):
		httperrors.WriteError(w, httperrors.ErrAccountNotVerified)
	case errors.Is(err, svc.ErrLoginInvalidTwoFACode):
		e := httperrors.ErrInvalidTwoFACode
		httperrors.WriteJSON(w, e.HTTPStatus, twoFAFailedBody{
			Code:          e.Code,
			Message:       e.Message,
			TwoFARequired: true,
		})
	case errors.Is(err, svc.ErrVerifyInvalidToken):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithMessage("Invalid or expired verification token."))
	case errors.Is(err, svc.ErrTwoFABadCode):
		// Confirmación de enrolamiento, no login: acá un código malo es un
		// request inválido (400), sin semántica de step-up.
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithMessage("Invalid code"))
	case errors.Is(err, svc.ErrTwoFANotEnrolled):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("2fa enrollment not started"))
	case errors.Is(err, svc.ErrTwoFAUserNotFound) || errors.Is(err, svc.ErrProfileNotFound):
		httperrors.WriteError(w, httperrors.ErrUserNotFound)
	default:
		log.Error("auth service error", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}
