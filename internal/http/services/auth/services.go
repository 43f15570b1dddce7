// Package auth contiene los services de autenticación: registro, login,
// verificación de email y segundo factor TOTP.
package auth

import (
	"github.com/dropDatabas3/secaware/internal/domain/repository"
	jwtx "github.com/dropDatabas3/secaware/internal/jwt"
	"github.com/dropDatabas3/secaware/internal/security/password"
)

// VerificationMailer envía el mail de verificación de cuenta.
// Su fallo nunca aborta el registro: se reporta como warning.
type VerificationMailer interface {
	SendVerification(to, displayName, token string) error
}

// Deps contiene las dependencias para crear los services auth.
type Deps struct {
	Users  repository.UserRepository
	Admins repository.AdminRepository
	Issuer *jwtx.Issuer
	Hasher *password.Hasher
	Mailer VerificationMailer // nil = no se envían mails
	// TOTPIssuer es el nombre que ven las apps autenticadoras.
	TOTPIssuer string
}

// Services agrupa todos los services del dominio auth.
type Services struct {
	Register RegisterService
	Login    LoginService
	Verify   VerifyEmailService
	TwoFA    TwoFAService
	Profile  ProfileService
}

// NewServices crea el agregador de services auth.
func NewServices(d Deps) Services {
	return Services{
		Register: NewRegisterService(d),
		Login:    NewLoginService(d),
		Verify:   NewVerifyEmailService(d),
		TwoFA:    NewTwoFAService(d),
		Profile:  NewProfileService(d),
	}
}

// noopMailer descarta los envíos cuando no hay SMTP configurado.
type noopMailer struct{}

func (noopMailer) SendVerification(_, _, _ string) error { return nil }

// NoopMailer retorna un mailer que no envía nada.
func NoopMailer() VerificationMailer { return noopMailer{} }
