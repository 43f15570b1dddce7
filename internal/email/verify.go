package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// VerifyMailer arma y envía el mail de verificación de registro.
type VerifyMailer struct {
	Sender Sender
	// BaseURL del frontend que renderiza /verify-email.
	BaseURL string
	// AppName aparece en el subject y el saludo.
	AppName string
}

var verifyTmpl = template.Must(template.New("verify").Parse(`<h2>Welcome to {{.AppName}}, {{.DisplayName}}!</h2>
<p>To complete your registration, please verify your email address by clicking the link below:</p>
<a href="{{.Link}}" style="color: #2563eb;">Verify Email</a>
<p>If you did not register, you can ignore this email.</p>`))

type verifyVars struct {
	AppName     string
	DisplayName string
	Link        string
}

// SendVerification envía el link con el token. El token va en query string;
// el frontend lo reenvía a GET /api/auth/verify-email.
func (m *VerifyMailer) SendVerification(to, displayName, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", m.BaseURL, token)

	var html bytes.Buffer
	if err := verifyTmpl.Execute(&html, verifyVars{
		AppName:     m.AppName,
		DisplayName: displayName,
		Link:        link,
	}); err != nil {
		return fmt.Errorf("render verify template: %w", err)
	}

	text := fmt.Sprintf("Welcome to %s, %s!\n\nVerify your email: %s\n\nIf you did not register, ignore this email.",
		m.AppName, displayName, link)

	return m.Sender.Send(to, "Verify your email address", html.String(), text)
}
