package auth

// EnableTwoFAResponse devuelve el secreto provisional de TOTP (200).
// Contiene material sensible: el controller fuerza Cache-Control no-store.
type EnableTwoFAResponse struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauth_url"`
}

// VerifyTwoFARequest representa la confirmación de enrolamiento TOTP.
type VerifyTwoFARequest struct {
	Code string `json:"code"`
}
