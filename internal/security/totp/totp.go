package totp

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base32"
	"fmt"
	"net/url"
	"time"
)

const (
	// Period es el paso de tiempo RFC 6238 (30s convencional).
	Period = 30
	// Digits del código OTP.
	Digits = 6
	// DefaultWindow tolera +/-1 paso (~30s de clock skew).
	DefaultWindow = 1

	secretLen = 20 // 160 bits
)

var b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// GenerateSecret retorna 20 bytes aleatorios y su base32 sin padding (RFC 3548).
func GenerateSecret() (raw []byte, secretB32 string, err error) {
	raw = make([]byte, secretLen)
	if _, err = rand.Read(raw); err != nil {
		return nil, "", err
	}
	return raw, b32.EncodeToString(raw), nil
}

// DecodeSecret decodifica un secret base32 sin padding.
func DecodeSecret(secretB32 string) ([]byte, error) {
	raw, err := b32.DecodeString(secretB32)
	if err != nil {
		return nil, fmt.Errorf("totp: invalid base32 secret: %w", err)
	}
	return raw, nil
}

// OTPAuthURL construye la URI otpauth:// para QR de apps authenticator.
// otpauth://totp/{issuer}:{account}?secret=...&issuer=...&algorithm=SHA1&digits=6&period=30
func OTPAuthURL(issuer, accountName, secretB32 string) string {
	label := url.PathEscape(fmt.Sprintf("%s:%s", issuer, accountName))
	q := url.Values{}
	q.Set("secret", secretB32)
	q.Set("issuer", issuer)
	q.Set("algorithm", "SHA1")
	q.Set("digits", fmt.Sprintf("%d", Digits))
	q.Set("period", fmt.Sprintf("%d", Period))
	return fmt.Sprintf("otpauth://totp/%s?%s", label, q.Encode())
}

// Verify acepta el código si coincide con el contador actual o cualquiera
// dentro de +/-windowSteps. Input que no sea exactamente 6 dígitos se
// rechaza antes de computar ningún HMAC.
func Verify(secretRaw []byte, code string, t time.Time, windowSteps int) bool {
	if !wellFormed(code) {
		return false
	}
	if windowSteps < 0 {
		windowSteps = DefaultWindow
	}
	counter := t.Unix() / Period
	for c := counter - int64(windowSteps); c <= counter+int64(windowSteps); c++ {
		if hmac.Equal([]byte(generate(secretRaw, c)), []byte(code)) {
			return true
		}
	}
	return false
}

// VerifyNow es Verify contra el reloj del sistema con la ventana por defecto.
func VerifyNow(secretB32, code string) bool {
	raw, err := DecodeSecret(secretB32)
	if err != nil {
		return false
	}
	return Verify(raw, code, time.Now().UTC(), DefaultWindow)
}

// CodeAt genera el código para un instante dado. Expuesto para tests y seed.
func CodeAt(secretRaw []byte, t time.Time) string {
	return generate(secretRaw, t.Unix()/Period)
}

func wellFormed(code string) bool {
	if len(code) != Digits {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

// generate implementa HOTP(K, C) con HMAC-SHA1 (RFC 4226 / 6238).
func generate(secretRaw []byte, counter int64) string {
	var msg [8]byte
	for i := 7; i >= 0; i-- {
		msg[i] = byte(counter & 0xff)
		counter >>= 8
	}
	m := hmac.New(sha1.New, secretRaw)
	_, _ = m.Write(msg[:])
	sum := m.Sum(nil)
	offset := int(sum[len(sum)-1] & 0x0f)
	bin := (int(sum[offset])&0x7f)<<24 | int(sum[offset+1])<<16 | int(sum[offset+2])<<8 | int(sum[offset+3])
	return fmt.Sprintf("%06d", bin%1000000)
}
