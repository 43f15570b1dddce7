package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/secaware/internal/domain/types"
	dto "github.com/dropDatabas3/secaware/internal/http/dto/auth"
	"github.com/dropDatabas3/secaware/internal/security/totp"
)

func TestLogin_Success(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	u := env.seedUser(t, "alice@example.com", "s3cret-pass", true)

	res, err := env.services.Login.Login(context.Background(), dto.LoginRequest{
		Email:    "Alice@Example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.False(t, res.TwoFARequired)
	assert.Equal(t, "user", res.Role)
	assert.Equal(t, u.ID, res.User.ID)

	claims, err := env.issuer.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.SubjectID())
	kind, err := claims.SubjectKind()
	require.NoError(t, err)
	assert.Equal(t, types.SubjectUser, kind)

	// last login quedó registrado
	stored, err := env.users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt)
}

func TestLogin_MissingFields(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	_, err := env.services.Login.Login(context.Background(), dto.LoginRequest{Email: "a@b.com"})
	assert.ErrorIs(t, err, ErrLoginMissingFields)

	_, err = env.services.Login.Login(context.Background(), dto.LoginRequest{Password: "x"})
	assert.ErrorIs(t, err, ErrLoginMissingFields)
}

func TestLogin_UnknownEmailAndWrongPasswordAreIndistinguishable(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.seedUser(t, "alice@example.com", "s3cret-pass", true)

	_, errUnknown := env.services.Login.Login(context.Background(), dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever-pass",
	})
	_, errWrongPass := env.services.Login.Login(context.Background(), dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-pass",
	})

	assert.ErrorIs(t, errUnknown, ErrLoginInvalidCredentials)
	assert.ErrorIs(t, errWrongPass, ErrLoginInvalidCredentials)
	assert.Equal(t, errUnknown, errWrongPass)
}

func TestLogin_UnverifiedBlockedBeforePasswordCheck(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.seedUser(t, "pending@example.com", "s3cret-pass", false)

	// misma respuesta con password correcta e incorrecta: el gate de
	// verificación corre antes del chequeo de credenciales
	_, errGood := env.services.Login.Login(context.Background(), dto.LoginRequest{
		Email:    "pending@example.com",
		Password: "s3cret-pass",
	})
	_, errBad := env.services.Login.Login(context.Background(), dto.LoginRequest{
		Email:    "pending@example.com",
		Password: "wrong-pass",
	})

	assert.ErrorIs(t, errGood, ErrLoginEmailNotVerified)
	assert.ErrorIs(t, errBad, ErrLoginEmailNotVerified)
}

func TestLogin_TwoFAStepUp(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	u := env.seedUser(t, "alice@example.com", "s3cret-pass", true)

	raw, secretB32, err := totp.GenerateSecret()
	require.NoError(t, err)
	require.NoError(t, env.users.SetTOTPSecret(context.Background(), u.ID, secretB32))
	require.NoError(t, env.users.EnableTOTP(context.Background(), u.ID))

	// sin código: step-up, no error
	res, err := env.services.Login.Login(context.Background(), dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.True(t, res.TwoFARequired)
	assert.False(t, res.Success)
	assert.Empty(t, res.Token)

	// código inválido: error, sigue requiriendo 2FA
	_, err = env.services.Login.Login(context.Background(), dto.LoginRequest{
		Email:     "alice@example.com",
		Password:  "s3cret-pass",
		TwoFACode: "000000",
	})
	assert.ErrorIs(t, err, ErrLoginInvalidTwoFACode)

	// código válido: login completo
	res, err = env.services.Login.Login(context.Background(), dto.LoginRequest{
		Email:     "alice@example.com",
		Password:  "s3cret-pass",
		TwoFACode: totp.CodeAt(raw, time.Now().UTC()),
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.NotEmpty(t, res.Token)
}

func TestLogin_TwoFANotCheckedBeforePassword(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	u := env.seedUser(t, "alice@example.com", "s3cret-pass", true)

	_, secretB32, err := totp.GenerateSecret()
	require.NoError(t, err)
	require.NoError(t, env.users.SetTOTPSecret(context.Background(), u.ID, secretB32))
	require.NoError(t, env.users.EnableTOTP(context.Background(), u.ID))

	// password incorrecta nunca llega al gate 2FA
	_, err = env.services.Login.Login(context.Background(), dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-pass",
	})
	assert.ErrorIs(t, err, ErrLoginInvalidCredentials)
}

func TestLogin_ProvisionalSecretDoesNotGate(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	u := env.seedUser(t, "alice@example.com", "s3cret-pass", true)

	// secreto guardado pero nunca confirmado: el login sigue siendo de un factor
	_, secretB32, err := totp.GenerateSecret()
	require.NoError(t, err)
	require.NoError(t, env.users.SetTOTPSecret(context.Background(), u.ID, secretB32))

	res, err := env.services.Login.Login(context.Background(), dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.False(t, res.TwoFARequired)
}

func TestLogin_AdminFallback(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	a := env.seedAdmin(t, "ops@example.com", "admin-pass")

	res, err := env.services.Login.Login(context.Background(), dto.LoginRequest{
		Email:    "ops@example.com",
		Password: "admin-pass",
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "admin", res.Role)
	assert.Equal(t, a.ID, res.User.ID)

	claims, err := env.issuer.Verify(res.Token)
	require.NoError(t, err)
	kind, err := claims.SubjectKind()
	require.NoError(t, err)
	assert.Equal(t, types.SubjectAdmin, kind)
}

func TestLogin_AdminWrongPassword(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.seedAdmin(t, "ops@example.com", "admin-pass")

	_, err := env.services.Login.Login(context.Background(), dto.LoginRequest{
		Email:    "ops@example.com",
		Password: "wrong-pass",
	})
	assert.ErrorIs(t, err, ErrLoginInvalidCredentials)
}

func TestLogin_UserTableShadowsAdmins(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	// mismo email en ambas tablas: gana users
	u := env.seedUser(t, "both@example.com", "user-pass", true)
	env.seedAdmin(t, "both@example.com", "admin-pass")

	res, err := env.services.Login.Login(context.Background(), dto.LoginRequest{
		Email:    "both@example.com",
		Password: "user-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)
	assert.Equal(t, "user", res.Role)

	// la password del admin no sirve contra el user
	_, err = env.services.Login.Login(context.Background(), dto.LoginRequest{
		Email:    "both@example.com",
		Password: "admin-pass",
	})
	assert.ErrorIs(t, err, ErrLoginInvalidCredentials)
}

func TestLogin_LastLoginFailureDoesNotBlock(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.seedUser(t, "alice@example.com", "s3cret-pass", true)
	env.users.lastLoginErr = assert.AnError

	res, err := env.services.Login.Login(context.Background(), dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
}
