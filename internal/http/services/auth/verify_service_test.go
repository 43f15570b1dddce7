package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyEmail_HappyPath(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	u := env.seedUser(t, "alice@example.com", "s3cret-pass", false)
	require.NotNil(t, u.VerificationToken)
	token := *u.VerificationToken

	resp, err := env.services.Verify.VerifyEmail(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "Email verified successfully. You can now log in.", resp.Message)

	stored, err := env.users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.True(t, stored.Verified)
	assert.Nil(t, stored.VerificationToken)
}

func TestVerifyEmail_ConsumedTokenCannotBeReused(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	u := env.seedUser(t, "alice@example.com", "s3cret-pass", false)
	token := *u.VerificationToken

	_, err := env.services.Verify.VerifyEmail(context.Background(), token)
	require.NoError(t, err)

	// el token se limpió al verificar: un segundo redeem es un token inválido
	_, err = env.services.Verify.VerifyEmail(context.Background(), token)
	assert.ErrorIs(t, err, ErrVerifyInvalidToken)
}

func TestVerifyEmail_AlreadyVerifiedWithPendingToken(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	u := env.seedUser(t, "alice@example.com", "s3cret-pass", false)
	token := *u.VerificationToken

	// verified=true con el token todavía presente en la fila
	env.users.mu.Lock()
	env.users.users[u.ID].Verified = true
	env.users.mu.Unlock()

	resp, err := env.services.Verify.VerifyEmail(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "Email already verified. You can now log in.", resp.Message)
}

func TestVerifyEmail_BadToken(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.seedUser(t, "alice@example.com", "s3cret-pass", false)

	_, err := env.services.Verify.VerifyEmail(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, ErrVerifyInvalidToken)

	_, err = env.services.Verify.VerifyEmail(context.Background(), "")
	assert.ErrorIs(t, err, ErrVerifyInvalidToken)
}
