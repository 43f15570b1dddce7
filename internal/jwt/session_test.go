package jwt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/secaware/internal/domain/types"
)

func newTestIssuer(t *testing.T) *Issuer {
	t.Helper()
	iss, err := NewIssuer("secaware", []byte("test-secret-0123456789abcdef0123"))
	require.NoError(t, err)
	return iss
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	t.Parallel()
	iss := newTestIssuer(t)

	tok, exp, err := iss.Issue("user-123", types.RoleUser, types.SubjectUser)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(SessionTTL), exp, 5*time.Second)

	claims, err := iss.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.SubjectID())
	assert.Equal(t, "user", claims.Role)

	kind, err := claims.SubjectKind()
	require.NoError(t, err)
	assert.Equal(t, types.SubjectUser, kind)
}

func TestIssueVerify_AdminKind(t *testing.T) {
	t.Parallel()
	iss := newTestIssuer(t)

	tok, _, err := iss.Issue("admin-9", types.RoleAdmin, types.SubjectAdmin)
	require.NoError(t, err)

	claims, err := iss.Verify(tok)
	require.NoError(t, err)
	kind, err := claims.SubjectKind()
	require.NoError(t, err)
	assert.Equal(t, types.SubjectAdmin, kind)
	assert.Equal(t, "admin", claims.Role)
}

func TestVerify_TamperedSignature(t *testing.T) {
	t.Parallel()
	iss := newTestIssuer(t)

	tok, _, err := iss.Issue("user-123", types.RoleUser, types.SubjectUser)
	require.NoError(t, err)

	// flip un byte de la firma
	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = iss.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()
	iss := newTestIssuer(t)

	past := time.Now().Add(-25 * time.Hour)
	iss.WithClock(func() time.Time { return past })
	tok, _, err := iss.Issue("user-123", types.RoleUser, types.SubjectUser)
	require.NoError(t, err)

	iss.WithClock(time.Now)
	_, err = iss.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	t.Parallel()
	iss := newTestIssuer(t)

	for _, raw := range []string{"", "abc", "a.b.c", "....."} {
		_, err := iss.Verify(raw)
		assert.ErrorIs(t, err, ErrInvalidToken, "input %q", raw)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()
	a := newTestIssuer(t)
	b, err := NewIssuer("secaware", []byte("another-secret-entirely-000000000"))
	require.NoError(t, err)

	tok, _, err := a.Issue("user-123", types.RoleUser, types.SubjectUser)
	require.NoError(t, err)
	_, err = b.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewIssuer_EmptySecret(t *testing.T) {
	t.Parallel()
	_, err := NewIssuer("secaware", nil)
	assert.Error(t, err)
}
