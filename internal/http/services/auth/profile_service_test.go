package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/secaware/internal/domain/types"
)

func TestProfile_UserKind(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	u := env.seedUser(t, "alice@example.com", "s3cret-pass", true)

	resp, err := env.services.Profile.Profile(context.Background(), u.ID, types.SubjectUser)
	require.NoError(t, err)
	assert.Equal(t, u.ID, resp.User.ID)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.Equal(t, types.RoleUser, resp.User.Role)
}

func TestProfile_AdminKind(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	a := env.seedAdmin(t, "ops@example.com", "admin-pass")

	resp, err := env.services.Profile.Profile(context.Background(), a.ID, types.SubjectAdmin)
	require.NoError(t, err)
	assert.Equal(t, a.ID, resp.User.ID)
	assert.Equal(t, types.RoleAdmin, resp.User.Role)
}

func TestProfile_KindSelectsTable(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	u := env.seedUser(t, "alice@example.com", "s3cret-pass", true)

	// un ID de user con kind admin no debe resolver
	_, err := env.services.Profile.Profile(context.Background(), u.ID, types.SubjectAdmin)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestProfile_Gone(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	_, err := env.services.Profile.Profile(context.Background(), "deleted-id", types.SubjectUser)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}
