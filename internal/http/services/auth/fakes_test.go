package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/secaware/internal/domain/repository"
	"github.com/dropDatabas3/secaware/internal/domain/types"
	jwtx "github.com/dropDatabas3/secaware/internal/jwt"
	"github.com/dropDatabas3/secaware/internal/security/password"
)

// fakeUserRepo es un UserRepository en memoria con la misma semántica que
// la implementación pg: unicidad case-insensitive de email, updates de una
// sola fila, MarkVerified idempotente.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*types.User // por ID

	// hooks para forzar fallos puntuales
	createErr    error
	lastLoginErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*types.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, in repository.CreateUserInput) (*types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, u := range r.users {
		if strings.EqualFold(u.Email, in.Email) {
			return nil, repository.ErrDuplicateEmail
		}
	}
	tok := in.VerificationToken
	u := &types.User{
		ID:                uuid.NewString(),
		Email:             in.Email,
		DisplayName:       in.DisplayName,
		PasswordHash:      in.PasswordHash,
		Verified:          false,
		VerificationToken: &tok,
		Role:              types.RoleUser,
		CreatedAt:         time.Now(),
	}
	r.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByVerificationToken(_ context.Context, token string) (*types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.VerificationToken != nil && *u.VerificationToken == token {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) ListAll(_ context.Context) ([]types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]types.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) MarkVerified(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Verified = true
	u.VerificationToken = nil
	return nil
}

func (r *fakeUserRepo) SetTOTPSecret(_ context.Context, id, secretB32 string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.TOTPSecret = &secretB32
	u.TOTPEnabled = false
	return nil
}

func (r *fakeUserRepo) EnableTOTP(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.TOTPEnabled = true
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastLoginErr != nil {
		return r.lastLoginErr
	}
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	now := time.Now()
	u.LastLoginAt = &now
	return nil
}

// fakeAdminRepo es un AdminRepository en memoria.
type fakeAdminRepo struct {
	mu     sync.Mutex
	admins map[string]*types.Admin
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: map[string]*types.Admin{}}
}

func (r *fakeAdminRepo) Create(_ context.Context, in repository.CreateAdminInput) (*types.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := &types.Admin{
		ID:           uuid.NewString(),
		Email:        in.Email,
		DisplayName:  in.DisplayName,
		PasswordHash: in.PasswordHash,
		Role:         types.RoleAdmin,
		CreatedAt:    time.Now(),
	}
	r.admins[a.ID] = a
	cp := *a
	return &cp, nil
}

func (r *fakeAdminRepo) GetByID(_ context.Context, id string) (*types.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.admins[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAdminRepo) GetByEmail(_ context.Context, email string) (*types.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if strings.EqualFold(a.Email, email) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeAdminRepo) UpdateLastLogin(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.admins[id]
	if !ok {
		return repository.ErrNotFound
	}
	now := time.Now()
	a.LastLoginAt = &now
	return nil
}

func (r *fakeAdminRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.admins), nil
}

// recordingMailer captura el último envío; puede fallar a demanda.
type recordingMailer struct {
	mu       sync.Mutex
	to       string
	token    string
	sent     int
	failWith error
}

func (m *recordingMailer) SendVerification(to, _, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.to = to
	m.token = token
	m.sent++
	return nil
}

var errMailDown = errors.New("smtp: connection refused")

// testEnv arma un set completo de services sobre los fakes.
type testEnv struct {
	users    *fakeUserRepo
	admins   *fakeAdminRepo
	mailer   *recordingMailer
	issuer   *jwtx.Issuer
	hasher   *password.Hasher
	services Services
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	issuer, err := jwtx.NewIssuer("secaware", []byte("test-secret-0123456789abcdef0123"))
	require.NoError(t, err)

	env := &testEnv{
		users:  newFakeUserRepo(),
		admins: newFakeAdminRepo(),
		mailer: &recordingMailer{},
		issuer: issuer,
		hasher: password.NewHasher(2),
	}
	env.services = NewServices(Deps{
		Users:      env.users,
		Admins:     env.admins,
		Issuer:     issuer,
		Hasher:     env.hasher,
		Mailer:     env.mailer,
		TOTPIssuer: "Security Awareness",
	})
	return env
}

// seedUser crea un usuario directamente en el repo con password ya hasheada.
func (e *testEnv) seedUser(t *testing.T, email, pass string, verified bool) *types.User {
	t.Helper()
	digest, err := e.hasher.Hash(context.Background(), pass)
	require.NoError(t, err)

	u, err := e.users.Create(context.Background(), repository.CreateUserInput{
		Email:             email,
		DisplayName:       strings.SplitN(email, "@", 2)[0],
		PasswordHash:      digest,
		VerificationToken: "tok-" + uuid.NewString(),
	})
	require.NoError(t, err)
	if verified {
		require.NoError(t, e.users.MarkVerified(context.Background(), u.ID))
	}
	got, err := e.users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	return got
}

func (e *testEnv) seedAdmin(t *testing.T, email, pass string) *types.Admin {
	t.Helper()
	digest, err := e.hasher.Hash(context.Background(), pass)
	require.NoError(t, err)

	a, err := e.admins.Create(context.Background(), repository.CreateAdminInput{
		Email:        email,
		DisplayName:  "ops",
		PasswordHash: digest,
	})
	require.NoError(t, err)
	return a
}
