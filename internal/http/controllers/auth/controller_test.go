package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/secaware/internal/domain/types"
	dto "github.com/dropDatabas3/secaware/internal/http/dto/auth"
	"github.com/dropDatabas3/secaware/internal/http/middlewares"
	svc "github.com/dropDatabas3/secaware/internal/http/services/auth"
	jwtx "github.com/dropDatabas3/secaware/internal/jwt"
)

// ── stubs de services ──

type stubRegister struct {
	resp *dto.RegisterResponse
	err  error
}

func (s stubRegister) Register(context.Context, dto.RegisterRequest) (*dto.RegisterResponse, error) {
	return s.resp, s.err
}

type stubLogin struct {
	result *dto.LoginResult
	err    error
}

func (s stubLogin) Login(context.Context, dto.LoginRequest) (*dto.LoginResult, error) {
	return s.result, s.err
}

type stubVerify struct {
	resp *dto.MessageResponse
	err  error
}

func (s stubVerify) VerifyEmail(context.Context, string) (*dto.MessageResponse, error) {
	return s.resp, s.err
}

type stubTwoFA struct {
	enable  *dto.EnableTwoFAResponse
	confirm *dto.MessageResponse
	err     error
	gotUser string
}

func (s *stubTwoFA) Enable(_ context.Context, userID string) (*dto.EnableTwoFAResponse, error) {
	s.gotUser = userID
	return s.enable, s.err
}

func (s *stubTwoFA) Confirm(_ context.Context, userID, _ string) (*dto.MessageResponse, error) {
	s.gotUser = userID
	return s.confirm, s.err
}

type stubProfile struct {
	resp    *dto.ProfileResponse
	err     error
	gotKind types.SubjectKind
}

func (s *stubProfile) Profile(_ context.Context, _ string, kind types.SubjectKind) (*dto.ProfileResponse, error) {
	s.gotKind = kind
	return s.resp, s.err
}

func testIssuer(t *testing.T) *jwtx.Issuer {
	t.Helper()
	iss, err := jwtx.NewIssuer("secaware", []byte("test-secret-0123456789abcdef0123"))
	require.NoError(t, err)
	return iss
}

func mountAuth(t *testing.T, services svc.Services) (*chi.Mux, *jwtx.Issuer) {
	t.Helper()
	issuer := testIssuer(t)
	r := chi.NewRouter()
	ctrl := NewController(services, middlewares.RequireSession(issuer), nil, nil)
	r.Route("/api/auth", ctrl.Register)
	return r, issuer
}

func doJSON(r http.Handler, method, path, body, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// ── tests ──

func TestRegisterEndpoint_Created(t *testing.T) {
	t.Parallel()
	r, _ := mountAuth(t, svc.Services{Register: stubRegister{resp: &dto.RegisterResponse{
		Message:   "User registered successfully. Please check your email to verify your account.",
		User:      types.PublicUser{ID: "u1", DisplayName: "alice", Email: "alice@example.com", Role: types.RoleUser},
		Token:     "jwt-token",
		Role:      "user",
		EmailSent: true,
	}}})

	rec := doJSON(r, http.MethodPost, "/api/auth/register",
		`{"username":"alice","email":"alice@example.com","password":"s3cret-pass"}`, "")

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var got dto.RegisterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "u1", got.User.ID)
	assert.Equal(t, "jwt-token", got.Token)
	assert.True(t, got.EmailSent)

	// el JSON expone display name como "username"
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
}

func TestRegisterEndpoint_Conflict(t *testing.T) {
	t.Parallel()
	r, _ := mountAuth(t, svc.Services{Register: stubRegister{err: svc.ErrRegisterEmailTaken}})

	rec := doJSON(r, http.MethodPost, "/api/auth/register",
		`{"username":"bob","email":"bob@example.com","password":"s3cret-pass"}`, "")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email already registered")
}

func TestRegisterEndpoint_WeakPassword(t *testing.T) {
	t.Parallel()
	r, _ := mountAuth(t, svc.Services{Register: stubRegister{err: svc.ErrRegisterWeakPassword}})

	rec := doJSON(r, http.MethodPost, "/api/auth/register",
		`{"username":"bob","email":"bob@example.com","password":"short"}`, "")

	// mismo contrato que el frontend original: validación de password es 400
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Password must be at least 6 characters long.")
}

func TestRegisterEndpoint_BadJSON(t *testing.T) {
	t.Parallel()
	r, _ := mountAuth(t, svc.Services{Register: stubRegister{}})

	rec := doJSON(r, http.MethodPost, "/api/auth/register", `{not json`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginEndpoint_Success(t *testing.T) {
	t.Parallel()
	r, _ := mountAuth(t, svc.Services{Login: stubLogin{result: &dto.LoginResult{
		Success: true,
		Token:   "jwt-token",
		User:    types.PublicUser{ID: "u1", DisplayName: "alice", Email: "alice@example.com", Role: types.RoleUser},
		Role:    "user",
	}}})

	rec := doJSON(r, http.MethodPost, "/api/auth/login",
		`{"email":"alice@example.com","password":"s3cret-pass"}`, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var got dto.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Login successful", got.Message)
	assert.Equal(t, "jwt-token", got.Token)
}

func TestLoginEndpoint_StepUpIs206(t *testing.T) {
	t.Parallel()
	r, _ := mountAuth(t, svc.Services{Login: stubLogin{result: &dto.LoginResult{TwoFARequired: true}}})

	rec := doJSON(r, http.MethodPost, "/api/auth/login",
		`{"email":"alice@example.com","password":"s3cret-pass"}`, "")

	assert.Equal(t, http.StatusPartialContent, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	var got dto.TwoFARequiredResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "2FA code required", got.Error)
	assert.True(t, got.TwoFARequired)
	// nunca hay token en el step-up
	assert.NotContains(t, rec.Body.String(), "token")
}

func TestLoginEndpoint_ErrorMapping(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"invalid credentials", svc.ErrLoginInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{"unverified", svc.ErrLoginEmailNotVerified, http.StatusForbidden, "Please verify your email before logging in"},
		{"bad 2fa code", svc.ErrLoginInvalidTwoFACode, http.StatusUnauthorized, "Invalid 2FA code"},
		{"missing fields", svc.ErrLoginMissingFields, http.StatusBadRequest, "All fields are required."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := mountAuth(t, svc.Services{Login: stubLogin{err: tc.err}})
			rec := doJSON(r, http.MethodPost, "/api/auth/login",
				`{"email":"a@b.com","password":"x"}`, "")
			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.wantBody)
		})
	}
}

func TestLoginEndpoint_Bad2FAFlagsStepUp(t *testing.T) {
	t.Parallel()
	r, _ := mountAuth(t, svc.Services{Login: stubLogin{err: svc.ErrLoginInvalidTwoFACode}})

	rec := doJSON(r, http.MethodPost, "/api/auth/login",
		`{"email":"a@b.com","password":"x","twofa_code":"000000"}`, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"twofa_required":true`)
}

func TestVerifyEmailEndpoint(t *testing.T) {
	t.Parallel()
	r, _ := mountAuth(t, svc.Services{Verify: stubVerify{resp: &dto.MessageResponse{
		Message: "Email verified successfully. You can now log in.",
	}}})

	rec := doJSON(r, http.MethodGet, "/api/auth/verify-email?token=tok-1", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email verified successfully")
}

func TestVerifyEmailEndpoint_BadToken(t *testing.T) {
	t.Parallel()
	r, _ := mountAuth(t, svc.Services{Verify: stubVerify{err: svc.ErrVerifyInvalidToken}})

	rec := doJSON(r, http.MethodGet, "/api/auth/verify-email?token=used", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid or expired verification token.")
}

func TestProtectedEndpoints_RequireBearer(t *testing.T) {
	t.Parallel()
	r, _ := mountAuth(t, svc.Services{TwoFA: &stubTwoFA{}, Profile: &stubProfile{}})

	for _, req := range []struct{ method, path string }{
		{http.MethodPost, "/api/auth/2fa/enable"},
		{http.MethodPost, "/api/auth/2fa/verify"},
		{http.MethodGet, "/api/auth/profile"},
	} {
		rec := doJSON(r, req.method, req.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, req.path)

		rec = doJSON(r, req.method, req.path, "", "not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, req.path)
	}
}

func TestTwoFAEnableEndpoint(t *testing.T) {
	t.Parallel()
	twofa := &stubTwoFA{enable: &dto.EnableTwoFAResponse{
		Secret:     "JBSWY3DPEHPK3PXP",
		OTPAuthURL: "otpauth://totp/Security%20Awareness:alice@example.com?secret=JBSWY3DPEHPK3PXP",
	}}
	r, issuer := mountAuth(t, svc.Services{TwoFA: twofa})

	tok, _, err := issuer.Issue("u1", types.RoleUser, types.SubjectUser)
	require.NoError(t, err)

	rec := doJSON(r, http.MethodPost, "/api/auth/2fa/enable", "", tok)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", twofa.gotUser)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Body.String(), `"secret":"JBSWY3DPEHPK3PXP"`)
}

func TestTwoFAVerifyEndpoint_BadCode(t *testing.T) {
	t.Parallel()
	r, issuer := mountAuth(t, svc.Services{TwoFA: &stubTwoFA{err: svc.ErrTwoFABadCode}})

	tok, _, err := issuer.Issue("u1", types.RoleUser, types.SubjectUser)
	require.NoError(t, err)

	// código malo confirmando el enrolamiento: 400, no el 401 del login
	rec := doJSON(r, http.MethodPost, "/api/auth/2fa/verify", `{"code":"000000"}`, tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid code")
}

func TestProfileEndpoint_UsesTokenKind(t *testing.T) {
	t.Parallel()
	profile := &stubProfile{resp: &dto.ProfileResponse{
		User: types.PublicUser{ID: "a1", DisplayName: "ops", Email: "ops@example.com", Role: types.RoleAdmin},
	}}
	r, issuer := mountAuth(t, svc.Services{Profile: profile})

	tok, _, err := issuer.Issue("a1", types.RoleAdmin, types.SubjectAdmin)
	require.NoError(t, err)

	rec := doJSON(r, http.MethodGet, "/api/auth/profile", "", tok)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, types.SubjectAdmin, profile.gotKind)
	assert.Contains(t, rec.Body.String(), `"role":"admin"`)
}
