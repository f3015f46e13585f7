package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agency-service/internal/auth"
	"agency-service/internal/domain/account"
	apperrors "agency-service/pkg/errors"
	"agency-service/pkg/password"
)

type fakeAccountRepo struct {
	accounts     map[uuid.UUID]*account.Account
	loginTouched []uuid.UUID
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: map[uuid.UUID]*account.Account{}}
}

func (f *fakeAccountRepo) Create(_ context.Context, input account.CreateAccountInput) (*account.Account, error) {
	for _, a := range f.accounts {
		if a.Email == input.Email {
			return nil, apperrors.Conflict("email already exists")
		}
	}
	a := &account.Account{
		ID:           uuid.New(),
		Email:        input.Email,
		Handle:       input.Handle,
		PasswordHash: input.PasswordHash,
		Name:         input.Name,
		Role:         input.Role,
		IsActive:     true,
	}
	f.accounts[a.ID] = a
	return a, nil
}

func (f *fakeAccountRepo) GetByID(_ context.Context, id uuid.UUID) (*account.Account, error) {
	a, ok := f.accounts[id]
	if !ok {
		return nil, apperrors.NotFound("account not found")
	}
	return a, nil
}

func (f *fakeAccountRepo) GetByEmail(_ context.Context, email string) (*account.Account, error) {
	for _, a := range f.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, apperrors.NotFound("account not found")
}

func (f *fakeAccountRepo) GetByHandle(_ context.Context, handle string) (*account.Account, error) {
	for _, a := range f.accounts {
		if a.Handle != nil && *a.Handle == handle {
			return a, nil
		}
	}
	return nil, apperrors.NotFound("account not found")
}

func (f *fakeAccountRepo) List(_ context.Context) ([]*account.Account, error) {
	out := make([]*account.Account, 0, len(f.accounts))
	for _, a := range f.accounts {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAccountRepo) Update(_ context.Context, id uuid.UUID, input account.UpdateAccountInput) error {
	a, ok := f.accounts[id]
	if !ok {
		return apperrors.NotFound("account not found")
	}
	if input.Name != nil {
		a.Name = *input.Name
	}
	if input.Role != nil {
		a.Role = *input.Role
	}
	if input.IsActive != nil {
		a.IsActive = *input.IsActive
	}
	if input.PasswordHash != nil {
		a.PasswordHash = *input.PasswordHash
	}
	return nil
}

func (f *fakeAccountRepo) TouchLastLogin(_ context.Context, id uuid.UUID) error {
	f.loginTouched = append(f.loginTouched, id)
	return nil
}

const testPassword = "correct-horse-battery"

func seedAccount(t *testing.T, repo *fakeAccountRepo, email, handle string, role account.Role) *account.Account {
	t.Helper()

	hash, err := password.Hash(testPassword)
	require.NoError(t, err)

	var handlePtr *string
	if handle != "" {
		handlePtr = &handle
	}

	a, err := repo.Create(context.Background(), account.CreateAccountInput{
		Email:        email,
		Handle:       handlePtr,
		PasswordHash: hash,
		Name:         "Test Person",
		Role:         role,
	})
	require.NoError(t, err)
	return a
}

func loginContext(body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestLoginWithEmail(t *testing.T) {
	repo := newFakeAccountRepo()
	seeded := seedAccount(t, repo, "ana@agency.example", "", account.RoleAdmin)

	jwtService := auth.NewJWTService(strings.Repeat("s3cret-", 6), time.Hour)
	h := NewAuthHandler(repo, jwtService, false)

	c, rec := loginContext(`{"identifier":"ana@agency.example","password":"` + testPassword + `"}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, seeded.ID.String(), resp.ID)
	assert.Equal(t, account.RoleAdmin, resp.Role)

	claims, err := jwtService.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, claims.AccountID)

	assert.Contains(t, repo.loginTouched, seeded.ID)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.SessionCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.False(t, cookies[0].Secure, "secure only in production")
}

func TestLoginWithHandle(t *testing.T) {
	repo := newFakeAccountRepo()
	seeded := seedAccount(t, repo, "bo@agency.example", "bo.admin", account.RoleStaff)

	h := NewAuthHandler(repo, auth.NewJWTService(strings.Repeat("s3cret-", 6), time.Hour), false)

	c, rec := loginContext(`{"identifier":"bo.admin","password":"` + testPassword + `"}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, seeded.ID.String(), resp.ID)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	repo := newFakeAccountRepo()
	seedAccount(t, repo, "cat@agency.example", "cat", account.RoleStaff)

	inactive := seedAccount(t, repo, "off@agency.example", "", account.RoleStaff)
	inactive.IsActive = false

	h := NewAuthHandler(repo, auth.NewJWTService(strings.Repeat("s3cret-", 6), time.Hour), false)

	cases := map[string]string{
		"unknown identifier": `{"identifier":"nobody@agency.example","password":"whatever123"}`,
		"wrong password":     `{"identifier":"cat@agency.example","password":"wrong-password"}`,
		"unknown handle":     `{"identifier":"ghost","password":"whatever123"}`,
		"inactive account":   `{"identifier":"off@agency.example","password":"` + testPassword + `"}`,
		"empty password":     `{"identifier":"cat@agency.example","password":""}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c, rec := loginContext(body)
			require.NoError(t, h.Login(c))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), msgInvalidCredentials)
		})
	}
}

func TestLoginRejectsUnknownFields(t *testing.T) {
	repo := newFakeAccountRepo()
	h := NewAuthHandler(repo, auth.NewJWTService(strings.Repeat("s3cret-", 6), time.Hour), false)

	c, rec := loginContext(`{"identifier":"x@y.example","password":"p","extra":true}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMeReflectsStoredAccount(t *testing.T) {
	repo := newFakeAccountRepo()
	seeded := seedAccount(t, repo, "dee@agency.example", "dee", account.RoleStaff)

	h := NewAuthHandler(repo, auth.NewJWTService(strings.Repeat("s3cret-", 6), time.Hour), false)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(auth.ContextKeyAccountID, seeded.ID)
	c.Set(auth.ContextKeyRole, seeded.Role)

	require.NoError(t, h.Me(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp MeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "dee@agency.example", resp.Email)
	require.NotNil(t, resp.Handle)
	assert.Equal(t, "dee", *resp.Handle)
}
