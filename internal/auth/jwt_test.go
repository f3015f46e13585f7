package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agency-service/internal/domain/account"
)

var testSecret = strings.Repeat("it-is-a-secret-", 3)

func testAccount() *account.Account {
	handle := "sam"
	return &account.Account{
		ID:       uuid.New(),
		Email:    "sam@agency.example",
		Handle:   &handle,
		Name:     "Sam Smith",
		Role:     account.RoleStaff,
		IsActive: true,
	}
}

func TestGenerateAndVerifyRoundTrip(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)
	acct := testAccount()

	token, err := svc.Generate(acct)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, acct.ID, claims.AccountID)
	assert.Equal(t, acct.Email, claims.Email)
	assert.Equal(t, account.RoleStaff, claims.Role)
	assert.Equal(t, "sam", claims.Handle)
	assert.Equal(t, acct.ID.String(), claims.Subject)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTService(testSecret, time.Hour).Generate(testAccount())
	require.NoError(t, err)

	_, err = NewJWTService(strings.Repeat("another-secret-", 3), time.Hour).Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	svc := NewJWTService(testSecret, -time.Minute)

	token, err := svc.Generate(testAccount())
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := NewJWTService(testSecret, time.Hour).Verify("not.a.token")
	assert.Error(t, err)
}
