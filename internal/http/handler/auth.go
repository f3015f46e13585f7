package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"agency-service/internal/auth"
	"agency-service/internal/domain/account"
	"agency-service/internal/repository"
	"agency-service/pkg/password"
)

// Pre-computed bcrypt hash (cost 12) used to equalize timing on failed lookups.
// The actual plaintext is irrelevant; verification just has to take as long
// as it does for a real account.
const dummyBcryptHash = "$2a$12$dWR5CQpS4zNHLavLSIr4o.P6QDQEUJKv7mJ7WekUHHqyRSRMJzH0S"

type AuthHandler struct {
	accountRepo repository.AccountRepository
	jwtService  *auth.JWTService
	production  bool
}

func NewAuthHandler(accountRepo repository.AccountRepository, jwtService *auth.JWTService, production bool) *AuthHandler {
	return &AuthHandler{
		accountRepo: accountRepo,
		jwtService:  jwtService,
		production:  production,
	}
}

type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	ID    string       `json:"id"`
	Email string       `json:"email"`
	Name  string       `json:"name"`
	Role  account.Role `json:"role"`
}

// Login authenticates by email or handle. An identifier containing '@' is
// treated as an email; handles are forbidden from containing '@' so the
// two namespaces cannot collide. Every failure mode returns the same
// generic 401.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	req.Identifier = strings.ToLower(strings.TrimSpace(req.Identifier))
	if req.Identifier == "" || req.Password == "" {
		password.Verify("", dummyBcryptHash)
		return respondError(c, http.StatusUnauthorized, msgInvalidCredentials)
	}

	ctx := c.Request().Context()

	var (
		acct *account.Account
		err  error
	)
	if strings.Contains(req.Identifier, "@") {
		acct, err = h.accountRepo.GetByEmail(ctx, req.Identifier)
	} else {
		acct, err = h.accountRepo.GetByHandle(ctx, req.Identifier)
	}
	if err != nil {
		// Run bcrypt against a dummy hash to prevent timing oracle.
		// Without this, "account not found" returns in ~1ms while
		// "wrong password" takes ~200ms, leaking identifier existence.
		password.Verify(req.Password, dummyBcryptHash)
		return respondError(c, http.StatusUnauthorized, msgInvalidCredentials)
	}

	if !password.Verify(req.Password, acct.PasswordHash) {
		return respondError(c, http.StatusUnauthorized, msgInvalidCredentials)
	}

	if !acct.IsActive {
		return respondError(c, http.StatusUnauthorized, msgAccountDisabled)
	}

	if err := h.accountRepo.TouchLastLogin(ctx, acct.ID); err != nil {
		c.Logger().Warnf("failed to record login time for %s: %v", acct.ID, err)
	}

	token, err := h.jwtService.Generate(acct)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, msgGenerateTokenFail)
	}

	h.setSessionCookie(c, token)

	return c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		ID:    acct.ID.String(),
		Email: acct.Email,
		Name:  acct.Name,
		Role:  acct.Role,
	})
}

// Logout clears the session cookie. The JWT itself stays valid until
// expiry; there is no server-side revocation list.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.production,
	})

	return respondMessage(c, http.StatusOK, "logged out")
}

type MeResponse struct {
	ID       string       `json:"id"`
	Email    string       `json:"email"`
	Handle   *string      `json:"handle,omitempty"`
	Name     string       `json:"name"`
	Role     account.Role `json:"role"`
	IsActive bool         `json:"is_active"`
}

// Me returns the authenticated account, re-read from storage so role or
// deactivation changes show up without waiting for token expiry.
func (h *AuthHandler) Me(c echo.Context) error {
	accountID, err := auth.GetAccountID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, err.Error())
	}

	acct, err := h.accountRepo.GetByID(c.Request().Context(), accountID)
	if err != nil {
		return respondError(c, http.StatusNotFound, msgAccountNotFound)
	}

	return c.JSON(http.StatusOK, MeResponse{
		ID:       acct.ID.String(),
		Email:    acct.Email,
		Handle:   acct.Handle,
		Name:     acct.Name,
		Role:     acct.Role,
		IsActive: acct.IsActive,
	})
}

func (h *AuthHandler) setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.jwtService.TTL()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.production,
	})
}
