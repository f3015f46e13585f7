package auth

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"agency-service/internal/domain/account"
	apperrors "agency-service/pkg/errors"
)

type Middleware struct {
	jwtService *JWTService
}

func NewMiddleware(jwtService *JWTService) *Middleware {
	return &Middleware{jwtService: jwtService}
}

// RequireSession authenticates the request from the Authorization header
// or the session cookie. A missing token, a bad token and a token without
// a role claim are distinct failures: 401, 401 and 403 respectively.
func (m *Middleware) RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractSessionToken(c)
			if token == "" {
				return respondError(c, http.StatusUnauthorized, msgMissingSession)
			}

			claims, err := m.jwtService.Verify(token)
			if err != nil {
				return respondError(c, http.StatusUnauthorized, msgInvalidOrExpiredTok)
			}

			if !claims.Role.Valid() {
				return respondError(c, http.StatusForbidden, msgMissingRoleClaim)
			}

			c.Set(ContextKeyAccountID, claims.AccountID)
			c.Set(ContextKeyRole, claims.Role)
			c.Set(ContextKeyEmail, claims.Email)

			return next(c)
		}
	}
}

// RequireAdmin must be chained after RequireSession.
func (m *Middleware) RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, err := GetRole(c)
			if err != nil {
				return respondError(c, http.StatusUnauthorized, msgNotAuthenticatedCtx)
			}

			if role != account.RoleAdmin {
				return respondError(c, http.StatusForbidden, msgAdminOnly)
			}

			return next(c)
		}
	}
}

func extractSessionToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(headerAuthorization)
	if authHeader != "" {
		parts := strings.Fields(authHeader)
		if len(parts) == authHeaderParts && strings.ToLower(parts[0]) == bearerScheme {
			return parts[1]
		}
		return ""
	}

	cookie, err := c.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}

	return cookie.Value
}

func GetAccountID(c echo.Context) (uuid.UUID, error) {
	accountID := c.Get(ContextKeyAccountID)
	if accountID == nil {
		return uuid.Nil, apperrors.Unauthenticated(msgNotAuthenticatedCtx)
	}

	id, ok := accountID.(uuid.UUID)
	if !ok {
		return uuid.Nil, apperrors.InternalServer(msgInvalidAccountIDCtx, nil)
	}

	return id, nil
}

func GetRole(c echo.Context) (account.Role, error) {
	role := c.Get(ContextKeyRole)
	if role == nil {
		return "", apperrors.Unauthenticated(msgNotAuthenticatedCtx)
	}

	r, ok := role.(account.Role)
	if !ok {
		return "", apperrors.InternalServer(msgInvalidRoleCtx, nil)
	}

	return r, nil
}

func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"error": message})
}
