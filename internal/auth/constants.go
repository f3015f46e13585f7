package auth

const (
	ContextKeyAccountID = "account_id"
	ContextKeyRole      = "role"
	ContextKeyEmail     = "email"

	SessionCookieName = "agency_session"

	headerAuthorization = "Authorization"
	bearerScheme        = "bearer"
	authHeaderParts     = 2

	msgUnexpectedSigningMethod = "unexpected signing method: %v"
	msgTokenParseFailed        = "failed to parse token: %w"
	msgInvalidTokenClaims      = "invalid token claims"

	msgMissingSession      = "authentication required"
	msgInvalidOrExpiredTok = "invalid or expired session"
	msgMissingRoleClaim    = "session carries no role"
	msgNotAuthenticatedCtx = "account not authenticated"
	msgInvalidAccountIDCtx = "invalid account id in context"
	msgInvalidRoleCtx      = "invalid role in context"
	msgAdminOnly           = "administrator role required"
)
