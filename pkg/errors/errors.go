package errors

import (
	"errors"
	"fmt"
)

// Domain errors - Sentinel errors for use with errors.Is()
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrForbidden          = errors.New("forbidden")
	ErrBadRequest         = errors.New("bad request")
	ErrConflict           = errors.New("resource already exists")
	ErrInternalServer     = errors.New("internal server error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("validation error")
	ErrInvalidArtifact    = errors.New("artifact rejected by upload policy")
	ErrAlreadySubmitted   = errors.New("submission already recorded")
	ErrLinkUnusable       = errors.New("link not found, expired, or inactive")
)

// Custom error type with context
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Constructors
func NotFound(msg string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: msg, Err: ErrNotFound}
}

func Unauthenticated(msg string) *AppError {
	return &AppError{Code: "UNAUTHENTICATED", Message: msg, Err: ErrUnauthenticated}
}

func InvalidToken(msg string) *AppError {
	return &AppError{Code: "INVALID_TOKEN", Message: msg, Err: ErrInvalidToken}
}

func Forbidden(msg string) *AppError {
	return &AppError{Code: "FORBIDDEN", Message: msg, Err: ErrForbidden}
}

func BadRequest(msg string) *AppError {
	return &AppError{Code: "BAD_REQUEST", Message: msg, Err: ErrBadRequest}
}

func Conflict(msg string) *AppError {
	return &AppError{Code: "CONFLICT", Message: msg, Err: ErrConflict}
}

func InternalServer(msg string, err error) *AppError {
	if err == nil {
		err = ErrInternalServer
	}
	return &AppError{Code: "INTERNAL_SERVER_ERROR", Message: msg, Err: err}
}

func InvalidCredentials() *AppError {
	return &AppError{Code: "INVALID_CREDENTIALS", Message: "invalid credentials", Err: ErrInvalidCredentials}
}

func Validation(msg string) *AppError {
	return &AppError{Code: "VALIDATION_ERROR", Message: msg, Err: ErrValidation}
}

func InvalidArtifact(msg string) *AppError {
	return &AppError{Code: "INVALID_ARTIFACT", Message: msg, Err: ErrInvalidArtifact}
}

func AlreadySubmitted() *AppError {
	return &AppError{Code: "ALREADY_SUBMITTED", Message: "a submission has already been recorded for this candidate", Err: ErrAlreadySubmitted}
}

// LinkUnusable deliberately conflates missing, expired and deactivated
// links so the public surface never reveals which check failed.
func LinkUnusable() *AppError {
	return &AppError{Code: "LINK_UNUSABLE", Message: "link not found, expired, or inactive", Err: ErrLinkUnusable}
}
