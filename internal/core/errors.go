// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnavailable  = errors.New("service unavailable")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// AppError is the single error shape the console surfaces to clients.
// Fields carries backend field-level validation messages when present;
// Redirect instructs the client to navigate (401 handling).
type AppError struct {
	Status   int
	Code     string
	Message  string
	Fields   map[string][]string
	Redirect string
	Err      error
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

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return &AppError{
		Status:  http.StatusUnauthorized,
		Code:    "UNAUTHORIZED",
		Message: message,
		Err:     ErrUnauthorized,
	}
}

// SessionExpiredError forces a client-side navigation to the login
// screen, mirroring the backend 401 interceptor behavior.
func SessionExpiredError() *AppError {
	return &AppError{
		Status:   http.StatusUnauthorized,
		Code:     "SESSION_EXPIRED",
		Message:  "session expirée, veuillez vous reconnecter",
		Redirect: "/login",
		Err:      ErrUnauthorized,
	}
}

func ForbiddenError(message string) *AppError {
	if message == "" {
		message = "insufficient permissions"
	}
	return &AppError{
		Status:  http.StatusForbidden,
		Code:    "FORBIDDEN",
		Message: message,
		Err:     ErrForbidden,
	}
}

func NotFoundError(resource string) *AppError {
	return &AppError{
		Status:  http.StatusNotFound,
		Code:    "NOT_FOUND",
		Message: resource + " not found",
		Err:     ErrNotFound,
	}
}

func ValidationError(message string, fields map[string][]string) *AppError {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    "VALIDATION_ERROR",
		Message: message,
		Fields:  fields,
		Err:     ErrInvalidInput,
	}
}

// BusinessRuleError covers client-side rule rejections (edit window not
// elapsed, member not found, member not entitled). Same channel as
// validation errors, computed before any backend call.
func BusinessRuleError(message string) *AppError {
	return &AppError{
		Status:  http.StatusUnprocessableEntity,
		Code:    "BUSINESS_RULE",
		Message: message,
		Err:     ErrInvalidInput,
	}
}

func BackendUnavailableError(err error) *AppError {
	return &AppError{
		Status:  http.StatusBadGateway,
		Code:    "BACKEND_UNAVAILABLE",
		Message: "le serveur MODEP est injoignable",
		Err:     errors.Join(ErrUnavailable, err),
	}
}

// ProxyError maps the cross-cutting failures every proxied backend
// call can hit: an expired backend session becomes a login redirect,
// an unreachable backend becomes a 502. Anything else passes through.
func ProxyError(err error) error {
	if errors.Is(err, ErrUnauthorized) {
		return SessionExpiredError()
	}
	if errors.Is(err, ErrUnavailable) {
		return BackendUnavailableError(err)
	}
	return err
}

func TokenExpiredError() *AppError {
	return &AppError{
		Status:  http.StatusUnauthorized,
		Code:    "TOKEN_EXPIRED",
		Message: "session token expired",
		Err:     ErrTokenExpired,
	}
}

func TokenInvalidError() *AppError {
	return &AppError{
		Status:  http.StatusUnauthorized,
		Code:    "TOKEN_INVALID",
		Message: "session token invalid",
		Err:     ErrTokenInvalid,
	}
}

func FormatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request"
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf(
			"%s: failed on %s",
			strings.ToLower(fe.Field()),
			fe.Tag(),
		))
	}

	return strings.Join(parts, " | ")
}
