package cognito

import (
	"errors"
	"net/http"

	"github.com/aws/smithy-go"
)

// Sentinel errors for identity-provider operations.
var (
	ErrUserAlreadyExists     = errors.New("user already exists")
	ErrUserNotFound          = errors.New("user not found")
	ErrUserNotConfirmed      = errors.New("user not confirmed")
	ErrUserDisabled          = errors.New("user disabled")
	ErrInvalidPassword       = errors.New("invalid password")
	ErrInvalidCode           = errors.New("invalid code")
	ErrCodeExpired           = errors.New("code expired")
	ErrTooManyRequests       = errors.New("too many requests")
	ErrNotAuthorized         = errors.New("not authorized")
	ErrLimitExceeded         = errors.New("limit exceeded")
	ErrPasswordResetRequired = errors.New("password reset required")
	ErrInvalidParameter      = errors.New("invalid parameter")
)

// ErrorInfo maps a sentinel error to its HTTP status, machine code, and the
// fixed human-readable message shown inline near the triggering form.
type ErrorInfo struct {
	Status  int
	Code    string
	Message string
}

var errorMap = map[error]ErrorInfo{
	ErrUserAlreadyExists:     {Status: 409, Code: "USER_ALREADY_EXISTS", Message: "Email already in use."},
	ErrUserNotFound:          {Status: 404, Code: "USER_NOT_FOUND", Message: "User not found."},
	ErrUserNotConfirmed:      {Status: 403, Code: "USER_NOT_CONFIRMED", Message: "Account not confirmed yet."},
	ErrUserDisabled:          {Status: 403, Code: "USER_DISABLED", Message: "Account disabled."},
	ErrInvalidPassword:       {Status: 400, Code: "INVALID_PASSWORD", Message: "Weak password."},
	ErrInvalidCode:           {Status: 400, Code: "INVALID_CODE", Message: "Invalid confirmation code."},
	ErrCodeExpired:           {Status: 400, Code: "CODE_EXPIRED", Message: "Confirmation code expired."},
	ErrTooManyRequests:       {Status: 429, Code: "TOO_MANY_REQUESTS", Message: "Too many attempts. Try again later."},
	ErrNotAuthorized:         {Status: 401, Code: "NOT_AUTHORIZED", Message: "Wrong password."},
	ErrLimitExceeded:         {Status: 429, Code: "LIMIT_EXCEEDED", Message: "Too many attempts. Try again later."},
	ErrPasswordResetRequired: {Status: 403, Code: "PASSWORD_RESET_REQUIRED", Message: "Password reset required."},
	ErrInvalidParameter:      {Status: 400, Code: "INVALID_PARAMETER", Message: "Invalid email."},
}

// LookupError matches err against the known sentinels. A provider error
// with no sentinel mapping falls back to the raw backend message so the
// client still sees what the provider said. The second return is false only
// for errors that did not come from the provider at all.
func LookupError(err error) (ErrorInfo, bool) {
	for sentinel, info := range errorMap {
		if errors.Is(err, sentinel) {
			return info, true
		}
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return ErrorInfo{
			Status:  http.StatusBadRequest,
			Code:    "AUTH_ERROR",
			Message: apiErr.ErrorMessage(),
		}, true
	}

	return ErrorInfo{}, false
}
