package core

import "errors"

// ErrorKind tags an Error with the failure class the transport layer maps
// to an HTTP status.
type ErrorKind string

const (
	// KindValidation marks malformed or missing input; the caller's fault.
	KindValidation ErrorKind = "ValidationError"

	// KindAuthentication marks a missing, malformed, expired or
	// signature-invalid credential.
	KindAuthentication ErrorKind = "AuthenticationError"

	// KindService marks a business-rule or storage-layer failure.
	KindService ErrorKind = "ServiceError"
)

// Stable machine-readable error codes shared with clients.
const (
	CodeUserExist       = "auth/user-exist"
	CodeInvalid         = "auth/invalid"
	CodeUnauthorized    = "auth/unauthorized"
	CodeUnauthenticated = "auth/unauthenticated"
	CodeExpired         = "auth/expired"
)

// Error is the single error variant crossing module boundaries: a kind, a
// stable code, and a human message. It never carries a stack trace and is
// safe to serialize to clients as-is.
type Error struct {
	Kind    ErrorKind `json:"name"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

// Is matches Errors by kind and code so errors.Is works against freshly
// constructed instances, not only the shared values below.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// NewValidationError returns a caller-fault input error.
func NewValidationError(code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

// NewAuthenticationError returns a credential failure.
func NewAuthenticationError(code, message string) *Error {
	return &Error{Kind: KindAuthentication, Code: code, Message: message}
}

// NewServiceError returns a business-rule or storage failure.
func NewServiceError(code, message string) *Error {
	return &Error{Kind: KindService, Code: code, Message: message}
}

// Shared error values. Login failures reuse a single value so "no such
// account" and "wrong password" are indistinguishable to clients.
var (
	// ErrUserExists is returned when a registration collides with an
	// existing username or email.
	ErrUserExists = NewServiceError(CodeUserExist, "Username or email already exist.")

	// ErrInvalidCredentials covers absent accounts and failed password
	// verification alike.
	ErrInvalidCredentials = NewServiceError(CodeInvalid, "Username and password doesn't exist.")

	// ErrSessionInvalid is returned when a refresh token no longer matches
	// the server-side session version, or the session record is gone.
	ErrSessionInvalid = NewServiceError(CodeInvalid, "Refresh token doesn't exist.")

	// ErrUnauthorized is returned when the bearer credential is missing or
	// malformed before any verification runs.
	ErrUnauthorized = NewAuthenticationError(CodeUnauthorized, "Not authorized.")

	// ErrUnauthenticated is returned on any token verification failure
	// other than expiry.
	ErrUnauthenticated = NewAuthenticationError(CodeUnauthenticated, "Not authenticated.")

	// ErrTokenExpired is returned when an access token is past its expiry,
	// distinguished so clients can trigger a silent refresh.
	ErrTokenExpired = NewAuthenticationError(CodeExpired, "Authorization token expired.")
)

// KindOf returns the kind of err, or "" when err is not a core Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// CodeOf returns the stable code of err, or "" when err is not a core Error.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
