package hilink

import (
	internalTypes "github.com/eshaffer321/hilink-go/internal/types"
)

// Error is the classified failure returned by every client operation.
type Error = internalTypes.Error

// Kind names a class of failure.
type Kind = internalTypes.Kind

// Error kinds
const (
	KindUnknown              = internalTypes.KindUnknown
	KindTransportError       = internalTypes.KindTransportError
	KindServerError          = internalTypes.KindServerError
	KindClientError          = internalTypes.KindClientError
	KindAuthenticationFailed = internalTypes.KindAuthenticationFailed
	KindCsrfInvalid          = internalTypes.KindCsrfInvalid
	KindSessionInvalid       = internalTypes.KindSessionInvalid
	KindSessionError         = internalTypes.KindSessionError
	KindLoginRequired        = internalTypes.KindLoginRequired
	KindInvalidUsername      = internalTypes.KindInvalidUsername
	KindInvalidPassword      = internalTypes.KindInvalidPassword
	KindInvalidCredentials   = internalTypes.KindInvalidCredentials
	KindTooManyLoginAttempts = internalTypes.KindTooManyLoginAttempts
	KindAlreadyLoggedIn      = internalTypes.KindAlreadyLoggedIn
	KindAPIError             = internalTypes.KindAPIError
	KindConfigError          = internalTypes.KindConfigError
)

var (
	// ErrTransport matches connection failures and timeouts
	ErrTransport = internalTypes.ErrTransport

	// ErrServer matches 5xx responses
	ErrServer = internalTypes.ErrServer

	// ErrClient matches unexpected 4xx responses
	ErrClient = internalTypes.ErrClient

	// ErrAuthenticationFailed matches 401 and 403 responses
	ErrAuthenticationFailed = internalTypes.ErrAuthenticationFailed

	// ErrCsrfInvalid matches a rejected CSRF token
	ErrCsrfInvalid = internalTypes.ErrCsrfInvalid

	// ErrSessionInvalid matches a rejected session token
	ErrSessionInvalid = internalTypes.ErrSessionInvalid

	// ErrSession matches a failure to obtain any token
	ErrSession = internalTypes.ErrSession

	// ErrLoginRequired is returned when the endpoint needs a logged-in session
	ErrLoginRequired = internalTypes.ErrLoginRequired

	ErrInvalidUsername      = internalTypes.ErrInvalidUsername
	ErrInvalidPassword      = internalTypes.ErrInvalidPassword
	ErrInvalidCredentials   = internalTypes.ErrInvalidCredentials
	ErrTooManyLoginAttempts = internalTypes.ErrTooManyLoginAttempts
	ErrAlreadyLoggedIn      = internalTypes.ErrAlreadyLoggedIn

	// ErrAPI matches any other device error code
	ErrAPI = internalTypes.ErrAPI

	// ErrConfig matches invalid client options
	ErrConfig = internalTypes.ErrConfig
)

// KindOf returns the kind of err, or KindUnknown when err was not classified.
func KindOf(err error) Kind {
	return internalTypes.KindOf(err)
}

// IsRetryable checks if error is retryable
func IsRetryable(err error) bool {
	return internalTypes.IsRetryable(err)
}

// IsAuthError checks if error is authentication related
func IsAuthError(err error) bool {
	return internalTypes.IsAuthError(err)
}

// IsTokenError reports whether err says the CSRF or session token went stale.
func IsTokenError(err error) bool {
	return internalTypes.IsTokenError(err)
}
