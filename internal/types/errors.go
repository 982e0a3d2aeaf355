package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind identifies an entry in the closed error taxonomy surfaced to callers.
type Kind int

const (
	KindUnknown Kind = iota
	KindTransportError
	KindServerError
	KindClientError
	KindAuthenticationFailed
	KindCsrfInvalid
	KindSessionInvalid
	KindSessionError
	KindLoginRequired
	KindInvalidUsername
	KindInvalidPassword
	KindInvalidCredentials
	KindTooManyLoginAttempts
	KindAlreadyLoggedIn
	KindAPIError
	KindConfigError
)

var kindNames = map[Kind]string{
	KindUnknown:              "unknown error",
	KindTransportError:       "transport error",
	KindServerError:          "server error",
	KindClientError:          "client error",
	KindAuthenticationFailed: "authentication failed",
	KindCsrfInvalid:          "csrf token invalid",
	KindSessionInvalid:       "session token invalid",
	KindSessionError:         "session error",
	KindLoginRequired:        "login required",
	KindInvalidUsername:      "invalid username",
	KindInvalidPassword:      "invalid password",
	KindInvalidCredentials:   "invalid credentials",
	KindTooManyLoginAttempts: "too many login attempts",
	KindAlreadyLoggedIn:      "already logged in",
	KindAPIError:             "api error",
	KindConfigError:          "config error",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the single error type produced by the request core. Retryable is
// decided by whoever constructs the value and is never recomputed.
type Error struct {
	Kind       Kind          `json:"kind"`
	Code       int           `json:"code,omitempty"`
	StatusCode int           `json:"statusCode,omitempty"`
	Message    string        `json:"message,omitempty"`
	Retryable  bool          `json:"retryable"`
	WaitTime   time.Duration `json:"waitTime,omitempty"`
	Replayed   bool          `json:"replayed,omitempty"`
	Err        error         `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Code != 0 {
		fmt.Fprintf(&b, " (code %d)", e.Code)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.WaitTime > 0 {
		fmt.Fprintf(&b, " (retry in %s)", e.WaitTime)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind, and by device code when the target sets one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Code == 0 || t.Code == e.Code
}

// Kind sentinels for errors.Is.
var (
	ErrTransport            = &Error{Kind: KindTransportError}
	ErrServer               = &Error{Kind: KindServerError}
	ErrClient               = &Error{Kind: KindClientError}
	ErrAuthenticationFailed = &Error{Kind: KindAuthenticationFailed}
	ErrCsrfInvalid          = &Error{Kind: KindCsrfInvalid}
	ErrSessionInvalid       = &Error{Kind: KindSessionInvalid}
	ErrSession              = &Error{Kind: KindSessionError}
	ErrLoginRequired        = &Error{Kind: KindLoginRequired}
	ErrInvalidUsername      = &Error{Kind: KindInvalidUsername}
	ErrInvalidPassword      = &Error{Kind: KindInvalidPassword}
	ErrInvalidCredentials   = &Error{Kind: KindInvalidCredentials}
	ErrTooManyLoginAttempts = &Error{Kind: KindTooManyLoginAttempts}
	ErrAlreadyLoggedIn      = &Error{Kind: KindAlreadyLoggedIn}
	ErrAPI                  = &Error{Kind: KindAPIError}
	ErrConfig               = &Error{Kind: KindConfigError}
)

// NewConfigError reports a construction-time problem.
func NewConfigError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConfigError, Message: fmt.Sprintf(format, args...)}
}

// NewSessionError reports a failure to obtain a usable token.
func NewSessionError(message string, cause error) *Error {
	return &Error{Kind: KindSessionError, Message: message, Retryable: true, Err: cause}
}

// AsError extracts the taxonomy error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the taxonomy kind of err, or KindUnknown.
func KindOf(err error) Kind {
	if e, ok := AsError(err); ok {
		return e.Kind
	}
	return KindUnknown
}

// IsRetryable reports the flag recorded when err was classified. Errors outside
// the taxonomy are never retried.
func IsRetryable(err error) bool {
	if e, ok := AsError(err); ok {
		return e.Retryable
	}
	return false
}

// IsTokenError reports whether err says the CSRF or session token went stale.
func IsTokenError(err error) bool {
	switch KindOf(err) {
	case KindCsrfInvalid, KindSessionInvalid:
		return true
	}
	return false
}

// IsAuthError checks if error is authentication related
func IsAuthError(err error) bool {
	switch KindOf(err) {
	case KindAuthenticationFailed, KindLoginRequired, KindInvalidUsername,
		KindInvalidPassword, KindInvalidCredentials, KindTooManyLoginAttempts:
		return true
	}
	return false
}
