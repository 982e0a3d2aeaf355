package types

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
)

// Device error codes carried in <error><code> payloads.
const (
	CodeSystemUnknown          = 100001
	CodeSystemNoSupport        = 100002
	CodeNoRights               = 100003
	CodeSystemBusy             = 100004
	CodeFormatError            = 100005
	CodeUsernameWrong          = 108001
	CodePasswordWrong          = 108002
	CodeAlreadyLoggedIn        = 108003
	CodeUsernameOrPasswordBad  = 108006
	CodeTooManyLoginAttempts   = 108007
	CodePasswordChangeRequired = 115002
	CodeWrongToken             = 125001
	CodeCsrfTokenInvalid       = 125002
	CodeWrongSessionToken      = 125003
)

type deviceCode struct {
	kind      Kind
	retryable bool
	text      string
}

var deviceCodes = map[int]deviceCode{
	CodeWrongToken:             {KindCsrfInvalid, true, "Wrong token"},
	CodeCsrfTokenInvalid:       {KindCsrfInvalid, true, "CSRF token invalid"},
	CodeWrongSessionToken:      {KindSessionInvalid, true, "Wrong session token"},
	CodeUsernameWrong:          {KindInvalidUsername, false, "Username wrong"},
	CodePasswordWrong:          {KindInvalidPassword, false, "Password wrong"},
	CodeAlreadyLoggedIn:        {KindAlreadyLoggedIn, false, "Already logged in"},
	CodeUsernameOrPasswordBad:  {KindInvalidCredentials, false, "Username or password wrong"},
	CodeTooManyLoginAttempts:   {KindTooManyLoginAttempts, false, "Too many login attempts"},
	CodeNoRights:               {KindLoginRequired, false, "No rights (login required)"},
	CodeSystemBusy:             {KindAPIError, true, "System busy"},
	CodeSystemUnknown:          {KindAPIError, false, "System unknown error"},
	CodeSystemNoSupport:        {KindAPIError, false, "System does not support this operation"},
	CodeFormatError:            {KindAPIError, false, "Format error"},
	CodePasswordChangeRequired: {KindAPIError, false, "Password change required"},
}

// FromDeviceCode classifies a device payload error code. An empty message is
// replaced by the documented meaning of the code when one is known.
func FromDeviceCode(code int, message string) *Error {
	known, ok := deviceCodes[code]
	if !ok {
		if message == "" {
			message = fmt.Sprintf("device error %d", code)
		}
		return &Error{Kind: KindAPIError, Code: code, Message: message}
	}
	if message == "" {
		message = known.text
	}
	return &Error{
		Kind:      known.kind,
		Code:      code,
		Message:   message,
		Retryable: known.retryable,
	}
}

// FromStatus classifies an HTTP status code. It returns nil for 2xx.
func FromStatus(status int) *Error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &Error{Kind: KindAuthenticationFailed, StatusCode: status, Message: http.StatusText(status)}
	case status >= 500:
		return &Error{Kind: KindServerError, StatusCode: status, Message: statusDescription(status), Retryable: true}
	case status >= 400:
		return &Error{Kind: KindClientError, StatusCode: status, Message: http.StatusText(status)}
	default:
		return &Error{Kind: KindClientError, StatusCode: status, Message: "unexpected status"}
	}
}

// FromTransport classifies a failure to get any HTTP response at all. A
// cancelled or expired caller context is handed back as is so retry loops stop.
func FromTransport(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	// The retryablehttp policy already knows which url.Error causes (bad
	// certificates, unsupported schemes, redirect loops) are permanent.
	retryable, _ := retryablehttp.DefaultRetryPolicy(ctx, nil, err)

	msg := "request failed"
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		msg = "request timed out"
	}

	return &Error{Kind: KindTransportError, Message: msg, Retryable: retryable, Err: err}
}

// statusDescription returns a human-readable description for server-side statuses.
func statusDescription(status int) string {
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "server error"
}
