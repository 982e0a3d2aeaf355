package types

import (
	"time"
)

const (
	// DefaultBaseURL is the address HiLink devices answer on out of the box
	DefaultBaseURL = "http://192.168.8.1"

	// DefaultTimeout is the per-attempt HTTP timeout
	DefaultTimeout = 30 * time.Second

	// UserAgent is the user agent string
	UserAgent = "hilink-go/1.0.0"
)

// Device endpoints used by the request core.
const (
	TokenEndpoint      = "/api/webserver/token"
	RootPage           = "/"
	LoginStateEndpoint = "/api/user/state-login"
	LoginEndpoint      = "/api/user/login"
	LogoutEndpoint     = "/api/user/logout"
)

// Header names and values the device expects.
const (
	TokenHeader       = "__RequestVerificationToken"
	TokenHeaderOne    = "__RequestVerificationTokenone"
	TokenHeaderTwo    = "__RequestVerificationTokentwo"
	RequestedWithKey  = "X-Requested-With"
	RequestedWith     = "XMLHttpRequest"
	FormContentType   = "application/x-www-form-urlencoded; charset=UTF-8"
	ContentTypeHeader = "Content-Type"
)

// RotatedTokenHeaders lists the response headers a device may use to hand out
// a new token, in priority order.
var RotatedTokenHeaders = []string{TokenHeader, TokenHeaderOne, TokenHeaderTwo}
