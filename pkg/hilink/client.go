// Package hilink is a client for Huawei HiLink LTE modems and routers.
package hilink

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/eshaffer321/hilink-go/internal/retry"
	"github.com/eshaffer321/hilink-go/internal/session"
	"github.com/eshaffer321/hilink-go/internal/transport"
	internalTypes "github.com/eshaffer321/hilink-go/internal/types"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	// DefaultBaseURL is the address HiLink devices answer on out of the box
	DefaultBaseURL = internalTypes.DefaultBaseURL

	// DefaultTimeout is the per-attempt HTTP timeout
	DefaultTimeout = internalTypes.DefaultTimeout

	// UserAgent is the user agent string
	UserAgent = internalTypes.UserAgent
)

// Client is the main HiLink device client
type Client struct {
	// Service interfaces
	Device     DeviceService
	Monitoring MonitoringService
	SMS        SMSService
	Network    NetworkService
	DHCP       DHCPService
	Auth       AuthService

	// Internal fields
	baseURL   string
	transport Transport
	session   *session.Manager
	options   *ClientOptions
}

// ClientOptions configures the client
type ClientOptions struct {
	// BaseURL overrides the default device address
	BaseURL string

	// HTTPClient allows using a custom HTTP client. A cookie jar is added when missing.
	HTTPClient *http.Client

	// Timeout sets the per-attempt HTTP timeout
	Timeout time.Duration

	// UserAgent overrides the User-Agent header
	UserAgent string

	// Logger for debug logging
	Logger Logger

	// RetryPolicy configures retry behavior. Nil means DefaultRetryPolicy().
	RetryPolicy *RetryPolicy

	// RateLimiter for rate limiting
	RateLimiter RateLimiter

	// Hooks for observability
	Hooks *internalTypes.Hooks

	// SentryDSN enables Sentry error tracking when set
	SentryDSN string

	// SentryOptions allows custom Sentry configuration
	SentryOptions *sentry.ClientOptions
}

// Logger interface for logging
type Logger = internalTypes.Logger

// Hooks provides lifecycle hooks for requests
type Hooks = internalTypes.Hooks

// RetryPolicy controls how often and how patiently a call is retried.
type RetryPolicy = retry.Policy

// DefaultRetryPolicy returns 3 attempts, 500ms initial delay, 30s cap, x2 backoff with jitter.
func DefaultRetryPolicy() RetryPolicy {
	return retry.DefaultPolicy()
}

// RateLimiter interface for rate limiting
type RateLimiter interface {
	Wait(ctx context.Context) error
}

// Transport performs one logical device call and returns the raw response body.
// A non-nil body makes the call a POST.
type Transport interface {
	Call(ctx context.Context, path string, body []byte, authenticated bool) ([]byte, error)
}

// NewClient creates a new HiLink client
func NewClient(opts *ClientOptions) (*Client, error) {
	if opts == nil {
		opts = &ClientOptions{}
	}

	if opts.SentryDSN != "" || opts.SentryOptions != nil {
		initSentry(opts)
	}

	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if err := validateBaseURL(opts.BaseURL); err != nil {
		return nil, err
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = transport.NewHTTPClient(DefaultTimeout)
	} else {
		transport.EnsureCookieJar(opts.HTTPClient)
	}
	if opts.Timeout > 0 {
		opts.HTTPClient.Timeout = opts.Timeout
	}

	policy := retry.DefaultPolicy()
	if opts.RetryPolicy != nil {
		policy = *opts.RetryPolicy
	}
	engine, err := retry.New(policy, retry.WithLogger(opts.Logger))
	if err != nil {
		return nil, err
	}

	pipeline, err := transport.New(&transport.Options{
		BaseURL:    opts.BaseURL,
		HTTPClient: opts.HTTPClient,
		UserAgent:  opts.UserAgent,
		Retry:      engine,
		Logger:     opts.Logger,
		Hooks:      opts.Hooks,
	})
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:   pipeline.BaseURL(),
		transport: pipeline,
		session:   pipeline.Session(),
		options:   opts,
	}
	c.initServices()

	return c, nil
}

func initSentry(opts *ClientOptions) {
	sentryOpts := sentry.ClientOptions{}
	if opts.SentryOptions != nil {
		sentryOpts = *opts.SentryOptions
	}
	if opts.SentryDSN != "" {
		sentryOpts.Dsn = opts.SentryDSN
	}
	if sentryOpts.Environment == "" {
		sentryOpts.Environment = "production"
	}

	// Sentry failures are logged, never returned.
	if err := sentry.Init(sentryOpts); err != nil && opts.Logger != nil {
		opts.Logger.Error("Failed to initialize Sentry", "error", err)
	}
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return internalTypes.NewConfigError("invalid base URL %q: %v", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return internalTypes.NewConfigError("invalid base URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return internalTypes.NewConfigError("invalid base URL %q: missing host", raw)
	}
	return nil
}

// initServices initializes all service implementations
func (c *Client) initServices() {
	if c.session == nil {
		c.session = session.NewManager(noTokenSource{}, c.options.Logger)
	}

	c.Device = &deviceService{client: c}
	c.Monitoring = &monitoringService{client: c}
	c.SMS = &smsService{client: c}
	c.Network = &networkService{client: c}
	c.DHCP = &dhcpService{client: c}
	c.Auth = newAuthService(c)
}

// noTokenSource backs the session of a client built around a bare Transport.
type noTokenSource struct{}

func (noTokenSource) Acquire(context.Context) (string, error) {
	return "", internalTypes.NewSessionError("no token source configured", nil)
}

// BaseURL returns the device address in use.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Call performs one logical call against an arbitrary endpoint and returns the
// raw response body. Device error envelopes are already turned into errors.
func (c *Client) Call(ctx context.Context, path string, body []byte, authenticated bool) ([]byte, error) {
	return c.executeCall(ctx, path, body, authenticated)
}

// Login authenticates with the device
func (c *Client) Login(ctx context.Context, username, password string) error {
	return c.Auth.Login(ctx, username, password)
}

// Logout ends the device session
func (c *Client) Logout(ctx context.Context) error {
	return c.Auth.Logout(ctx)
}

// IsAuthenticated reports whether a login succeeded and has not been undone.
func (c *Client) IsAuthenticated() bool {
	return c.session.IsAuthenticated()
}

// Username returns the user of the current session, if any.
func (c *Client) Username() string {
	return c.session.Username()
}

// SessionExpired reports whether the last login is older than maxAge.
// Unauthenticated sessions count as expired.
func (c *Client) SessionExpired(maxAge time.Duration) bool {
	return c.session.IsExpired(maxAge)
}

// executeCall runs a call through the rate limiter and the transport and
// reports terminal failures to Sentry.
func (c *Client) executeCall(ctx context.Context, path string, body []byte, authenticated bool) ([]byte, error) {
	callID := internalTypes.CallID(ctx)
	if callID == "" {
		callID = uuid.NewString()
		ctx = internalTypes.WithCallID(ctx, callID)
	}

	if c.options.RateLimiter != nil {
		if err := c.options.RateLimiter.Wait(ctx); err != nil {
			captureError(ctx, err, nil)
			return nil, errors.Wrap(err, "rate limiter")
		}
	}

	start := time.Now()
	payload, err := c.transport.Call(ctx, path, body, authenticated)
	duration := time.Since(start)

	if err != nil {
		method := http.MethodGet
		if body != nil {
			method = http.MethodPost
		}
		captureError(ctx, err, func(scope *sentry.Scope) {
			scope.SetTag("hilink.path", path)
			scope.SetTag("hilink.kind", internalTypes.KindOf(err).String())
			scope.SetTag("hilink.call_id", callID)
			scope.SetContext("hilink", map[string]interface{}{
				"method":        method,
				"authenticated": authenticated,
				"duration":      duration.String(),
			})
		})
	}

	return payload, err
}

func captureError(ctx context.Context, err error, configure func(scope *sentry.Scope)) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		if configure != nil {
			configure(scope)
		}
		hub.CaptureException(err)
	})
}

// Close flushes any pending Sentry events and performs cleanup
func (c *Client) Close() {
	sentry.Flush(2 * time.Second)
}
