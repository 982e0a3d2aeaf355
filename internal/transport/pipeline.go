// Package transport executes logical device calls: token handling, HTTP
// attempts, error classification and the refresh-and-replay cycle.
package transport

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/eshaffer321/hilink-go/internal/retry"
	"github.com/eshaffer321/hilink-go/internal/session"
	"github.com/eshaffer321/hilink-go/internal/types"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
)

const maxBodySize = 4 << 20

// Options for the request pipeline
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string
	Headers    map[string]string
	Retry      *retry.Engine
	Logger     types.Logger
	Hooks      *types.Hooks
}

// Pipeline runs logical calls against one device. It is safe for concurrent use.
type Pipeline struct {
	baseURL     string
	retryClient *retryablehttp.Client
	headers     map[string]string
	session     *session.Manager
	engine      *retry.Engine
	logger      types.Logger
	hooks       *types.Hooks
}

// New builds a pipeline with its own session manager.
func New(opts *Options) (*Pipeline, error) {
	if opts == nil {
		opts = &Options{}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = types.DefaultBaseURL
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = NewHTTPClient(types.DefaultTimeout)
	}

	engine := opts.Retry
	if engine == nil {
		var err error
		if engine, err = retry.New(retry.DefaultPolicy(), retry.WithLogger(opts.Logger)); err != nil {
			return nil, err
		}
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = types.UserAgent
	}

	headers := map[string]string{
		"User-Agent":           userAgent,
		types.RequestedWithKey: types.RequestedWith,
	}
	for k, v := range opts.Headers {
		headers[k] = v
	}

	logger := types.LoggerOrNop(opts.Logger)
	retryClient := newRetryClient(httpClient, opts.Logger)
	acquirer := session.NewTokenAcquirer(baseURL, retryClient.StandardClient(), userAgent, logger)

	return &Pipeline{
		baseURL:     baseURL,
		retryClient: retryClient,
		headers:     headers,
		session:     session.NewManager(acquirer, logger),
		engine:      engine,
		logger:      logger,
		hooks:       opts.Hooks,
	}, nil
}

// Session exposes the pipeline's session manager.
func (p *Pipeline) Session() *session.Manager {
	return p.session
}

// BaseURL returns the device base URL without a trailing slash.
func (p *Pipeline) BaseURL() string {
	return p.baseURL
}

// Call performs one logical call and returns the raw response body. A non-nil
// body makes it a POST. The token is sent when the call is authenticated or
// mutating, and a stale token is refreshed and the call replayed once.
func (p *Pipeline) Call(ctx context.Context, path string, body []byte, authenticated bool) ([]byte, error) {
	callID := types.CallID(ctx)
	if callID == "" {
		callID = uuid.NewString()
	}
	withToken := authenticated || body != nil

	payload, err := p.exchange(ctx, callID, path, body, withToken)
	if err != nil && types.IsTokenError(err) {
		if withToken {
			payload, err = p.refreshAndReplay(ctx, callID, path, body, err)
		} else {
			p.session.Invalidate()
		}
	}

	if err != nil && p.hooks != nil && p.hooks.OnError != nil {
		p.hooks.OnError(ctx, err)
	}
	return payload, err
}

func (p *Pipeline) refreshAndReplay(ctx context.Context, callID, path string, body []byte, cause error) ([]byte, error) {
	p.logger.Info("token rejected, refreshing", "call_id", callID, "path", path, "error", cause)

	p.session.Invalidate()
	if _, err := retry.Do(ctx, p.engine, p.session.ForceRefresh); err != nil {
		return nil, err
	}

	payload, err := p.exchange(ctx, callID, path, body, true)
	if err == nil {
		return payload, nil
	}
	if !types.IsTokenError(err) {
		return nil, err
	}

	// A second rejection ends the call.
	e, _ := types.AsError(err)
	return nil, &types.Error{
		Kind:     e.Kind,
		Code:     e.Code,
		Message:  e.Message + " after token refresh",
		Replayed: true,
		Err:      e.Err,
	}
}

// exchange sends the request under the retry engine and inspects each
// payload for a device error envelope. Retryable device errors such as system
// busy are retried by the engine; token errors leave the loop at once so the
// caller can refresh and replay.
func (p *Pipeline) exchange(ctx context.Context, callID, path string, body []byte, withToken bool) ([]byte, error) {
	var tokenErr error
	payload, err := retry.Do(ctx, p.engine, func(ctx context.Context) ([]byte, error) {
		tokenErr = nil
		respBody, err := p.send(ctx, callID, path, body, withToken)
		if err != nil {
			return nil, err
		}
		if err := types.ParseOutcome(respBody).Err(); err != nil {
			p.logger.Debug("device returned error", "call_id", callID, "path", path, "error", err)
			if types.IsTokenError(err) {
				tokenErr = err
				return nil, nil
			}
			return nil, err
		}
		return respBody, nil
	})
	if err != nil {
		return nil, err
	}
	if tokenErr != nil {
		return nil, tokenErr
	}
	return payload, nil
}

// send performs a single HTTP attempt.
func (p *Pipeline) send(ctx context.Context, callID, path string, body []byte, withToken bool) ([]byte, error) {
	var token string
	if withToken {
		var err error
		if token, err = p.session.GetToken(ctx); err != nil {
			return nil, err
		}
	}

	method := http.MethodGet
	var rawBody interface{}
	if body != nil {
		method = http.MethodPost
		rawBody = body
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, p.baseURL+path, rawBody)
	if err != nil {
		return nil, types.NewConfigError("invalid request for %s: %v", path, err)
	}

	for k, v := range p.headers {
		req.Header.Set(k, v)
	}
	if body != nil {
		req.Header.Set(types.ContentTypeHeader, types.FormContentType)
	}
	if token != "" {
		// set directly so the header keeps the exact case the device expects
		req.Header[types.TokenHeader] = []string{token}
	}

	if p.hooks != nil && p.hooks.OnRequest != nil {
		p.hooks.OnRequest(ctx, req.Request)
	}

	p.logger.Debug("HiLink request", "call_id", callID, "method", method, "path", path, "token", token != "")

	start := time.Now()
	resp, err := p.retryClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		return nil, types.FromTransport(ctx, err)
	}
	defer resp.Body.Close()

	if p.hooks != nil && p.hooks.OnResponse != nil {
		p.hooks.OnResponse(ctx, resp, duration)
	}

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, types.FromTransport(ctx, errors.Wrap(err, "failed to read response"))
	}

	p.logger.Debug("HiLink response", "call_id", callID, "status", resp.StatusCode, "duration", duration, "size", len(respBody))

	if statusErr := types.FromStatus(resp.StatusCode); statusErr != nil {
		if statusErr.Kind == types.KindAuthenticationFailed {
			p.session.Invalidate()
		}
		return nil, statusErr
	}

	if p.session.UpdateFromHeaders(resp.Header) {
		p.logger.Debug("token rotated by device", "call_id", callID)
	}
	return respBody, nil
}
