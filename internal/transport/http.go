package transport

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/eshaffer321/hilink-go/internal/types"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
)

// NewHTTPClient returns a pooled client with a cookie jar. timeout applies to
// each HTTP attempt.
func NewHTTPClient(timeout time.Duration) *http.Client {
	client := cleanhttp.DefaultPooledClient()
	client.Timeout = timeout
	EnsureCookieJar(client)
	return client
}

// EnsureCookieJar gives client a jar when it has none. The device ties its
// session cookie to the token, so cookies must survive between calls.
func EnsureCookieJar(client *http.Client) {
	if client.Jar != nil {
		return
	}
	// cookiejar.New only fails on a bad PublicSuffixList, and we pass none.
	jar, _ := cookiejar.New(nil)
	client.Jar = jar
}

// newRetryClient wraps httpClient for single-shot use. Attempts are owned by
// the retry engine.
func newRetryClient(httpClient *http.Client, logger types.Logger) *retryablehttp.Client {
	rc := retryablehttp.NewClient()
	rc.HTTPClient = httpClient
	rc.RetryMax = 0
	rc.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		return false, nil
	}
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = nil
	if logger != nil {
		rc.Logger = &retryLogger{logger: logger}
	}
	return rc
}

// retryLogger adapts our logger to retryablehttp
type retryLogger struct {
	logger types.Logger
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, keysAndValues...)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, keysAndValues...)
}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, keysAndValues...)
}
