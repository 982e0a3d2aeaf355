package session

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/eshaffer321/hilink-go/internal/types"
	"github.com/pkg/errors"
)

// maxPageSize bounds how much of a token or root page response is read.
const maxPageSize = 1 << 20

// HTTPDoer sends a single HTTP request. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenAcquirer discovers a CSRF token, first from the token endpoint and then
// by scraping the device's root page.
type TokenAcquirer struct {
	baseURL   string
	client    HTTPDoer
	userAgent string
	logger    types.Logger
}

// NewTokenAcquirer creates an acquirer for the device at baseURL.
func NewTokenAcquirer(baseURL string, client HTTPDoer, userAgent string, logger types.Logger) *TokenAcquirer {
	if userAgent == "" {
		userAgent = types.UserAgent
	}
	return &TokenAcquirer{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    client,
		userAgent: userAgent,
		logger:    types.LoggerOrNop(logger),
	}
}

// Acquire returns a non-empty token or a session error. A failure of the first
// stage is logged and falls through to the second.
func (a *TokenAcquirer) Acquire(ctx context.Context) (string, error) {
	token, apiErr := a.fromTokenEndpoint(ctx)
	if apiErr == nil {
		return token, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	a.logger.Debug("token endpoint unusable, scraping root page", "error", apiErr)

	token, pageErr := a.fromRootPage(ctx)
	if pageErr == nil {
		return token, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	return "", types.NewSessionError(
		fmt.Sprintf("no csrf token available (token endpoint: %v; root page: %v)", apiErr, pageErr), nil)
}

func (a *TokenAcquirer) fromTokenEndpoint(ctx context.Context) (string, error) {
	body, err := a.get(ctx, types.TokenEndpoint)
	if err != nil {
		return "", err
	}
	return parseTokenXML(body)
}

func (a *TokenAcquirer) fromRootPage(ctx context.Context) (string, error) {
	body, err := a.get(ctx, types.RootPage)
	if err != nil {
		return "", err
	}
	return ScrapeToken(bytes.NewReader(body), a.logger)
}

func (a *TokenAcquirer) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set(types.RequestedWithKey, types.RequestedWith)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Errorf("GET %s returned status %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return body, nil
}

// parseTokenXML returns the text of the first <token> element in body.
func parseTokenXML(body []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return "", errors.New("no <token> element in response")
		}
		if err != nil {
			return "", errors.Wrap(err, "failed to parse token response")
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "token" {
			continue
		}

		var value string
		if err := dec.DecodeElement(&value, &start); err != nil {
			return "", errors.Wrap(err, "failed to parse token element")
		}
		value = strings.TrimSpace(value)
		if value == "" {
			return "", errors.New("empty <token> element")
		}
		return value, nil
	}
}
