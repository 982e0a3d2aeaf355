package session

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/eshaffer321/hilink-go/internal/testutil/fakedevice"
	"github.com/eshaffer321/hilink-go/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *recordingLogger) Debug(string, ...interface{}) {}
func (l *recordingLogger) Info(string, ...interface{})  {}
func (l *recordingLogger) Error(string, ...interface{}) {}
func (l *recordingLogger) Warn(msg string, _ ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func newAcquirer(d *fakedevice.Device, logger types.Logger) *TokenAcquirer {
	return NewTokenAcquirer(d.URL()+"/", &http.Client{Timeout: 5 * time.Second}, "", logger)
}

func TestTokenAcquirer_TokenEndpoint(t *testing.T) {
	d := fakedevice.New(t)

	token, err := newAcquirer(d, nil).Acquire(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "token-1", token)
	assert.Equal(t, 0, d.Hits(types.RootPage))

	reqs := d.Requests(types.TokenEndpoint)
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodGet, reqs[0].Method)
	assert.Empty(t, reqs[0].Token, "token endpoint is unauthenticated")
}

func TestTokenAcquirer_FallsBackToRootPage(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{name: "not found", handler: fakedevice.Status(http.StatusNotFound)},
		{name: "server error", handler: fakedevice.Status(http.StatusInternalServerError)},
		{name: "missing element", handler: fakedevice.Sequence("<response><other>x</other></response>")},
		{name: "empty element", handler: fakedevice.Sequence("<response><token>  </token></response>")},
		{name: "device error", handler: fakedevice.Sequence(fakedevice.ErrorXML(types.CodeNoRights))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := fakedevice.New(t)
			d.Handle(types.TokenEndpoint, tt.handler)

			token, err := newAcquirer(d, nil).Acquire(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "page-token", token)
			assert.Equal(t, 1, d.Hits(types.RootPage))
		})
	}
}

func TestTokenAcquirer_BothStagesFail(t *testing.T) {
	d := fakedevice.New(t)
	d.Handle(types.TokenEndpoint, fakedevice.Status(http.StatusNotFound))
	d.Handle(types.RootPage, func(w http.ResponseWriter, r *http.Request) {
		fakedevice.HTML(w, `<html><head><meta name="viewport" content="width=device-width"></head></html>`)
	})

	token, err := newAcquirer(d, nil).Acquire(context.Background())
	assert.Empty(t, token)
	require.Error(t, err)

	e, ok := types.AsError(err)
	require.True(t, ok)
	assert.Equal(t, types.KindSessionError, e.Kind)
	assert.True(t, e.Retryable)
	assert.Contains(t, e.Message, "token endpoint")
	assert.Contains(t, e.Message, "root page")
}

func TestTokenAcquirer_CancelledContext(t *testing.T) {
	d := fakedevice.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newAcquirer(d, nil).Acquire(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseTokenXML(t *testing.T) {
	token, err := parseTokenXML([]byte(`<?xml version="1.0" encoding="UTF-8"?><response><token>abc123</token></response>`))
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	_, err = parseTokenXML([]byte(`<response></response>`))
	assert.Error(t, err)

	_, err = parseTokenXML([]byte(`<response><token>`))
	assert.Error(t, err)
}

func TestScrapeToken(t *testing.T) {
	long := strings.Repeat("a1B2", 8)

	tests := []struct {
		name      string
		page      string
		want      string
		heuristic bool
		wantErr   bool
	}{
		{
			name: "named meta",
			page: `<html><head><meta name="description" content="csrf decoy"><meta name="csrf_token" content="named"></head></html>`,
			want: "named",
		},
		{
			name: "named meta ignores case",
			page: `<html><head><meta name="CSRF_TOKEN" content="upper"></head></html>`,
			want: "upper",
		},
		{
			name: "first named meta wins",
			page: `<meta name="csrf_token" content="first"><meta name="csrf_token" content="second">`,
			want: "first",
		},
		{
			name: "content marker",
			page: `<html><head><meta name="x" content="` + long + `"><meta name="token" content="CSRF-abc"></head></html>`,
			want: "CSRF-abc",
		},
		{
			name:      "heuristic",
			page:      `<html><head><meta charset="utf-8"><meta name="t" content="` + long + `"></head></html>`,
			want:      long,
			heuristic: true,
		},
		{
			name:    "short alphanumeric ignored",
			page:    `<meta name="t" content="abc123">`,
			wantErr: true,
		},
		{
			name:    "long but punctuated ignored",
			page:    `<meta name="viewport" content="width=device-width, initial-scale=1.0">`,
			wantErr: true,
		},
		{
			name:    "no meta",
			page:    `<html><body>hello</body></html>`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &recordingLogger{}
			token, err := ScrapeToken(strings.NewReader(tt.page), logger)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, token)
			if tt.heuristic {
				assert.Equal(t, []string{"csrf token taken from heuristic meta match"}, logger.warns)
			} else {
				assert.Empty(t, logger.warns)
			}
		})
	}
}
