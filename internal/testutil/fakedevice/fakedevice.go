// Package fakedevice serves a scriptable HiLink device over httptest for tests.
package fakedevice

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/eshaffer321/hilink-go/internal/types"
)

// Request is what the device saw for one call.
type Request struct {
	Method        string
	Path          string
	Token         string
	RequestedWith string
	ContentType   string
	Body          string
}

// Device is a fake HiLink device. By default the token endpoint issues
// "token-1", "token-2", ... and the root page carries a csrf_token meta tag.
type Device struct {
	Server *httptest.Server

	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	requests []Request

	tokenSeq int64
}

// New starts a device and closes it when the test ends.
func New(t *testing.T) *Device {
	t.Helper()

	d := &Device{handlers: map[string]http.HandlerFunc{}}
	d.handlers[types.TokenEndpoint] = d.issueToken
	d.handlers[types.RootPage] = func(w http.ResponseWriter, r *http.Request) {
		HTML(w, `<html><head><meta name="csrf_token" content="page-token"></head><body></body></html>`)
	}

	d.Server = httptest.NewServer(http.HandlerFunc(d.serve))
	t.Cleanup(d.Server.Close)
	return d
}

// URL returns the device base URL.
func (d *Device) URL() string {
	return d.Server.URL
}

// Handle replaces the handler for path.
func (d *Device) Handle(path string, h http.HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[path] = h
}

// Hits counts requests made to path.
func (d *Device) Hits(path string) int {
	return len(d.Requests(path))
}

// Requests returns the recorded requests to path, oldest first.
func (d *Device) Requests(path string) []Request {
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []Request
	for _, r := range d.requests {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// TokensIssued reports how many tokens the token endpoint handed out.
func (d *Device) TokensIssued() int {
	return int(atomic.LoadInt64(&d.tokenSeq))
}

func (d *Device) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	d.mu.Lock()
	d.requests = append(d.requests, Request{
		Method:        r.Method,
		Path:          r.URL.Path,
		Token:         r.Header.Get(types.TokenHeader),
		RequestedWith: r.Header.Get(types.RequestedWithKey),
		ContentType:   r.Header.Get(types.ContentTypeHeader),
		Body:          string(body),
	})
	h, ok := d.handlers[r.URL.Path]
	d.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	h(w, r)
}

func (d *Device) issueToken(w http.ResponseWriter, r *http.Request) {
	n := atomic.AddInt64(&d.tokenSeq, 1)
	XML(w, fmt.Sprintf("<response><token>token-%d</token></response>", n))
}

// XML writes an XML body with status 200.
func XML(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/xml; charset=UTF-8")
	_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?>`+body)
}

// HTML writes an HTML body with status 200.
func HTML(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/html; charset=UTF-8")
	_, _ = io.WriteString(w, body)
}

// ErrorXML returns a device error envelope.
func ErrorXML(code int) string {
	return fmt.Sprintf("<error><code>%d</code><message></message></error>", code)
}

// OK is the generic success document.
const OK = "<response>OK</response>"

// Sequence answers with each body in turn and repeats the last one.
func Sequence(bodies ...string) http.HandlerFunc {
	var i int64 = -1
	return func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&i, 1)
		if int(n) >= len(bodies) {
			n = int64(len(bodies) - 1)
		}
		XML(w, bodies[n])
	}
}

// Status answers with a bare status code.
func Status(code int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
	}
}

// LoginState returns a state-login document.
func LoginState(state, lockStatus, remainWait, passwordType string) string {
	return fmt.Sprintf(`<response><State>%s</State><username></username><password_type>%s</password_type>`+
		`<extern_password_type>1</extern_password_type><firstlogin>0</firstlogin>`+
		`<lockstatus>%s</lockstatus><remainwaittime>%s</remainwaittime></response>`,
		state, passwordType, lockStatus, remainWait)
}
