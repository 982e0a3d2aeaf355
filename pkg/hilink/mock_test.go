package hilink

import (
	"context"
	"strings"

	"github.com/stretchr/testify/mock"
)

// MockTransport is a mock implementation of the Transport interface
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Call(ctx context.Context, path string, body []byte, authenticated bool) ([]byte, error) {
	args := m.Called(ctx, path, body, authenticated)

	var payload []byte
	if args.Get(0) != nil {
		payload = []byte(args.Get(0).(string))
	}
	return payload, args.Error(1)
}

func newMockClient() (*Client, *MockTransport) {
	mockTransport := new(MockTransport)
	client := &Client{
		transport: mockTransport,
		options:   &ClientOptions{},
		baseURL:   "http://192.168.8.1",
	}
	client.initServices()
	return client, mockTransport
}

// bodyContains matches a request body holding every fragment.
func bodyContains(fragments ...string) interface{} {
	return mock.MatchedBy(func(body []byte) bool {
		for _, f := range fragments {
			if !strings.Contains(string(body), f) {
				return false
			}
		}
		return true
	})
}
