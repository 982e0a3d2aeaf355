package hilink

import (
	"context"
	"encoding/xml"

	internalTypes "github.com/eshaffer321/hilink-go/internal/types"
)

// callerFunc lets the client's executeCall serve as an auth.Caller.
type callerFunc func(ctx context.Context, path string, body []byte, authenticated bool) ([]byte, error)

func (f callerFunc) Call(ctx context.Context, path string, body []byte, authenticated bool) ([]byte, error) {
	return f(ctx, path, body, authenticated)
}

// Do performs one call against path and hands the response body to parse.
// A nil request makes it a GET; otherwise request is encoded as the XML body.
func Do[T any](ctx context.Context, c *Client, path string, request interface{}, authenticated bool, parse func([]byte) (*T, error)) (*T, error) {
	var body []byte
	if request != nil {
		var err error
		if body, err = internalTypes.MarshalRequest(request); err != nil {
			return nil, err
		}
	}

	payload, err := c.executeCall(ctx, path, body, authenticated)
	if err != nil {
		return nil, err
	}
	return parse(payload)
}

// fetch decodes the response document into a new T.
func fetch[T any](ctx context.Context, c *Client, path string, req interface{}, authenticated bool) (*T, error) {
	return Do(ctx, c, path, req, authenticated, func(payload []byte) (*T, error) {
		var out T
		if err := xml.Unmarshal(payload, &out); err != nil {
			return nil, &Error{Kind: KindAPIError, Message: "unexpected response document from " + path, Err: err}
		}
		return &out, nil
	})
}

// mutate posts req and checks the generic result document.
func (c *Client) mutate(ctx context.Context, path string, req interface{}) error {
	body, err := internalTypes.MarshalRequest(req)
	if err != nil {
		return err
	}

	payload, err := c.executeCall(ctx, path, body, true)
	if err != nil {
		return err
	}
	return internalTypes.CheckResponse(payload)
}
