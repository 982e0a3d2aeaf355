package types

import (
	"bytes"
	"encoding/xml"
	"strconv"
	"strings"
)

// DeviceFailure is the content of an <error> envelope.
type DeviceFailure struct {
	Code    int
	Message string
}

// Outcome is the result of inspecting one response body. Failure is nil on success.
type Outcome struct {
	Payload []byte
	Failure *DeviceFailure
}

// Err classifies the failure, or returns nil for a successful outcome.
func (o Outcome) Err() error {
	if o.Failure == nil {
		return nil
	}
	return FromDeviceCode(o.Failure.Code, o.Failure.Message)
}

type errorEnvelope struct {
	XMLName xml.Name
	Code    string `xml:"code"`
	Message string `xml:"message"`
}

// ParseOutcome looks for an <error><code>..</code></error> envelope in body.
// Bodies that are not such an envelope, including non-XML ones, are successes.
func ParseOutcome(body []byte) Outcome {
	if !bytes.Contains(body, []byte("<error")) || !bytes.Contains(body, []byte("<code>")) {
		return Outcome{Payload: body}
	}

	var env errorEnvelope
	if err := xml.Unmarshal(body, &env); err != nil || env.XMLName.Local != "error" {
		return Outcome{Payload: body}
	}

	code, _ := strconv.Atoi(strings.TrimSpace(env.Code))
	return Outcome{
		Payload: body,
		Failure: &DeviceFailure{Code: code, Message: strings.TrimSpace(env.Message)},
	}
}

// Response is the generic result document returned by mutating endpoints:
// either <response>OK</response> or <response><ErrorCode>..</ErrorCode></response>.
type Response struct {
	XMLName      xml.Name `xml:"response"`
	Text         string   `xml:",chardata"`
	OK           *string  `xml:"OK"`
	ErrorCode    string   `xml:"ErrorCode"`
	ErrorMessage string   `xml:"ErrorMessage"`
}

// Success reports whether the response carries no error code.
func (r *Response) Success() bool {
	code := strings.TrimSpace(r.ErrorCode)
	return r.OK != nil || code == "" || code == "0"
}

// CheckResponse decodes a generic result document and classifies a non-zero
// ErrorCode. An empty body counts as success.
func CheckResponse(body []byte) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	var resp Response
	if err := xml.Unmarshal(body, &resp); err != nil {
		return &Error{Kind: KindAPIError, Message: "unexpected response document", Err: err}
	}
	if resp.Success() {
		return nil
	}

	code, err := strconv.Atoi(strings.TrimSpace(resp.ErrorCode))
	if err != nil {
		return &Error{Kind: KindAPIError, Message: "unexpected error code " + resp.ErrorCode}
	}
	return FromDeviceCode(code, strings.TrimSpace(resp.ErrorMessage))
}
