package types

import (
	"encoding/xml"

	"github.com/pkg/errors"
)

// MarshalRequest encodes v as a device request document with the XML declaration.
func MarshalRequest(v interface{}) ([]byte, error) {
	body, err := xml.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal request")
	}
	return append([]byte(xml.Header), body...), nil
}
