// Package rpcjson is a connect codec that carries plain Go structs as JSON.
package rpcjson

import (
	"bytes"
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// Name is registered under the same name as connect's built-in JSON codec so
// that clients sending application/json are served by this one.
const Name = "json"

// Codec marshals messages with encoding/json and rejects unknown fields.
type Codec struct{}

var _ connect.Codec = Codec{}

func (Codec) Name() string {
	return Name
}

func (Codec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", msg, err)
	}
	return data, nil
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		data = []byte("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(msg); err != nil {
		return fmt.Errorf("unmarshal %T: %w", msg, err)
	}
	return nil
}

// WithCodec is the handler and client option that installs Codec.
func WithCodec() connect.Option {
	return connect.WithCodec(Codec{})
}
