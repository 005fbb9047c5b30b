// Package apiconnect wires the sharebook messages to Connect handlers and
// clients.
package apiconnect

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// jsonCodec marshals plain Go messages with encoding/json. It replaces the
// protobuf based codecs connect ships with.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	return json.Unmarshal(data, msg)
}

// WithJSON makes a client or handler speak the JSON codec. The constructors
// of this package apply it automatically.
func WithJSON() connect.Option {
	return connect.WithCodec(jsonCodec{})
}
