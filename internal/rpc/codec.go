// Package rpc defines the sync service spoken between the reminder
// client and the backend: hand-encoded protowire messages behind a
// named codec, so both ends share one wire format without generated
// code.
package rpc

import (
	"fmt"

	"google.golang.org/grpc/encoding"
)

const codecName = "reminderwire"

// wireMessage is implemented by every message in this package.
type wireMessage interface {
	marshalWire() []byte
	unmarshalWire(data []byte) error
}

// wireCodec marshals through the messages' own protowire routines.
type wireCodec struct{}

func (wireCodec) Marshal(v any) ([]byte, error) {
	m, ok := v.(wireMessage)
	if !ok {
		return nil, fmt.Errorf("rpc: cannot marshal %T", v)
	}
	return m.marshalWire(), nil
}

func (wireCodec) Unmarshal(data []byte, v any) error {
	m, ok := v.(wireMessage)
	if !ok {
		return fmt.Errorf("rpc: cannot unmarshal into %T", v)
	}
	return m.unmarshalWire(data)
}

func (wireCodec) Name() string { return codecName }

func init() {
	// server side resolves the codec by content-subtype
	encoding.RegisterCodec(wireCodec{})
}
