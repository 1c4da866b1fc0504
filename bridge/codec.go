package bridge

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// cborEncMode holds CBOR encoding options with canonical mode for
// deterministic encoding.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("bridge: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// EncodeJSON serializes an envelope for a websocket text frame.
func EncodeJSON(e Envelope) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("bridge: marshal envelope: %w", err)
	}
	return data, nil
}

// DecodeJSON deserializes an envelope from a text frame.
func DecodeJSON(data []byte) (Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return Envelope{}, fmt.Errorf("bridge: unmarshal envelope: %w", err)
	}
	if e.Type == "" {
		return Envelope{}, fmt.Errorf("bridge: envelope has no type")
	}
	return e, nil
}

// EncodeBinary serializes an envelope to canonical CBOR for a binary
// frame. The payload stays JSON; only the envelope framing is CBOR.
func EncodeBinary(e Envelope) ([]byte, error) {
	data, err := cborEncMode.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("bridge: marshal envelope: %w", err)
	}
	return data, nil
}

// DecodeBinary deserializes an envelope from a binary frame.
func DecodeBinary(data []byte) (Envelope, error) {
	var e Envelope
	if err := cbor.Unmarshal(data, &e); err != nil {
		return Envelope{}, fmt.Errorf("bridge: unmarshal envelope: %w", err)
	}
	if e.Type == "" {
		return Envelope{}, fmt.Errorf("bridge: envelope has no type")
	}
	return e, nil
}
