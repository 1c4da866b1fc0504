// Package bridge carries events between the web content and the native
// adapter layer over a local websocket.
package bridge

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Envelope is the wire format for every bridge message, in both
// directions. Payload is always JSON; the envelope itself travels either
// as a JSON text frame or a canonical CBOR binary frame.
type Envelope struct {
	ID      string          `json:"id" cbor:"id"`
	Type    string          `json:"type" cbor:"type"`
	Payload json.RawMessage `json:"payload,omitempty" cbor:"payload,omitempty"`
}

// Message types sent by the native side.
const (
	TypeSelect     = "select"
	TypeMenuAction = "menu-action"
	TypeDragBegin  = "drag-begin"
	TypeDragEnd    = "drag-end"
	TypePreview    = "preview"
	TypeCommand    = "command"
	TypeError      = "error"
)

// Message types sent by the web content.
const (
	TypeReload    = "reload"
	TypeShowMenu  = "show-menu"
	TypeNavigate  = "navigate"
	TypeSaveState = "save-state"
	TypeSetRows   = "set-rows"
)

// NewEnvelope builds an envelope with a fresh ID and a JSON-encoded
// payload.
func NewEnvelope(typ string, payload any) (Envelope, error) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Envelope{}, err
		}
		raw = data
	}
	return Envelope{ID: uuid.NewString(), Type: typ, Payload: raw}, nil
}

// Reply builds a response envelope reusing the request's ID so the web
// side can correlate it.
func (e Envelope) Reply(typ string, payload any) (Envelope, error) {
	r, err := NewEnvelope(typ, payload)
	if err != nil {
		return Envelope{}, err
	}
	r.ID = e.ID
	return r, nil
}

// ErrorPayload is the payload of a TypeError envelope.
type ErrorPayload struct {
	Message string `json:"message"`
}
