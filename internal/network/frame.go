// Package network carries chat between console sessions over websockets.
package network

import "encoding/json"

// Frame is one websocket message in either direction.
type Frame struct {
	ID      string          `json:"id"`
	Event   string          `json:"event"`             // "chat", "error"
	From    string          `json:"from,omitempty"`    // set by the hub
	Payload json.RawMessage `json:"payload,omitempty"` // event-specific
}

// ErrorPayload is sent by the hub when it rejects a frame.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	// PlayerHeader carries the player's display name on the upgrade request.
	PlayerHeader = "X-Voxel-Player"

	eventError = "error"
)
