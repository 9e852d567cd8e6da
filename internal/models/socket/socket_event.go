package socket

import "encoding/json"

// SocketEvent is the envelope for client-to-server frames. Payload stays
// raw until the event type is known.
type SocketEvent struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// ServerEvent is the envelope for server-to-client frames.
type ServerEvent struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}
