package redis

import "socketBoard/internal/models/socket"

// RelayEvent is what one instance publishes so that members of the same
// room connected to other instances see the event too. Origin lets an
// instance drop its own publications; ExcludeConnectionID only matters on
// the instance that owns that connection.
type RelayEvent struct {
	Origin              string             `json:"origin"`
	RoomKey             string             `json:"room_key"`
	ExcludeConnectionID string             `json:"exclude_connection_id,omitempty"`
	Event               socket.ServerEvent `json:"event"`
}
