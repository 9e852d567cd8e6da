package socket

import "socketBoard/internal/models/board"

type JoinRoomPayload struct {
	RoomKey string          `json:"room_key"`
	User    *board.UserInfo `json:"user"`
}

type UserJoinedPayload struct {
	ConnectionID string          `json:"connection_id"`
	User         *board.UserInfo `json:"user"`
}

type UserLeftPayload struct {
	ConnectionID string `json:"connection_id"`
}

type CursorBroadcastPayload struct {
	ConnectionID string        `json:"connection_id"`
	Cursor       *board.Cursor `json:"cursor"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	ErrorCodeBadPayload     = "bad_payload"
	ErrorCodeValidation     = "validation_error"
	ErrorCodeNotJoined      = "not_joined"
	ErrorCodeNothingToUndo  = "nothing_to_undo"
	ErrorCodeNothingToRedo  = "nothing_to_redo"
	ErrorCodeInvalidRoomKey = "invalid_room_key"
)
