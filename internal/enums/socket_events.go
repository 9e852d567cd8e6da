package enums

const (
	SOCKET_EVENT_JOIN_ROOM   = "join_room"
	SOCKET_EVENT_LEAVE_ROOM  = "leave_room"
	SOCKET_EVENT_ROOM_STATE  = "room_state"
	SOCKET_EVENT_ACTION      = "action"
	SOCKET_EVENT_CURSOR      = "cursor"
	SOCKET_EVENT_UNDO        = "undo"
	SOCKET_EVENT_REDO        = "redo"
	SOCKET_EVENT_USER_JOINED = "user_joined"
	SOCKET_EVENT_USER_LEFT   = "user_left"
	SOCKET_EVENT_ERROR       = "error"
)
