package errs

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrInvalidRequestBody  = Error("invalid request body")
	ErrInvalidRoomKey      = Error("invalid room key")
	ErrInvalidAction       = Error("invalid action")
	ErrMissingObjectID     = Error("action object is missing an id")
	ErrUnknownObjectType   = Error("unknown object type")
	ErrUnknownActionType   = Error("unknown action type")
	ErrNotJoined           = Error("connection has not joined a room")
	ErrNothingToUndo       = Error("nothing to undo")
	ErrNothingToRedo       = Error("nothing to redo")
	ErrUnauthorized        = Error("unauthorized")
	ErrInvalidToken        = Error("invalid token")
	ErrDisplayNameRequired = Error("display name is required")
)
