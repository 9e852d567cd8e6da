package validators

import (
	"socketBoard/internal/errs"
	"socketBoard/internal/models/board"
)

// ValidateAction rejects malformed actions before they reach a room. A
// rejected action is reported to the sender only and never applied or
// broadcast.
func ValidateAction(action *board.Action) []error {
	var errors []error
	if action == nil {
		errors = append(errors, errs.ErrInvalidAction)
		return errors
	}

	switch action.Type {
	case board.ActionTypeAdd, board.ActionTypeUpdate, board.ActionTypeDelete:
	default:
		errors = append(errors, errs.ErrUnknownActionType)
	}

	if action.Object == nil || action.Object.ID == "" {
		errors = append(errors, errs.ErrMissingObjectID)
		return errors
	}

	if action.Type == board.ActionTypeAdd && !board.IsKnownObjectType(action.Object.Type) {
		errors = append(errors, errs.ErrUnknownObjectType)
	}

	return errors
}

func ValidateRoomKey(key string) []error {
	if key == "" {
		return []error{errs.ErrInvalidRoomKey}
	}
	return nil
}
