package board

type ActionType string

const (
	ActionTypeAdd    ActionType = "add"
	ActionTypeUpdate ActionType = "update"
	ActionTypeDelete ActionType = "delete"
)

// Action is the sole mutation primitive for a room's object set. For
// delete actions only Object.ID is meaningful.
type Action struct {
	Type   ActionType      `json:"type"`
	Object *DrawableObject `json:"object"`
}

func NewDeleteAction(id string) *Action {
	return &Action{
		Type:   ActionTypeDelete,
		Object: &DrawableObject{ID: id},
	}
}
