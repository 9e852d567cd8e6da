package board

import "encoding/json"

type ObjectType string

const (
	ObjectTypeLine  ObjectType = "line"
	ObjectTypeRect  ObjectType = "rect"
	ObjectTypeText  ObjectType = "text"
	ObjectTypeImage ObjectType = "image"
)

// DrawableObject is one element on the board. Ids are generated by the
// client that created the object; the server trusts them and enforces
// uniqueness by overwrite.
type DrawableObject struct {
	ID    string          `json:"id"`
	Type  ObjectType      `json:"type"`
	Props json.RawMessage `json:"props,omitempty"`
}

func (o *DrawableObject) Clone() *DrawableObject {
	if o == nil {
		return nil
	}
	clone := &DrawableObject{
		ID:   o.ID,
		Type: o.Type,
	}
	if o.Props != nil {
		clone.Props = make(json.RawMessage, len(o.Props))
		copy(clone.Props, o.Props)
	}
	return clone
}

func IsKnownObjectType(t ObjectType) bool {
	switch t {
	case ObjectTypeLine, ObjectTypeRect, ObjectTypeText, ObjectTypeImage:
		return true
	}
	return false
}
