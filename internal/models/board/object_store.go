package board

// ObjectStore holds the ordered object set of one room. Insertion order is
// stacking order for rendering, so the id index lives alongside an ordered
// id sequence. The store is not safe for concurrent use on its own; the
// owning Room serializes access.
type ObjectStore struct {
	order   []string
	objects map[string]*DrawableObject
}

func NewObjectStore() *ObjectStore {
	return &ObjectStore{
		order:   make([]string, 0),
		objects: make(map[string]*DrawableObject),
	}
}

// Apply mutates the store according to the action and returns the effect to
// broadcast, the prior value of the touched object (nil if it did not
// exist) and whether anything actually changed. Update and delete on an
// unknown id are silent no-ops so that reordered or duplicated deliveries
// converge to the same state.
func (s *ObjectStore) Apply(action *Action) (effect *Action, prior *DrawableObject, mutated bool) {
	switch action.Type {
	case ActionTypeAdd:
		prior = s.objects[action.Object.ID]
		if prior == nil {
			s.order = append(s.order, action.Object.ID)
		}
		// Overwrite keeps the original stacking position.
		s.objects[action.Object.ID] = action.Object
		return action, prior, true
	case ActionTypeUpdate:
		prior = s.objects[action.Object.ID]
		if prior == nil {
			return action, nil, false
		}
		s.objects[action.Object.ID] = action.Object
		return action, prior, true
	case ActionTypeDelete:
		prior = s.objects[action.Object.ID]
		if prior == nil {
			return NewDeleteAction(action.Object.ID), nil, false
		}
		delete(s.objects, action.Object.ID)
		for i, id := range s.order {
			if id == action.Object.ID {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		return NewDeleteAction(action.Object.ID), prior, true
	}
	return action, nil, false
}

func (s *ObjectStore) Get(id string) (*DrawableObject, bool) {
	obj, ok := s.objects[id]
	return obj, ok
}

// List returns the objects in insertion order.
func (s *ObjectStore) List() []*DrawableObject {
	result := make([]*DrawableObject, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.objects[id])
	}
	return result
}

func (s *ObjectStore) Len() int {
	return len(s.objects)
}
