package board

const DefaultHistoryLimit = 256

// LogEntry is an applied action plus the prior value of the object it
// touched, captured at record time so that updates and deletes can be
// inverted later.
type LogEntry struct {
	Action *Action
	Prior  *DrawableObject
}

// Inverse returns the action that undoes this entry. The inverse of an add
// is a delete, unless the add overwrote an existing object, in which case
// the prior value is written back; a deleted object is restored from its
// captured snapshot (it is appended, not put back at its original stacking
// position); an update is inverted by re-applying the prior value.
func (e *LogEntry) Inverse() *Action {
	switch e.Action.Type {
	case ActionTypeAdd:
		if e.Prior != nil {
			return &Action{Type: ActionTypeUpdate, Object: e.Prior.Clone()}
		}
		return NewDeleteAction(e.Action.Object.ID)
	case ActionTypeDelete:
		return &Action{Type: ActionTypeAdd, Object: e.Prior.Clone()}
	case ActionTypeUpdate:
		return &Action{Type: ActionTypeUpdate, Object: e.Prior.Clone()}
	}
	return nil
}

// ActionLog is the bounded, append-only record of applied actions for one
// room. When the bound is reached the oldest entry is dropped, which caps
// memory in long-lived rooms at the cost of how far back undo can reach.
type ActionLog struct {
	entries []*LogEntry
	limit   int
}

func NewActionLog(limit int) *ActionLog {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &ActionLog{
		entries: make([]*LogEntry, 0),
		limit:   limit,
	}
}

func (l *ActionLog) Record(entry *LogEntry) {
	l.entries = append(l.entries, entry)
	if len(l.entries) > l.limit {
		l.entries = l.entries[1:]
	}
}

// Pop removes and returns the most recent entry.
func (l *ActionLog) Pop() (*LogEntry, bool) {
	if len(l.entries) == 0 {
		return nil, false
	}
	entry := l.entries[len(l.entries)-1]
	l.entries = l.entries[:len(l.entries)-1]
	return entry, true
}

func (l *ActionLog) Len() int {
	return len(l.entries)
}

func (l *ActionLog) Limit() int {
	return l.limit
}
