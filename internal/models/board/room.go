package board

import (
	"socketBoard/internal/errs"
	"sync"
)

// Snapshot is the full room state sent to a joining connection: the object
// list in stacking order plus everyone's presence.
type Snapshot struct {
	Objects []*DrawableObject         `json:"objects"`
	Users   map[string]*PresenceEntry `json:"users"`
}

// Room is one isolated collaboration session. Every mutation of its object
// store, action log or presence table goes through the room mutex, so
// interleaved actions from different connections are applied one at a time
// and snapshots are never torn.
type Room struct {
	Key string

	mu       sync.Mutex
	store    *ObjectStore
	log      *ActionLog
	redo     []*LogEntry
	presence *PresenceTable
}

func NewRoom(key string, historyLimit int) *Room {
	return &Room{
		Key:      key,
		store:    NewObjectStore(),
		log:      NewActionLog(historyLimit),
		redo:     make([]*LogEntry, 0),
		presence: NewPresenceTable(),
	}
}

// Join registers the connection and returns the snapshot it should be sent.
func (r *Room) Join(connectionID string, user *UserInfo) *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.presence.Join(connectionID, user)
	return r.snapshotLocked()
}

func (r *Room) Leave(connectionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.presence.Leave(connectionID)
}

func (r *Room) MemberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.presence.Len()
}

func (r *Room) ObjectCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Len()
}

// ApplyAction applies a validated client action and returns the effect to
// broadcast. Actions that changed state are recorded for undo and clear
// the redo stack.
func (r *Room) ApplyAction(action *Action) *Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	effect, prior, mutated := r.store.Apply(action)
	if mutated {
		r.log.Record(&LogEntry{Action: action, Prior: prior})
		r.redo = r.redo[:0]
	}
	return effect
}

// Undo pops the most recent log entry, applies its inverse and returns the
// inverse for broadcast to every member, requester included. The undo
// stack is room-global: any member may undo the latest action regardless
// of who sent it.
func (r *Room) Undo() (*Action, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.log.Pop()
	if !ok {
		return nil, errs.ErrNothingToUndo
	}
	inverse := entry.Inverse()
	r.store.Apply(inverse)
	r.redo = append(r.redo, entry)
	if len(r.redo) > r.log.Limit() {
		r.redo = r.redo[1:]
	}
	return inverse, nil
}

// Redo re-applies the most recently undone action and records it again.
// Entries whose re-application no longer changes anything are discarded
// rather than broadcast as no-ops.
func (r *Room) Redo() (*Action, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for len(r.redo) > 0 {
		entry := r.redo[len(r.redo)-1]
		r.redo = r.redo[:len(r.redo)-1]
		effect, prior, mutated := r.store.Apply(entry.Action)
		if !mutated {
			continue
		}
		r.log.Record(&LogEntry{Action: entry.Action, Prior: prior})
		return effect, nil
	}
	return nil, errs.ErrNothingToRedo
}

func (r *Room) UpdateCursor(connectionID string, cursor *Cursor) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.presence.UpdateCursor(connectionID, cursor)
}

func (r *Room) Snapshot() *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Room) snapshotLocked() *Snapshot {
	return &Snapshot{
		Objects: r.store.List(),
		Users:   r.presence.Entries(),
	}
}

func (r *Room) HistoryLen() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.log.Len()
}
