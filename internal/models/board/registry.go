package board

import "sync"

// Registry owns all live rooms. A room is created on first reference and
// destroyed, with everything it holds, when its last member leaves. Nothing
// survives the process.
type Registry struct {
	mu           sync.Mutex
	rooms        map[string]*Room
	historyLimit int
}

func NewRegistry(historyLimit int) *Registry {
	return &Registry{
		rooms:        make(map[string]*Room),
		historyLimit: historyLimit,
	}
}

func (reg *Registry) GetOrCreate(key string) *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return reg.getOrCreateLocked(key)
}

// Join resolves the room, creating it on first reference, and registers the
// member without releasing the registry lock in between. Resolving and
// joining as separate steps would let the last existing member leave in the
// gap and destroy the room the joiner is about to register on.
func (reg *Registry) Join(key, connectionID string, user *UserInfo) *Snapshot {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return reg.getOrCreateLocked(key).Join(connectionID, user)
}

func (reg *Registry) getOrCreateLocked(key string) *Room {
	room, ok := reg.rooms[key]
	if !ok {
		room = NewRoom(key, reg.historyLimit)
		reg.rooms[key] = room
	}
	return room
}

func (reg *Registry) Get(key string) (*Room, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	room, ok := reg.rooms[key]
	return room, ok
}

// ReleaseMember removes the connection from the room and destroys the room
// if it was the last member. Reports whether the member was present and
// whether the room was destroyed.
func (reg *Registry) ReleaseMember(key, connectionID string) (left bool, destroyed bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	room, ok := reg.rooms[key]
	if !ok {
		return false, false
	}
	left = room.Leave(connectionID)
	if room.MemberCount() == 0 {
		delete(reg.rooms, key)
		destroyed = true
	}
	return left, destroyed
}

func (reg *Registry) Count() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.rooms)
}

// MemberCounts returns the member count of every live room.
func (reg *Registry) MemberCounts() map[string]int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	result := make(map[string]int, len(reg.rooms))
	for key, room := range reg.rooms {
		result[key] = room.MemberCount()
	}
	return result
}
