package board

type UserInfo struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type Cursor struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Tool  string  `json:"tool,omitempty"`
	Color string  `json:"color,omitempty"`
}

// PresenceEntry is the ephemeral per-connection state of one room member.
// It is not part of the document and is lost on disconnect.
type PresenceEntry struct {
	User   *UserInfo `json:"user,omitempty"`
	Cursor *Cursor   `json:"cursor,omitempty"`
}

// PresenceTable maps connection ids to presence entries. Like the other
// room internals it relies on the Room for serialization.
type PresenceTable struct {
	entries map[string]*PresenceEntry
}

func NewPresenceTable() *PresenceTable {
	return &PresenceTable{
		entries: make(map[string]*PresenceEntry),
	}
}

func (p *PresenceTable) Join(connectionID string, user *UserInfo) {
	p.entries[connectionID] = &PresenceEntry{User: user}
}

func (p *PresenceTable) Leave(connectionID string) bool {
	if _, ok := p.entries[connectionID]; !ok {
		return false
	}
	delete(p.entries, connectionID)
	return true
}

// UpdateCursor overwrites the last known cursor of a member. Cursors from
// unknown connections are ignored.
func (p *PresenceTable) UpdateCursor(connectionID string, cursor *Cursor) bool {
	entry, ok := p.entries[connectionID]
	if !ok {
		return false
	}
	entry.Cursor = cursor
	return true
}

// Entries returns a copy of the table for snapshots.
func (p *PresenceTable) Entries() map[string]*PresenceEntry {
	result := make(map[string]*PresenceEntry, len(p.entries))
	for id, entry := range p.entries {
		result[id] = &PresenceEntry{User: entry.User, Cursor: entry.Cursor}
	}
	return result
}

func (p *PresenceTable) Len() int {
	return len(p.entries)
}
