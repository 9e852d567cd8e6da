package services

import (
	"socketBoard/configs"
	"socketBoard/internal/errs"
	"socketBoard/internal/models"
	"socketBoard/internal/models/board"
	"socketBoard/internal/validators"
)

// BoardService owns the room registry and is the single entry point for
// room mutations. Transport handlers call into it and broadcast whatever
// effects it returns.
type BoardService struct {
	registry *board.Registry
}

func NewBoardService(cfg *configs.Config) *BoardService {
	return &BoardService{
		registry: board.NewRegistry(cfg.Viper.GetInt("board.history_limit")),
	}
}

// Join resolves the room, creating it on first reference, registers the
// connection and returns the snapshot for the joiner. Resolution and
// registration happen atomically in the registry.
func (bs *BoardService) Join(roomKey, connectionID string, user *board.UserInfo) (*board.Snapshot, []error) {
	if errors := validators.ValidateRoomKey(roomKey); len(errors) > 0 {
		return nil, errors
	}
	return bs.registry.Join(roomKey, connectionID, user), nil
}

// Leave removes the connection from the room; the room is destroyed when
// its last member leaves.
func (bs *BoardService) Leave(roomKey, connectionID string) (left bool, destroyed bool) {
	return bs.registry.ReleaseMember(roomKey, connectionID)
}

// Apply validates and applies a client action, returning the effect to
// broadcast to the rest of the room.
func (bs *BoardService) Apply(roomKey string, action *board.Action) (*board.Action, []error) {
	if errors := validators.ValidateAction(action); len(errors) > 0 {
		return nil, errors
	}
	room, ok := bs.registry.Get(roomKey)
	if !ok {
		return nil, []error{errs.ErrNotJoined}
	}
	return room.ApplyAction(action), nil
}

func (bs *BoardService) Undo(roomKey string) (*board.Action, error) {
	room, ok := bs.registry.Get(roomKey)
	if !ok {
		return nil, errs.ErrNotJoined
	}
	return room.Undo()
}

func (bs *BoardService) Redo(roomKey string) (*board.Action, error) {
	room, ok := bs.registry.Get(roomKey)
	if !ok {
		return nil, errs.ErrNotJoined
	}
	return room.Redo()
}

func (bs *BoardService) UpdateCursor(roomKey, connectionID string, cursor *board.Cursor) bool {
	room, ok := bs.registry.Get(roomKey)
	if !ok {
		return false
	}
	return room.UpdateCursor(connectionID, cursor)
}

// EnsureRoom is the idempotent REST side-channel: the room exists after
// this call whether or not it did before.
func (bs *BoardService) EnsureRoom(roomKey string) (*models.RoomInfo, []error) {
	if errors := validators.ValidateRoomKey(roomKey); len(errors) > 0 {
		return nil, errors
	}
	room := bs.registry.GetOrCreate(roomKey)
	return bs.roomInfo(room), nil
}

func (bs *BoardService) RoomInfo(roomKey string) (*models.RoomInfo, bool) {
	room, ok := bs.registry.Get(roomKey)
	if !ok {
		return nil, false
	}
	return bs.roomInfo(room), true
}

func (bs *BoardService) roomInfo(room *board.Room) *models.RoomInfo {
	return &models.RoomInfo{
		Key:     room.Key,
		Members: room.MemberCount(),
		Objects: room.ObjectCount(),
	}
}

func (bs *BoardService) RoomCount() int {
	return bs.registry.Count()
}

func (bs *BoardService) MemberCounts() map[string]int {
	return bs.registry.MemberCounts()
}
