package models

import (
	"log"
	"sync"
)

// SocketBoardHub tracks which connections are attached to which room so
// events can be fanned out to a room's members.
type SocketBoardHub struct {
	mu sync.Mutex
	// [room_key] => []*SocketClient
	Rooms map[string][]*SocketClient
}

func NewSocketBoardHub() *SocketBoardHub {
	return &SocketBoardHub{
		Rooms: make(map[string][]*SocketClient),
	}
}

func (hub *SocketBoardHub) Add(roomKey string, client *SocketClient) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	for _, member := range hub.Rooms[roomKey] {
		if member.ID == client.ID {
			return
		}
	}
	hub.Rooms[roomKey] = append(hub.Rooms[roomKey], client)
}

func (hub *SocketBoardHub) Remove(roomKey string, connectionID string) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	members := hub.Rooms[roomKey]
	for i, member := range members {
		if member.ID == connectionID {
			hub.Rooms[roomKey] = append(members[:i], members[i+1:]...)
			break
		}
	}
	if len(hub.Rooms[roomKey]) == 0 {
		delete(hub.Rooms, roomKey)
	}
}

// Broadcast sends an event to every member of a room except the excluded
// connection (pass an empty string to reach everyone). Failed writes are
// logged; the failing connection cleans itself up through its read loop.
func (hub *SocketBoardHub) Broadcast(roomKey string, excludeConnectionID string, v any) {
	for _, member := range hub.members(roomKey) {
		if member.ID == excludeConnectionID {
			continue
		}
		if err := member.Send(v); err != nil {
			log.Printf("Error writing json to connection %v: %v", member.ID, err)
		}
	}
}

func (hub *SocketBoardHub) members(roomKey string) []*SocketClient {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	members := make([]*SocketClient, len(hub.Rooms[roomKey]))
	copy(members, hub.Rooms[roomKey])
	return members
}

func (hub *SocketBoardHub) ClientCount() int {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	total := 0
	for _, members := range hub.Rooms {
		total += len(members)
	}
	return total
}

// CloseAll tears down every connection, used during shutdown.
func (hub *SocketBoardHub) CloseAll() {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	for roomKey, members := range hub.Rooms {
		for _, member := range members {
			if err := member.Conn.Close(); err != nil {
				log.Printf("Error closing connection %v: %v", member.ID, err)
			}
		}
		delete(hub.Rooms, roomKey)
	}
}
