package models

import (
	"sync"

	"github.com/gorilla/websocket"
)

// SocketClient is one live websocket connection. The id is server-assigned
// and doubles as the presence key. Writes are serialized per client since
// broadcasts come from other connections' goroutines.
type SocketClient struct {
	ID   string
	Conn *websocket.Conn

	writeMu sync.Mutex
}

func NewSocketClient(id string, conn *websocket.Conn) *SocketClient {
	return &SocketClient{
		ID:   id,
		Conn: conn,
	}
}

func (sc *SocketClient) Send(v any) error {
	sc.writeMu.Lock()
	defer sc.writeMu.Unlock()
	return sc.Conn.WriteJSON(v)
}
