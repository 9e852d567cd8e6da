package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"socketBoard/configs"
	"socketBoard/internal/enums"
	"socketBoard/internal/models/board"
	socketModels "socketBoard/internal/models/socket"
	"socketBoard/internal/services"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func timeInAnHour() time.Time {
	return time.Now().Add(time.Hour)
}

func setupSocketServer(t *testing.T) (*httptest.Server, *services.BoardService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := configs.GetConfig()
	service := services.NewBoardService(cfg)
	handler := NewSocketBoardHandler(nil, context.Background(), service, cfg)

	router := gin.New()
	router.GET("/ws/board", handler.HandleSocketBoardRoute)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, service
}

func dialBoard(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/board"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to dial %v: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendEvent(t *testing.T, conn *websocket.Conn, event, payload string) {
	t.Helper()
	err := conn.WriteJSON(socketModels.SocketEvent{
		Event:   event,
		Payload: json.RawMessage(payload),
	})
	if err != nil {
		t.Fatalf("Failed to send %v: %v", event, err)
	}
}

func readEvent(t *testing.T, conn *websocket.Conn) socketModels.SocketEvent {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event socketModels.SocketEvent
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("Failed to read event: %v", err)
	}
	return event
}

func readEventOfType(t *testing.T, conn *websocket.Conn, want string) socketModels.SocketEvent {
	t.Helper()
	event := readEvent(t, conn)
	if event.Event != want {
		t.Fatalf("Expected event %q, got %q (payload %s)", want, event.Event, event.Payload)
	}
	return event
}

// Two clients share room r1: alice draws a rectangle, bob sees it, alice
// undoes it and both observe the delete.
func TestSocketAddThenUndoScenario(t *testing.T) {
	server, service := setupSocketServer(t)

	alice := dialBoard(t, server)
	sendEvent(t, alice, enums.SOCKET_EVENT_JOIN_ROOM, `{"room_key":"r1","user":{"name":"alice"}}`)
	state := readEventOfType(t, alice, enums.SOCKET_EVENT_ROOM_STATE)

	var snapshot board.Snapshot
	if err := json.Unmarshal(state.Payload, &snapshot); err != nil {
		t.Fatalf("Failed to decode snapshot: %v", err)
	}
	if len(snapshot.Objects) != 0 || len(snapshot.Users) != 1 {
		t.Errorf("Fresh room snapshot should have 0 objects and 1 user, got %d/%d",
			len(snapshot.Objects), len(snapshot.Users))
	}

	bob := dialBoard(t, server)
	sendEvent(t, bob, enums.SOCKET_EVENT_JOIN_ROOM, `{"room_key":"r1","user":{"name":"bob"}}`)
	readEventOfType(t, bob, enums.SOCKET_EVENT_ROOM_STATE)

	joined := readEventOfType(t, alice, enums.SOCKET_EVENT_USER_JOINED)
	var joinedPayload socketModels.UserJoinedPayload
	if err := json.Unmarshal(joined.Payload, &joinedPayload); err != nil {
		t.Fatalf("Failed to decode user_joined: %v", err)
	}
	if joinedPayload.User == nil || joinedPayload.User.Name != "bob" {
		t.Errorf("Alice should see bob join, got %+v", joinedPayload.User)
	}

	// Alice draws; only bob gets the broadcast.
	sendEvent(t, alice, enums.SOCKET_EVENT_ACTION,
		`{"type":"add","object":{"id":"o1","type":"rect","props":{"x":10,"y":10,"w":50,"h":50}}}`)

	received := readEventOfType(t, bob, enums.SOCKET_EVENT_ACTION)
	var action board.Action
	if err := json.Unmarshal(received.Payload, &action); err != nil {
		t.Fatalf("Failed to decode action: %v", err)
	}
	if action.Type != board.ActionTypeAdd || action.Object.ID != "o1" {
		t.Errorf("Bob should receive the add for o1, got %+v", action)
	}

	// Alice undoes; everyone, alice included, observes the delete.
	sendEvent(t, alice, enums.SOCKET_EVENT_UNDO, `{}`)
	for name, conn := range map[string]*websocket.Conn{"alice": alice, "bob": bob} {
		event := readEventOfType(t, conn, enums.SOCKET_EVENT_ACTION)
		var inverse board.Action
		if err := json.Unmarshal(event.Payload, &inverse); err != nil {
			t.Fatalf("Failed to decode inverse for %v: %v", name, err)
		}
		if inverse.Type != board.ActionTypeDelete || inverse.Object.ID != "o1" {
			t.Errorf("%v should observe delete of o1, got %+v", name, inverse)
		}
	}

	info, ok := service.RoomInfo("r1")
	if !ok {
		t.Fatal("Room r1 should exist")
	}
	if info.Objects != 0 {
		t.Errorf("Room r1 should be empty after undo, got %d objects", info.Objects)
	}

	// Bob leaves; alice is told, and the room survives with one member.
	sendEvent(t, bob, enums.SOCKET_EVENT_LEAVE_ROOM, `{}`)
	left := readEventOfType(t, alice, enums.SOCKET_EVENT_USER_LEFT)
	var leftPayload socketModels.UserLeftPayload
	if err := json.Unmarshal(left.Payload, &leftPayload); err != nil {
		t.Fatalf("Failed to decode user_left: %v", err)
	}
	if leftPayload.ConnectionID == "" {
		t.Error("user_left should carry the connection id")
	}
}

// A client joining while another member is drawing must observe every
// action, either in its snapshot or in its broadcast stream. Duplicates
// across the two are fine; drops are not.
func TestSocketJoinDuringActivitySeesEveryAction(t *testing.T) {
	server, _ := setupSocketServer(t)

	alice := dialBoard(t, server)
	sendEvent(t, alice, enums.SOCKET_EVENT_JOIN_ROOM, `{"room_key":"r6","user":{"name":"alice"}}`)
	readEventOfType(t, alice, enums.SOCKET_EVENT_ROOM_STATE)

	const objectCount = 50
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for i := 0; i <= objectCount; i++ {
			id := fmt.Sprintf("o%d", i)
			if i == objectCount {
				id = "final"
			}
			payload := fmt.Sprintf(`{"type":"add","object":{"id":"%s","type":"rect","props":{"x":%d}}}`, id, i)
			err := alice.WriteJSON(socketModels.SocketEvent{
				Event:   enums.SOCKET_EVENT_ACTION,
				Payload: json.RawMessage(payload),
			})
			if err != nil {
				t.Errorf("Failed to send add %v: %v", id, err)
				return
			}
		}
	}()

	bob := dialBoard(t, server)
	sendEvent(t, bob, enums.SOCKET_EVENT_JOIN_ROOM, `{"room_key":"r6","user":{"name":"bob"}}`)

	// Broadcasts may reach bob before his snapshot does; collect both until
	// the snapshot arrives, then keep reading until the last add shows up.
	seen := make(map[string]bool)
	recordAction := func(payload json.RawMessage) {
		var action board.Action
		if err := json.Unmarshal(payload, &action); err != nil {
			t.Fatalf("Failed to decode action: %v", err)
		}
		seen[action.Object.ID] = true
	}

	gotSnapshot := false
	for !gotSnapshot {
		event := readEvent(t, bob)
		switch event.Event {
		case enums.SOCKET_EVENT_ACTION:
			recordAction(event.Payload)
		case enums.SOCKET_EVENT_ROOM_STATE:
			var snapshot board.Snapshot
			if err := json.Unmarshal(event.Payload, &snapshot); err != nil {
				t.Fatalf("Failed to decode snapshot: %v", err)
			}
			for _, obj := range snapshot.Objects {
				seen[obj.ID] = true
			}
			gotSnapshot = true
		}
	}
	for !seen["final"] {
		event := readEvent(t, bob)
		if event.Event == enums.SOCKET_EVENT_ACTION {
			recordAction(event.Payload)
		}
	}
	<-writerDone

	for i := 0; i < objectCount; i++ {
		if !seen[fmt.Sprintf("o%d", i)] {
			t.Errorf("Add o%d was lost across the join", i)
		}
	}
}

func TestSocketActionBeforeJoinIsRejected(t *testing.T) {
	server, _ := setupSocketServer(t)

	conn := dialBoard(t, server)
	sendEvent(t, conn, enums.SOCKET_EVENT_ACTION,
		`{"type":"add","object":{"id":"o1","type":"rect"}}`)

	event := readEventOfType(t, conn, enums.SOCKET_EVENT_ERROR)
	var payload socketModels.ErrorPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		t.Fatalf("Failed to decode error: %v", err)
	}
	if payload.Code != socketModels.ErrorCodeNotJoined {
		t.Errorf("Expected not_joined, got %q", payload.Code)
	}
}

func TestSocketMalformedActionGoesToSenderOnly(t *testing.T) {
	server, service := setupSocketServer(t)

	alice := dialBoard(t, server)
	sendEvent(t, alice, enums.SOCKET_EVENT_JOIN_ROOM, `{"room_key":"r2","user":{"name":"alice"}}`)
	readEventOfType(t, alice, enums.SOCKET_EVENT_ROOM_STATE)

	sendEvent(t, alice, enums.SOCKET_EVENT_ACTION, `{"type":"add","object":{"id":"","type":"rect"}}`)

	event := readEventOfType(t, alice, enums.SOCKET_EVENT_ERROR)
	var payload socketModels.ErrorPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		t.Fatalf("Failed to decode error: %v", err)
	}
	if payload.Code != socketModels.ErrorCodeValidation {
		t.Errorf("Expected validation_error, got %q", payload.Code)
	}

	info, _ := service.RoomInfo("r2")
	if info.Objects != 0 {
		t.Errorf("Rejected action must not mutate the room, got %d objects", info.Objects)
	}
}

func TestSocketUndoOnEmptyLog(t *testing.T) {
	server, _ := setupSocketServer(t)

	conn := dialBoard(t, server)
	sendEvent(t, conn, enums.SOCKET_EVENT_JOIN_ROOM, `{"room_key":"r3","user":{"name":"alice"}}`)
	readEventOfType(t, conn, enums.SOCKET_EVENT_ROOM_STATE)

	sendEvent(t, conn, enums.SOCKET_EVENT_UNDO, `{}`)

	event := readEventOfType(t, conn, enums.SOCKET_EVENT_ERROR)
	var payload socketModels.ErrorPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		t.Fatalf("Failed to decode error: %v", err)
	}
	if payload.Code != socketModels.ErrorCodeNothingToUndo {
		t.Errorf("Expected nothing_to_undo, got %q", payload.Code)
	}
}

func TestSocketCursorBroadcast(t *testing.T) {
	server, _ := setupSocketServer(t)

	alice := dialBoard(t, server)
	sendEvent(t, alice, enums.SOCKET_EVENT_JOIN_ROOM, `{"room_key":"r4","user":{"name":"alice"}}`)
	readEventOfType(t, alice, enums.SOCKET_EVENT_ROOM_STATE)

	bob := dialBoard(t, server)
	sendEvent(t, bob, enums.SOCKET_EVENT_JOIN_ROOM, `{"room_key":"r4","user":{"name":"bob"}}`)
	readEventOfType(t, bob, enums.SOCKET_EVENT_ROOM_STATE)
	readEventOfType(t, alice, enums.SOCKET_EVENT_USER_JOINED)

	sendEvent(t, alice, enums.SOCKET_EVENT_CURSOR, `{"x":12,"y":34,"tool":"brush","color":"#000"}`)

	event := readEventOfType(t, bob, enums.SOCKET_EVENT_CURSOR)
	var payload socketModels.CursorBroadcastPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		t.Fatalf("Failed to decode cursor: %v", err)
	}
	if payload.Cursor == nil || payload.Cursor.X != 12 || payload.Cursor.Tool != "brush" {
		t.Errorf("Bob should see alice's cursor, got %+v", payload.Cursor)
	}
}

func TestSocketDisconnectReleasesRoom(t *testing.T) {
	server, service := setupSocketServer(t)

	conn := dialBoard(t, server)
	sendEvent(t, conn, enums.SOCKET_EVENT_JOIN_ROOM, `{"room_key":"r5","user":{"name":"alice"}}`)
	readEventOfType(t, conn, enums.SOCKET_EVENT_ROOM_STATE)

	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := service.RoomInfo("r5"); !ok {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("Room r5 should be destroyed after its last connection drops")
}
