package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"socketBoard/configs"
	"socketBoard/internal/enums"
	"socketBoard/internal/errs"
	"socketBoard/internal/models"
	"socketBoard/internal/models/board"
	redisModels "socketBoard/internal/models/redis"
	socketModels "socketBoard/internal/models/socket"
	"socketBoard/internal/msgs"
	"socketBoard/internal/ratelimit"
	"socketBoard/internal/services"
	"socketBoard/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

const (
	framesPerSecond = 100
	frameBurst      = 200
	// A connection this far over the limit is not a drawing client.
	maxRateLimitStrikes = 1000
)

type SocketBoardHandler struct {
	ctx          context.Context
	upgrader     websocket.Upgrader
	hub          *models.SocketBoardHub
	boardService *services.BoardService
	redis        *redis.Client
	cfg          *configs.Config
	instanceID   string
}

// session is the per-connection state machine: a connection is either
// detached or joined to exactly one room.
type session struct {
	client  *models.SocketClient
	roomKey string
	user    *board.UserInfo
	limiter *ratelimit.Limiter
}

func NewSocketBoardHandler(
	redisClient *redis.Client,
	ctx context.Context,
	boardService *services.BoardService,
	cfg *configs.Config,
) *SocketBoardHandler {
	sbh := &SocketBoardHandler{
		ctx:          ctx,
		boardService: boardService,
		redis:        redisClient,
		cfg:          cfg,
		instanceID:   uuid.NewString(),
		hub:          models.NewSocketBoardHub(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	if sbh.redis != nil {
		go sbh.handleRedisMessages()
	}
	return sbh
}

func (sbh *SocketBoardHandler) Hub() *models.SocketBoardHub {
	return sbh.hub
}

func (sbh *SocketBoardHandler) HandleSocketBoardRoute(ctx *gin.Context) {
	user, err := sbh.authorize(ctx)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  models.ErrorsToStrings([]error{err}),
		})
		return
	}

	ws, err := sbh.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}
	defer func(ws *websocket.Conn) {
		if err := ws.Close(); err != nil {
			log.Printf("Error closing connection: %v", err)
		}
	}(ws)

	sess := &session{
		client:  models.NewSocketClient(uuid.NewString(), ws),
		user:    user,
		limiter: ratelimit.NewLimiter(framesPerSecond, frameBurst),
	}

	sbh.handleIncomingEvents(sess)
}

// authorize checks the guest token when auth is enabled. The verified name
// becomes the fallback display name for presence.
func (sbh *SocketBoardHandler) authorize(ctx *gin.Context) (*board.UserInfo, error) {
	if !sbh.cfg.Viper.GetBool("auth.enabled") {
		return nil, nil
	}
	jwtToken := ctx.Request.Header.Get("Authorization")
	if jwtToken == "" {
		// Browsers cannot set headers on websocket upgrades.
		jwtToken = ctx.Query("token")
	}
	if jwtToken == "" {
		return nil, errs.ErrUnauthorized
	}
	claims, err := utils.VerifyToken(jwtToken, []byte(sbh.cfg.Viper.GetString("auth.jwt_key")))
	if err != nil {
		return nil, errs.ErrInvalidToken
	}
	return &board.UserInfo{Name: claims.Name}, nil
}

func (sbh *SocketBoardHandler) handleIncomingEvents(sess *session) {
	defer sbh.handleDisconnect(sess)

	rateLimitStrikes := 0

	for {
		var event socketModels.SocketEvent
		if err := sess.client.Conn.ReadJSON(&event); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Error reading json from connection %v: %v", sess.client.ID, err)
			}
			return
		}

		if !sess.limiter.Allow() {
			rateLimitStrikes++
			if rateLimitStrikes > maxRateLimitStrikes {
				log.Printf("Disconnecting connection %v for flooding", sess.client.ID)
				return
			}
			continue
		}

		switch event.Event {
		case enums.SOCKET_EVENT_JOIN_ROOM:
			sbh.handleJoinRoomEvent(sess, event.Payload)
		case enums.SOCKET_EVENT_ACTION:
			sbh.handleActionEvent(sess, event.Payload)
		case enums.SOCKET_EVENT_CURSOR:
			sbh.handleCursorEvent(sess, event.Payload)
		case enums.SOCKET_EVENT_UNDO:
			sbh.handleUndoEvent(sess)
		case enums.SOCKET_EVENT_REDO:
			sbh.handleRedoEvent(sess)
		case enums.SOCKET_EVENT_LEAVE_ROOM:
			sbh.leaveRoom(sess)
		default:
			log.Printf("Unknown event from connection %v: %v", sess.client.ID, event.Event)
		}
	}
}

func (sbh *SocketBoardHandler) handleJoinRoomEvent(sess *session, payload json.RawMessage) {
	var join socketModels.JoinRoomPayload
	if err := json.Unmarshal(payload, &join); err != nil {
		sbh.sendError(sess, socketModels.ErrorCodeBadPayload, err.Error())
		return
	}

	// One membership at a time: joining a new room leaves the old one.
	if sess.roomKey != "" {
		sbh.leaveRoom(sess)
	}

	user := join.User
	if user == nil {
		user = sess.user
	}

	// Hub registration precedes the snapshot: an action racing the join is
	// then at worst delivered twice, and receivers apply actions
	// idempotently. The reverse order drops the racing action entirely.
	sbh.hub.Add(join.RoomKey, sess.client)

	snapshot, errors := sbh.boardService.Join(join.RoomKey, sess.client.ID, user)
	if len(errors) > 0 {
		sbh.hub.Remove(join.RoomKey, sess.client.ID)
		sbh.sendError(sess, socketModels.ErrorCodeInvalidRoomKey, errors[0].Error())
		return
	}

	sess.roomKey = join.RoomKey

	if err := sess.client.Send(socketModels.ServerEvent{
		Event:   enums.SOCKET_EVENT_ROOM_STATE,
		Payload: snapshot,
	}); err != nil {
		log.Printf("Error sending room state to connection %v: %v", sess.client.ID, err)
	}

	sbh.broadcast(join.RoomKey, sess.client.ID, socketModels.ServerEvent{
		Event: enums.SOCKET_EVENT_USER_JOINED,
		Payload: socketModels.UserJoinedPayload{
			ConnectionID: sess.client.ID,
			User:         user,
		},
	})
}

func (sbh *SocketBoardHandler) handleActionEvent(sess *session, payload json.RawMessage) {
	if sess.roomKey == "" {
		sbh.sendError(sess, socketModels.ErrorCodeNotJoined, errs.ErrNotJoined.Error())
		return
	}

	var action board.Action
	if err := json.Unmarshal(payload, &action); err != nil {
		sbh.sendError(sess, socketModels.ErrorCodeBadPayload, err.Error())
		return
	}

	effect, errors := sbh.boardService.Apply(sess.roomKey, &action)
	if len(errors) > 0 {
		// Validation failures go back to the sender only, never broadcast.
		sbh.sendError(sess, socketModels.ErrorCodeValidation, errors[0].Error())
		return
	}

	// The originator applied the action optimistically and gets no echo.
	sbh.broadcast(sess.roomKey, sess.client.ID, socketModels.ServerEvent{
		Event:   enums.SOCKET_EVENT_ACTION,
		Payload: effect,
	})
}

func (sbh *SocketBoardHandler) handleCursorEvent(sess *session, payload json.RawMessage) {
	if sess.roomKey == "" {
		sbh.sendError(sess, socketModels.ErrorCodeNotJoined, errs.ErrNotJoined.Error())
		return
	}

	var cursor board.Cursor
	if err := json.Unmarshal(payload, &cursor); err != nil {
		sbh.sendError(sess, socketModels.ErrorCodeBadPayload, err.Error())
		return
	}

	if !sbh.boardService.UpdateCursor(sess.roomKey, sess.client.ID, &cursor) {
		return
	}

	sbh.broadcast(sess.roomKey, sess.client.ID, socketModels.ServerEvent{
		Event: enums.SOCKET_EVENT_CURSOR,
		Payload: socketModels.CursorBroadcastPayload{
			ConnectionID: sess.client.ID,
			Cursor:       &cursor,
		},
	})
}

func (sbh *SocketBoardHandler) handleUndoEvent(sess *session) {
	if sess.roomKey == "" {
		sbh.sendError(sess, socketModels.ErrorCodeNotJoined, errs.ErrNotJoined.Error())
		return
	}

	inverse, err := sbh.boardService.Undo(sess.roomKey)
	if err != nil {
		sbh.sendError(sess, socketModels.ErrorCodeNothingToUndo, err.Error())
		return
	}

	// The inverse goes to everyone, requester included, since the
	// requester's local prediction may differ from the computed inverse.
	sbh.broadcast(sess.roomKey, "", socketModels.ServerEvent{
		Event:   enums.SOCKET_EVENT_ACTION,
		Payload: inverse,
	})
}

func (sbh *SocketBoardHandler) handleRedoEvent(sess *session) {
	if sess.roomKey == "" {
		sbh.sendError(sess, socketModels.ErrorCodeNotJoined, errs.ErrNotJoined.Error())
		return
	}

	effect, err := sbh.boardService.Redo(sess.roomKey)
	if err != nil {
		sbh.sendError(sess, socketModels.ErrorCodeNothingToRedo, err.Error())
		return
	}

	sbh.broadcast(sess.roomKey, "", socketModels.ServerEvent{
		Event:   enums.SOCKET_EVENT_ACTION,
		Payload: effect,
	})
}

// handleDisconnect covers both explicit leave_room and dropped connections;
// an already-accepted action is never rolled back.
func (sbh *SocketBoardHandler) handleDisconnect(sess *session) {
	sbh.leaveRoom(sess)
}

func (sbh *SocketBoardHandler) leaveRoom(sess *session) {
	if sess.roomKey == "" {
		return
	}
	roomKey := sess.roomKey
	sess.roomKey = ""

	left, destroyed := sbh.boardService.Leave(roomKey, sess.client.ID)
	sbh.hub.Remove(roomKey, sess.client.ID)
	if destroyed {
		log.Printf("Room %v destroyed (empty)", roomKey)
	}
	if !left {
		return
	}

	sbh.broadcast(roomKey, sess.client.ID, socketModels.ServerEvent{
		Event: enums.SOCKET_EVENT_USER_LEFT,
		Payload: socketModels.UserLeftPayload{
			ConnectionID: sess.client.ID,
		},
	})
}

func (sbh *SocketBoardHandler) sendError(sess *session, code, message string) {
	err := sess.client.Send(socketModels.ServerEvent{
		Event: enums.SOCKET_EVENT_ERROR,
		Payload: socketModels.ErrorPayload{
			Code:    code,
			Message: message,
		},
	})
	if err != nil {
		log.Printf("Error sending error event to connection %v: %v", sess.client.ID, err)
	}
}

// broadcast fans an event out to the room's local members and, when the
// relay is enabled, publishes it for members connected to other instances.
func (sbh *SocketBoardHandler) broadcast(roomKey, excludeConnectionID string, event socketModels.ServerEvent) {
	sbh.hub.Broadcast(roomKey, excludeConnectionID, event)
	sbh.publishRelayEvent(roomKey, excludeConnectionID, event)
}

func (sbh *SocketBoardHandler) publishRelayEvent(roomKey, excludeConnectionID string, event socketModels.ServerEvent) {
	if sbh.redis == nil {
		return
	}
	relay := redisModels.RelayEvent{
		Origin:              sbh.instanceID,
		RoomKey:             roomKey,
		ExcludeConnectionID: excludeConnectionID,
		Event:               event,
	}
	jsonEvent, err := json.Marshal(relay)
	if err != nil {
		log.Printf("Error marshalling relay event: %v", err)
		return
	}
	channel := sbh.cfg.Viper.GetString("redis.channel")
	if err := sbh.redis.Publish(sbh.ctx, channel, jsonEvent).Err(); err != nil {
		log.Printf("Error publishing relay event: %v", err)
	}
}

func (sbh *SocketBoardHandler) handleRedisMessages() {
	channel := sbh.cfg.Viper.GetString("redis.channel")
	pubsub := sbh.redis.Subscribe(sbh.ctx, channel)
	if _, err := pubsub.Receive(sbh.ctx); err != nil {
		log.Fatalf("Could not subscribe to channel %v: %v", channel, err)
	}
	for msg := range pubsub.Channel() {
		var relay redisModels.RelayEvent
		if err := json.Unmarshal([]byte(msg.Payload), &relay); err != nil {
			log.Printf("Error unmarshalling relay event: %v", err)
			continue
		}
		if relay.Origin == sbh.instanceID {
			continue
		}
		sbh.hub.Broadcast(relay.RoomKey, relay.ExcludeConnectionID, relay.Event)
	}
}
