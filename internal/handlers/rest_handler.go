package handlers

import (
	"log"
	"net/http"
	"socketBoard/configs"
	"socketBoard/internal/errs"
	"socketBoard/internal/models"
	"socketBoard/internal/msgs"
	"socketBoard/internal/services"
	"socketBoard/internal/utils"
	"time"

	"github.com/gin-gonic/gin"
)

type RestHandler struct {
	boardService *services.BoardService
	cfg          *configs.Config
}

func NewRestHandler(boardService *services.BoardService, cfg *configs.Config) *RestHandler {
	return &RestHandler{
		boardService: boardService,
		cfg:          cfg,
	}
}

// Health godoc
// @Summary      Liveness probe
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (rh *RestHandler) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

type EnsureRoomRequestBody struct {
	Key string `json:"key"`
}

// EnsureRoom godoc
// @Summary      Ensure a room exists
// @Description  Idempotent: creates the room on first reference, otherwise returns the existing one
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Success      200  {object}  models.Response
// @Failure      400  {object}  models.Response
// @Router       /api/rooms [post]
func (rh *RestHandler) EnsureRoom(ctx *gin.Context) {
	var body EnsureRoomRequestBody
	if err := ctx.BindJSON(&body); err != nil {
		log.Println("Error ensure room json binding:", err)
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  models.ErrorsToStrings([]error{errs.ErrInvalidRequestBody}),
		})
		return
	}

	info, ensureErrs := rh.boardService.EnsureRoom(body.Key)
	if len(ensureErrs) > 0 {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  models.ErrorsToStrings(ensureErrs),
		})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgRoomEnsured,
		Data:    info,
	})
}

// GetRoom godoc
// @Summary      Get a live room
// @Tags         rooms
// @Produce      json
// @Param        key  path      string  true  "Room key"
// @Success      200  {object}  models.Response
// @Failure      404  {object}  models.Response
// @Router       /api/rooms/{key} [get]
func (rh *RestHandler) GetRoom(ctx *gin.Context) {
	info, ok := rh.boardService.RoomInfo(ctx.Param("key"))
	if !ok {
		ctx.AbortWithStatusJSON(http.StatusNotFound, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  models.ErrorsToStrings([]error{errs.ErrInvalidRoomKey}),
		})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    info,
	})
}

// Stats godoc
// @Summary      Active room and connection counts
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /api/stats [get]
func (rh *RestHandler) Stats(ctx *gin.Context) {
	memberCounts := rh.boardService.MemberCounts()
	clients := 0
	for _, count := range memberCounts {
		clients += count
	}
	ctx.JSON(http.StatusOK, gin.H{
		"active_rooms":   rh.boardService.RoomCount(),
		"active_clients": clients,
		"rooms":          memberCounts,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	})
}

type IssueTokenRequestBody struct {
	Name string `json:"name"`
}

type IssueTokenResponse struct {
	Token string `json:"token"`
}

// IssueToken godoc
// @Summary      Issue a guest token
// @Description  Returns a signed token carrying the display name, required by the socket route when auth is enabled
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  models.Response
// @Failure      400  {object}  models.Response
// @Router       /api/auth/token [post]
func (rh *RestHandler) IssueToken(ctx *gin.Context) {
	var body IssueTokenRequestBody
	if err := ctx.BindJSON(&body); err != nil || body.Name == "" {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  models.ErrorsToStrings([]error{errs.ErrDisplayNameRequired}),
		})
		return
	}

	expiration := time.Now().Add(time.Duration(rh.cfg.Viper.GetInt("auth.token_ttl_hours")) * time.Hour)
	token, err := utils.CreateJwtToken(body.Name, []byte(rh.cfg.Viper.GetString("auth.jwt_key")), expiration)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  models.ErrorsToStrings([]error{err}),
		})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgTokenIssued,
		Data:    IssueTokenResponse{Token: token},
	})
}
