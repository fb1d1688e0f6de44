package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/cozyGarage/ft-transcendence/internal/config"
	"github.com/cozyGarage/ft-transcendence/internal/game"
	"github.com/cozyGarage/ft-transcendence/internal/service"
	ws "github.com/cozyGarage/ft-transcendence/internal/websocket"
	jwtutil "github.com/cozyGarage/ft-transcendence/pkg/jwt"
)

// WSHandler 게임 WebSocket 엔드포인트 핸들러
type WSHandler struct {
	hub        *ws.Hub
	registry   *game.Registry
	roomQueue  *game.RoomQueue
	matchQueue *game.MatchQueue
	results    *service.ResultService
	jwtManager *jwtutil.Manager
	cfg        *config.Config
}

func NewWSHandler(
	hub *ws.Hub,
	registry *game.Registry,
	roomQueue *game.RoomQueue,
	matchQueue *game.MatchQueue,
	results *service.ResultService,
	cfg *config.Config,
) *WSHandler {
	return &WSHandler{
		hub:        hub,
		registry:   registry,
		roomQueue:  roomQueue,
		matchQueue: matchQueue,
		results:    results,
		jwtManager: jwtutil.NewManager(cfg.JWTSecret, cfg.JWTExpiration),
		cfg:        cfg,
	}
}

// identify 쿼리 파라미터 token으로 사용자 확인.
// WebSocket은 Authorization 헤더를 쓸 수 없어서 ?token=을 쓴다.
func (h *WSHandler) identify(c *gin.Context) (string, bool) {
	token := c.Query("token")
	if token == "" {
		return "", false
	}

	claims, err := h.jwtManager.Verify(token)
	if err != nil {
		return "", false
	}
	return claims.UserID, true
}

// Matchmaking 글로벌 매칭 큐 접속. 익명 허용 (클라이언트가 선언한
// ID가 식별자가 된다).
func (h *WSHandler) Matchmaking(c *gin.Context) {
	id := c.Param("id")

	ws.Serve(c.Writer, c.Request, id, func(client *ws.Client) ws.Session {
		s := game.NewMatchSession(client, h.hub, h.matchQueue, h.cfg.MatchWaitTimeout)
		if s == nil {
			return nil
		}
		return s
	})
}

// Game 일반 게임방 접속. 인증 필수 — 미인증 연결은 업그레이드 후
// 전용 코드로 닫아 클라이언트가 구분할 수 있게 한다.
func (h *WSHandler) Game(c *gin.Context) {
	roomName := c.Param("room")
	userID, ok := h.identify(c)

	ws.Serve(c.Writer, c.Request, userID, func(client *ws.Client) ws.Session {
		if !ok {
			client.CloseWithCode(ws.CloseUnauthorized, "authentication required")
			return nil
		}
		return game.NewGameSession(client, h.hub, h.registry, h.roomQueue,
			roomName, h.cfg.RoomWaitTimeout, game.NewRelayLoop)
	})
}

// Othello 오델로 방 접속. 인증 필수.
func (h *WSHandler) Othello(c *gin.Context) {
	roomName := c.Param("room")
	userID, ok := h.identify(c)

	ws.Serve(c.Writer, c.Request, userID, func(client *ws.Client) ws.Session {
		if !ok {
			client.CloseWithCode(ws.CloseUnauthorized, "authentication required")
			return nil
		}
		s := game.NewOthelloSession(client, h.hub, h.registry, h.results, roomName)
		if s == nil {
			return nil
		}
		return s
	})
}
