package game

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cozyGarage/ft-transcendence/internal/websocket"
	"github.com/cozyGarage/ft-transcendence/pkg/logger"
)

// ResultSink 종료된 게임 결과를 넘기는 영속화 협력자.
// fire-and-forget 계약: 구현이 실패를 삼키고 절대 전파하지 않는다.
type ResultSink interface {
	PersistResult(mode string, player1, player2 string, score1, score2 int,
		winner string, moveCount int, duration time.Duration)
}

// OthelloSession 오델로 엔드포인트의 연결별 세션
type OthelloSession struct {
	mu     sync.Mutex
	closed bool

	conn     Conn
	hub      *websocket.Hub
	registry *Registry
	results  ResultSink

	room  *OthelloRoom
	color Cell
	group string

	logger *zap.Logger
}

// NewOthelloSession 세션 생성. 좌석 배정까지 수행하며, 방이 가득
// 찼으면 연결을 정원 초과 코드로 닫고 nil을 반환한다.
func NewOthelloSession(
	conn Conn,
	hub *websocket.Hub,
	registry *Registry,
	results ResultSink,
	roomName string,
) *OthelloSession {
	group := "othello_" + roomName
	room := registry.GetOrCreateOthello(group)

	color, start, err := room.AddPlayer(conn)
	if err != nil {
		conn.CloseWithCode(websocket.CloseRoomFull, "room is full")
		return nil
	}

	s := &OthelloSession{
		conn:     conn,
		hub:      hub,
		registry: registry,
		results:  results,
		room:     room,
		color:    color,
		group:    group,
		logger:   logger.Named("othello"),
	}

	hub.Join(group, conn)

	colorName := "Black"
	if color == CellWhite {
		colorName = "White"
	}
	conn.Send(PlayerAssignedEvent{
		Type:    "player_assigned",
		Color:   color,
		Message: "You are playing as " + colorName,
	})

	if start {
		board, current := room.Snapshot()
		hub.Publish(group, GameStartEvent{
			Type:          "game_start",
			Board:         board,
			CurrentPlayer: current,
		})
		s.logger.Info("othello game started",
			zap.String("room", group))
	}

	return s
}

// OnMessage 수신 디스패치: make_move / chat. 알 수 없는 타입은
// 송신자에게만 에러 프레임.
func (s *OthelloSession) OnMessage(data []byte) {
	var env othelloEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		s.conn.Send(errorEvent("malformed message"))
		return
	}

	switch env.Type {
	case "make_move":
		s.handleMove(env.Row, env.Col)
	case "chat":
		s.hub.Publish(s.group, ChatEvent{
			Type:    "chat",
			Message: env.Message,
			Sender:  s.color,
		})
	default:
		s.conn.Send(errorEvent("unknown message type"))
	}
}

// handleMove 수 검증 및 적용. 거부된 수는 방송/상태 변경/차례 변경
// 없이 송신자에게만 에러를 돌려준다.
func (s *OthelloSession) handleMove(row, col int) {
	outcome, err := s.room.MakeMove(s.conn, row, col)
	if err != nil {
		switch err {
		case ErrNotYourTurn:
			s.conn.Send(errorEvent("Not your turn"))
		case ErrInvalidMove:
			s.conn.Send(errorEvent("Invalid move"))
		default:
			s.conn.Send(errorEvent(err.Error()))
		}
		return
	}

	if outcome.Over {
		var winner *Cell
		if outcome.Winner != "" {
			winner = &outcome.Winner
		}
		s.hub.Publish(s.group, GameOverEvent{
			Type:   "game_over",
			Board:  outcome.Board,
			Winner: winner,
			Score:  outcome.Score,
		})

		result := s.room.Result()
		s.results.PersistResult("othello",
			result.BlackID, result.WhiteID,
			result.BlackScore, result.WhiteScore,
			result.WinnerID, result.MoveCount, result.Duration)

		s.logger.Info("othello game over",
			zap.String("room", s.group),
			zap.String("winner", string(outcome.Winner)),
			zap.Int("black", outcome.Score[CellBlack]),
			zap.Int("white", outcome.Score[CellWhite]))
		return
	}

	s.hub.Publish(s.group, MoveMadeEvent{
		Type:          "move_made",
		Board:         outcome.Board,
		CurrentPlayer: outcome.CurrentPlayer,
		Row:           outcome.Row,
		Col:           outcome.Col,
	})
}

// OnClose 좌석 반납과 상대 통지. 게임이 끝나기 전의 이탈이면
// player_disconnected를 방송한다. 방은 모두 떠났을 때만 지운다.
func (s *OthelloSession) OnClose() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	notify, empty := s.room.RemovePlayer(s.conn)

	if notify {
		s.hub.Publish(s.group, PlayerDisconnectedEvent{
			Type:    "player_disconnected",
			Message: "Opponent disconnected",
		})
	}

	if empty {
		s.registry.RemoveOthello(s.group, s.room)
	}

	s.hub.Leave(s.group, s.conn)
}
