package game

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cozyGarage/ft-transcendence/internal/websocket"
	"github.com/cozyGarage/ft-transcendence/pkg/logger"
)

// MatchSession 글로벌 매칭 큐 엔드포인트의 연결별 세션
//
// 익명 연결이 선언한 ID로 큐에 들어가고, 가장 오래된 둘이
// 페어링되어 파생된 방 키를 받는다. 페어링 후 양쪽이 start를 보내면
// 시작 카운트다운이 방송된다.
type MatchSession struct {
	mu      sync.Mutex
	closed  bool
	roomKey string

	conn  Conn
	hub   *websocket.Hub
	queue *MatchQueue

	logger *zap.Logger
}

// NewMatchSession 세션 생성. 중복 ID는 기존 항목을 건드리지 않고
// 중복 진입 코드로 닫은 뒤 nil을 반환한다.
func NewMatchSession(
	conn Conn,
	hub *websocket.Hub,
	queue *MatchQueue,
	waitTimeout time.Duration,
) *MatchSession {
	s := &MatchSession{
		conn:   conn,
		hub:    hub,
		queue:  queue,
		logger: logger.Named("matchmaking"),
	}

	own, peer, pairing, err := queue.Join(conn)
	if err != nil {
		conn.CloseWithCode(websocket.CloseDuplicateEntry, "already in queue")
		return nil
	}

	if pairing == nil {
		// 첫 대기자: 상대를 기다린다
		go s.waitForOpponent(own, waitTimeout)
		return s
	}

	// 페어링 완성: 그룹 구성 후 양쪽에 통지
	s.roomKey = pairing.RoomKey
	hub.Join(pairing.RoomKey, pairing.Player1)
	hub.Join(pairing.RoomKey, pairing.Player2)
	queue.Deliver(peer, pairing)

	hub.Publish(pairing.RoomKey, GameEvent{Message: MatchFoundEvent{
		Text:          "Opponent found",
		RoomGroupName: pairing.RoomKey,
		User1:         pairing.Player1.ID(),
		User2:         pairing.Player2.ID(),
	}})

	s.logger.Info("match found",
		zap.String("room", pairing.RoomKey),
		zap.String("player1", pairing.Player1.ID()),
		zap.String("player2", pairing.Player2.ID()))

	return s
}

// waitForOpponent 첫 대기자의 바운디드 대기. 페어링되면 그룹
// 참여는 상대 세션이 이미 해 줬으므로 방 키만 기록한다.
func (s *MatchSession) waitForOpponent(w *MatchWaiter, timeout time.Duration) {
	pairing, err := s.queue.Await(w, timeout)
	switch err {
	case nil:
	case ErrWaitTimeout:
		s.logger.Info("matchmaking timed out",
			zap.String("player", s.conn.ID()))
		s.conn.CloseWithCode(websocket.ClosePairingTimeout, "no opponent found")
		return
	default:
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		// 페어링과 동시에 연결이 끊김
		s.hub.Leave(pairing.RoomKey, s.conn)
		s.queue.LeaveLobby(pairing.RoomKey)
		return
	}
	s.roomKey = pairing.RoomKey
	s.mu.Unlock()
}

func (s *MatchSession) currentRoomKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roomKey
}

// OnMessage start 핸드셰이크 처리
func (s *MatchSession) OnMessage(data []byte) {
	var env gameEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		s.conn.Send(errorEvent("malformed message"))
		return
	}

	switch env.Message {
	case "start":
		key := s.currentRoomKey()
		if key == "" {
			s.conn.Send(errorEvent("not paired yet"))
			return
		}
		if s.queue.MarkReady(key) == 2 {
			go s.countdown(key)
		}
	default:
		s.conn.Send(errorEvent("unknown message type"))
	}
}

// countdown 시작 전 카운트다운 방송 (3,2,1,0 — 1초 간격)
func (s *MatchSession) countdown(roomKey string) {
	for i := 3; i >= 0; i-- {
		s.hub.Publish(roomKey, GameEvent{Message: TimerEvent{Time: i}})
		time.Sleep(time.Second)
	}
}

// OnClose 큐/로비 정리. 대기 중이면 큐 제거로 대기 고루틴이
// 취소되고, 페어링 후면 로비 카운트만 내린다.
func (s *MatchSession) OnClose() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	key := s.roomKey
	s.mu.Unlock()

	s.queue.Remove(s.conn)

	if key != "" {
		s.hub.Leave(key, s.conn)
		s.queue.LeaveLobby(key)
	}
}
