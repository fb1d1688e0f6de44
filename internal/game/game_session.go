package game

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cozyGarage/ft-transcendence/internal/websocket"
	"github.com/cozyGarage/ft-transcendence/pkg/logger"
)

// GameSession 일반 게임방 엔드포인트의 연결별 세션
//
// 접속 시 방 이름 큐에 들어가고, 페어링되면 방이 만들어진다.
// 첫 대기자는 waitTimeout 안에 상대가 없으면 타임아웃 코드로
// 닫힌다.
type GameSession struct {
	mu     sync.Mutex
	room   *Room
	closed bool

	conn     Conn
	hub      *websocket.Hub
	registry *Registry
	queue    *RoomQueue
	roomKey  string

	logger *zap.Logger
}

// NewGameSession 세션 생성. 큐 진입과 페어링 시도까지 수행한다.
func NewGameSession(
	conn Conn,
	hub *websocket.Hub,
	registry *Registry,
	queue *RoomQueue,
	roomName string,
	waitTimeout time.Duration,
	loops LoopFactory,
) *GameSession {
	s := &GameSession{
		conn:     conn,
		hub:      hub,
		registry: registry,
		queue:    queue,
		roomKey:  roomName,
		logger:   logger.Named("game"),
	}

	hub.Join(s.roomKey, conn)

	own, peer := queue.Join(s.roomKey, conn)
	if peer == nil {
		// 첫 대기자: 상대를 기다린다
		go s.waitForOpponent(own, waitTimeout)
		return s
	}

	// 두 번째 대기자: 방을 만들고 첫 대기자에게 전달
	loop := loops(s.roomKey, func(event any) {
		hub.Publish(s.roomKey, event)
	})
	room := registry.CreateRoom(s.roomKey, peer.Conn, conn, loop)
	s.room = room
	queue.Deliver(peer, room)

	hub.Publish(s.roomKey, GameEvent{Message: map[string]string{"status": "game_start"}})

	s.logger.Info("room paired",
		zap.String("room", s.roomKey),
		zap.String("player1", peer.Conn.ID()),
		zap.String("player2", conn.ID()))

	return s
}

// waitForOpponent 첫 대기자의 바운디드 대기
func (s *GameSession) waitForOpponent(w *Waiter, timeout time.Duration) {
	room, err := s.queue.Await(s.roomKey, w, timeout)
	switch err {
	case nil:
	case ErrWaitTimeout:
		s.logger.Info("pairing timed out",
			zap.String("room", s.roomKey),
			zap.String("player", s.conn.ID()))
		s.conn.CloseWithCode(websocket.ClosePairingTimeout, "no opponent found")
		return
	default:
		// 대기 중 연결 종료 — 큐에서 이미 제거됨
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		// 페어링과 동시에 연결이 끊김: 방 정리 경로로 넘긴다
		s.teardown(room)
		return
	}
	s.room = room
	s.mu.Unlock()
}

func (s *GameSession) currentRoom() *Room {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.room != nil {
		return s.room
	}

	// 페어링 방송 직후 waitForOpponent 고루틴이 room 포인터를
	// 기록하기 전에 메시지가 도착할 수 있다. 레지스트리에서 찾되,
	// 같은 키로 만들어진 남의 방은 받아들이지 않는다.
	if room, ok := s.registry.Room(s.roomKey); ok && room.Has(s.conn) {
		s.room = room
		return room
	}
	return nil
}

// OnMessage 수신 메시지 디스패치. 실패는 송신자에게만 에러 프레임.
func (s *GameSession) OnMessage(data []byte) {
	env, raw, err := decodeGameEnvelope(data)
	if err != nil {
		s.conn.Send(errorEvent("malformed message"))
		return
	}

	room := s.currentRoom()
	if room == nil {
		s.conn.Send(errorEvent("game has not started"))
		return
	}

	switch env.Message {
	case "firstdata":
		err = room.AssignFirstData(s.conn, raw)
	case "move":
		err = room.Move(s.conn, raw)
	case "pause":
		var changed bool
		changed, err = room.Pause(s.conn)
		if err == nil && changed {
			s.hub.Publish(s.roomKey, GameEvent{Message: map[string]string{"status": "paused"}})
		}
	case "resume":
		var changed bool
		changed, err = room.Resume(s.conn)
		if err == nil && changed {
			s.hub.Publish(s.roomKey, GameEvent{Message: map[string]string{"status": "resumed"}})
		}
	default:
		s.conn.Send(errorEvent("unknown message type"))
		return
	}

	if err != nil {
		s.conn.Send(errorEvent(err.Error()))
	}
}

// OnClose 연결 종료 정리: 큐 제거, 방 종료 처리, 그룹 탈퇴.
func (s *GameSession) OnClose() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	room := s.room
	s.mu.Unlock()

	s.queue.Remove(s.roomKey, s.conn)

	if room != nil {
		s.teardown(room)
	}

	s.hub.Leave(s.roomKey, s.conn)
}

// teardown 방 관점의 이탈 처리. 게임이 끝나기 전의 이탈이면 남은
// 참가자에게 terminate를 방송하고, 모두 떠났을 때만 방을 지운다.
func (s *GameSession) teardown(room *Room) {
	notify, deletable := room.HandleDisconnect(s.conn)

	if notify {
		// terminate가 전달된 뒤 남은 참가자를 그룹에서 빼고 닫는다.
		// 같은 방 이름으로 새 페어가 생겨도 이전 판의 생존자가 그
		// 방송을 받는 일이 없어야 한다. 닫힌 연결의 OnClose가
		// 나머지 정리를 수행한다.
		peer := room.Peer(s.conn)
		s.hub.PublishThen(s.roomKey,
			GameEvent{Message: map[string]string{"status": "terminate"}},
			func() {
				if peer != nil {
					s.hub.Leave(s.roomKey, peer)
					peer.CloseWithCode(websocket.CloseNormal, "game terminated")
				}
			})
		s.logger.Info("room terminated by disconnect",
			zap.String("room", s.roomKey),
			zap.String("player", s.conn.ID()))
	}

	if deletable {
		s.registry.RemoveRoom(s.roomKey, room)
	}
}
