package game

import (
	"encoding/json"
	"sync"
	"time"
)

// RoomStatus 방 생명주기 상태
//
//	waiting → active ⇄ paused
//	   └──────┴────┴──→ terminated
type RoomStatus string

const (
	StatusWaiting    RoomStatus = "waiting"    // 방 생성됨, firstdata 대기
	StatusActive     RoomStatus = "active"     // 게임 진행 중
	StatusPaused     RoomStatus = "paused"     // 일시정지
	StatusTerminated RoomStatus = "terminated" // 종료 (재개 불가)
)

// Room 일반 2인 게임방. 모든 상태 변경은 방 단위 뮤텍스로 직렬화되어
// 두 연결이 동시에 액션을 보내도 순서가 보장된다.
type Room struct {
	mu sync.Mutex

	key     string
	players [2]Conn
	status  RoomStatus
	loop    GameLoop

	assigned map[string]bool // firstdata를 보낸 참가자
	departed map[string]bool // 연결을 끊은 참가자 (중복 disconnect 멱등 처리)
	closed   int

	createdAt time.Time
}

// NewRoom 페어링된 두 참가자로 방 생성
func NewRoom(key string, p1, p2 Conn, loop GameLoop) *Room {
	return &Room{
		key:       key,
		players:   [2]Conn{p1, p2},
		status:    StatusWaiting,
		loop:      loop,
		assigned:  make(map[string]bool),
		departed:  make(map[string]bool),
		createdAt: time.Now(),
	}
}

// Key 방 키
func (r *Room) Key() string {
	return r.key
}

// Status 현재 상태
func (r *Room) Status() RoomStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Has c가 이 방의 참가자인지 확인
func (r *Room) Has(c Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.players {
		if p != nil && p.ID() == c.ID() {
			return true
		}
	}
	return false
}

// Peer 상대 참가자
func (r *Room) Peer(c Conn) Conn {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.players[0] != nil && r.players[0].ID() == c.ID() {
		return r.players[1]
	}
	return r.players[0]
}

// AssignFirstData 참가자의 초기 데이터 등록. 양쪽 모두 등록하면
// 방이 active로 전이된다.
func (r *Room) AssignFirstData(from Conn, payload json.RawMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusWaiting {
		return ErrWrongState
	}

	if err := r.loop.AssignData(from.ID(), payload); err != nil {
		return err
	}

	r.assigned[from.ID()] = true
	if len(r.assigned) == 2 {
		r.status = StatusActive
	}

	return nil
}

// Move 이동 입력 전달. active 상태에서만 허용된다.
func (r *Room) Move(from Conn, payload json.RawMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusActive {
		return ErrGameNotActive
	}

	return r.loop.Move(from.ID(), payload)
}

// Pause 일시정지. 이미 paused면 no-op 승인 (changed=false).
func (r *Room) Pause(from Conn) (changed bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.status {
	case StatusActive:
		r.status = StatusPaused
		r.loop.Pause()
		return true, nil
	case StatusPaused:
		return false, nil
	default:
		return false, ErrWrongState
	}
}

// Resume 재개. 이미 active면 no-op 승인 (changed=false).
func (r *Room) Resume(from Conn) (changed bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.status {
	case StatusPaused:
		r.status = StatusActive
		r.loop.Resume()
		return true, nil
	case StatusActive:
		return false, nil
	default:
		return false, ErrWrongState
	}
}

// HandleDisconnect 참가자 이탈 처리. 중복 호출은 무시된다.
//
// notifyTerminate: 방이 이번 이탈로 종료되어 남은 참가자에게
// terminate를 방송해야 하는 경우 true.
// deletable: 모든 참가자가 떠나 방 테이블에서 제거해도 되는 경우 true.
// 종료된 방이라도 상대가 남아 있으면 유지해서, 상대가 terminate
// 이벤트를 받은 뒤에 정리되도록 한다.
func (r *Room) HandleDisconnect(c Conn) (notifyTerminate, deletable bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.departed[c.ID()] {
		return false, false
	}
	r.departed[c.ID()] = true
	r.closed++

	if r.status != StatusTerminated {
		r.status = StatusTerminated
		r.loop.Cancel(c.ID())
		notifyTerminate = true
	}

	return notifyTerminate, r.closed >= len(r.players)
}
