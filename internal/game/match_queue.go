package game

import (
	"fmt"
	"sync"
	"time"
)

// Pairing 글로벌 매칭 성공 결과
type Pairing struct {
	RoomKey string
	Player1 Conn // 먼저 대기열에 들어온 쪽
	Player2 Conn
}

// MatchWaiter 글로벌 매칭 큐의 대기자
type MatchWaiter struct {
	Conn Conn

	ready  chan *Pairing
	cancel chan struct{}
}

// MatchQueue 전역 단일 FIFO 매칭 큐
//
// 익명 연결이 선언한 ID를 키로 쓴다. 같은 ID의 중복 진입은 기존
// 항목을 건드리지 않고 즉시 거부된다. 페어링 후의 시작 준비
// 핸드셰이크(ready 카운트)도 같은 뮤텍스 아래에서 관리한다.
type MatchQueue struct {
	mu      sync.Mutex
	waiting []*MatchWaiter
	lobbies map[string]int // 방 키 -> start를 보낸 참가자 수
}

// NewMatchQueue 큐 생성
func NewMatchQueue() *MatchQueue {
	return &MatchQueue{lobbies: make(map[string]int)}
}

// Join 대기열 진입. 두 번째 대기자가 되면 가장 오래된 둘을 꺼내
// Pairing을 만들어 돌려준다 (자기 자신 포함). peer의 ready 채널
// 전달은 호출자 몫이다.
func (q *MatchQueue) Join(c Conn) (own *MatchWaiter, peer *MatchWaiter, pairing *Pairing, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, w := range q.waiting {
		if w.Conn.ID() == c.ID() {
			return nil, nil, nil, ErrAlreadyQueued
		}
	}

	own = &MatchWaiter{
		Conn:   c,
		ready:  make(chan *Pairing, 1),
		cancel: make(chan struct{}),
	}
	q.waiting = append(q.waiting, own)

	if len(q.waiting) < 2 {
		return own, nil, nil, nil
	}

	// 가장 오래된 두 명을 원자적으로 꺼낸다
	p1 := q.waiting[0]
	p2 := q.waiting[1]
	q.waiting = q.waiting[2:]

	// 방 키는 꺼낸 순서대로 두 ID를 이어 붙여 만든다
	key := fmt.Sprintf("game_%s-%s", p2.Conn.ID(), p1.Conn.ID())
	pairing = &Pairing{
		RoomKey: key,
		Player1: p1.Conn,
		Player2: p2.Conn,
	}
	q.lobbies[key] = 0

	if p1 == own {
		peer = p2
	} else {
		peer = p1
	}
	return own, peer, pairing, nil
}

// Deliver 페어링 결과를 대기자에게 전달
func (q *MatchQueue) Deliver(w *MatchWaiter, p *Pairing) {
	w.ready <- p
}

// Await 상대가 나타날 때까지 timeout 한도로 대기한다.
// 타임아웃/취소와 페어링 성공의 배타성은 RoomQueue.Await와 같다.
func (q *MatchQueue) Await(w *MatchWaiter, timeout time.Duration) (*Pairing, error) {
	select {
	case p := <-w.ready:
		return p, nil
	case <-w.cancel:
		return nil, ErrWaitCancelled
	case <-time.After(timeout):
	}

	q.mu.Lock()
	removed := q.removeLocked(w)
	q.mu.Unlock()

	if removed {
		return nil, ErrWaitTimeout
	}

	select {
	case p := <-w.ready:
		return p, nil
	case <-w.cancel:
		return nil, ErrWaitCancelled
	}
}

// Remove 연결 해제된 대기자를 제거한다. 이미 페어링됐으면 no-op.
func (q *MatchQueue) Remove(c Conn) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, w := range q.waiting {
		if w.Conn == c {
			if q.removeLocked(w) {
				close(w.cancel)
				return true
			}
			return false
		}
	}
	return false
}

func (q *MatchQueue) removeLocked(w *MatchWaiter) bool {
	for i, entry := range q.waiting {
		if entry == w {
			q.waiting = append(q.waiting[:i], q.waiting[i+1:]...)
			return true
		}
	}
	return false
}

// MarkReady 참가자의 start 수신 기록. 현재 카운트를 반환한다.
func (q *MatchQueue) MarkReady(roomKey string) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.lobbies[roomKey]; !ok {
		return 0
	}
	q.lobbies[roomKey]++
	return q.lobbies[roomKey]
}

// LeaveLobby 페어링된 참가자의 이탈. 남은 수가 0이면 로비 항목을
// 삭제한다. 이미 삭제된 키면 no-op (동시 정리 경합).
func (q *MatchQueue) LeaveLobby(roomKey string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	count, ok := q.lobbies[roomKey]
	if !ok {
		return
	}
	count--
	if count <= 0 {
		delete(q.lobbies, roomKey)
		return
	}
	q.lobbies[roomKey] = count
}

// Len 현재 대기자 수 (테스트용)
func (q *MatchQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.waiting)
}
