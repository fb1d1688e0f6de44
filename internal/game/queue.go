package game

import (
	"sync"
	"time"
)

// Waiter 방 이름 큐에서 대기 중인 연결 하나
type Waiter struct {
	Conn Conn

	ready  chan *Room    // 페어링 완료 시 방이 전달됨
	cancel chan struct{} // 대기 중 연결이 끊기면 닫힘
}

// RoomQueue 방 이름(클라이언트 지정 키)별 FIFO 대기열
//
// 삽입, 길이 확인, 두 명 꺼내기가 하나의 뮤텍스 아래에서 원자적으로
// 일어난다. 세 번째/네 번째 동시 진입자가 둘 다 페어링을 완성했다고
// 믿는 일이 없고, 제거된 대기자는 이후 절대 페어링되지 않는다.
type RoomQueue struct {
	mu      sync.Mutex
	waiting map[string][]*Waiter
}

// NewRoomQueue 큐 생성
func NewRoomQueue() *RoomQueue {
	return &RoomQueue{waiting: make(map[string][]*Waiter)}
}

// Join 대기열 진입. 같은 키에 이미 한 명이 기다리고 있었다면 그
// 대기자(peer)를 꺼내서 돌려준다 — 호출자가 방을 만들고
// Deliver로 전달할 책임을 진다. peer가 nil이면 호출자가 첫
// 대기자이며, 반환된 own으로 Await를 호출해 기다린다.
func (q *RoomQueue) Join(key string, c Conn) (own *Waiter, peer *Waiter) {
	q.mu.Lock()
	defer q.mu.Unlock()

	w := &Waiter{
		Conn:   c,
		ready:  make(chan *Room, 1),
		cancel: make(chan struct{}),
	}

	entries := q.waiting[key]
	if len(entries) >= 1 {
		// 가장 오래된 대기자와 즉시 페어링
		peer = entries[0]
		rest := entries[1:]
		if len(rest) == 0 {
			delete(q.waiting, key)
		} else {
			q.waiting[key] = rest
		}
		return w, peer
	}

	q.waiting[key] = append(entries, w)
	return w, nil
}

// Deliver 페어링 결과 방을 대기자에게 전달
func (q *RoomQueue) Deliver(w *Waiter, room *Room) {
	w.ready <- room
}

// Await 상대가 나타날 때까지 timeout 한도로 대기한다.
//
// 타임아웃과 페어링 성공은 같은 결정 지점(큐 멤버십 확인)의 상호
// 배타적 결과다: 타임아웃이 울려도 이미 꺼내졌다면 페어링이 이긴
// 것으로 보고 방 전달을 기다린다.
func (q *RoomQueue) Await(key string, w *Waiter, timeout time.Duration) (*Room, error) {
	select {
	case room := <-w.ready:
		return room, nil
	case <-w.cancel:
		return nil, ErrWaitCancelled
	case <-time.After(timeout):
	}

	q.mu.Lock()
	removed := q.removeLocked(key, w)
	q.mu.Unlock()

	if removed {
		return nil, ErrWaitTimeout
	}

	// 타임아웃 직전에 페어링됨 — 방 전달이 임박
	select {
	case room := <-w.ready:
		return room, nil
	case <-w.cancel:
		return nil, ErrWaitCancelled
	}
}

// Remove 연결 해제된 대기자를 큐에서 제거한다. 이미 페어링되어 큐에
// 없으면 false를 반환하고 아무 일도 하지 않는다.
func (q *RoomQueue) Remove(key string, c Conn) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, w := range q.waiting[key] {
		if w.Conn == c {
			if q.removeLocked(key, w) {
				close(w.cancel)
				return true
			}
			return false
		}
	}
	return false
}

// removeLocked 대기자 제거. 빈 키는 즉시 삭제한다 (메모리 바운드).
func (q *RoomQueue) removeLocked(key string, w *Waiter) bool {
	entries := q.waiting[key]
	for i, entry := range entries {
		if entry == w {
			entries = append(entries[:i], entries[i+1:]...)
			if len(entries) == 0 {
				delete(q.waiting, key)
			} else {
				q.waiting[key] = entries
			}
			return true
		}
	}
	return false
}

// Len 키의 현재 대기자 수 (테스트용)
func (q *RoomQueue) Len(key string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.waiting[key])
}

// Keys 대기자가 남아 있는 키 수 (테스트용)
func (q *RoomQueue) Keys() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.waiting)
}
