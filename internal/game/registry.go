package game

import "sync"

// Registry 프로세스 전역 방 테이블. 모든 접근이 한 뮤텍스로
// 직렬화되며, 각 액터에 참조로 주입된다 (암묵적 전역 상태 금지).
type Registry struct {
	mu      sync.Mutex
	rooms   map[string]*Room
	othello map[string]*OthelloRoom
}

// NewRegistry 레지스트리 생성
func NewRegistry() *Registry {
	return &Registry{
		rooms:   make(map[string]*Room),
		othello: make(map[string]*OthelloRoom),
	}
}

// CreateRoom 일반 게임방 생성 및 등록
func (g *Registry) CreateRoom(key string, p1, p2 Conn, loop GameLoop) *Room {
	room := NewRoom(key, p1, p2, loop)

	g.mu.Lock()
	g.rooms[key] = room
	g.mu.Unlock()

	return room
}

// Room 키로 일반 게임방 조회
func (g *Registry) Room(key string) (*Room, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	room, ok := g.rooms[key]
	return room, ok
}

// RemoveRoom 일반 게임방 제거. 같은 키로 이미 새 방이 만들어졌거나
// 동시 정리로 비어 있으면 no-op.
func (g *Registry) RemoveRoom(key string, room *Room) {
	g.mu.Lock()
	if g.rooms[key] == room {
		delete(g.rooms, key)
	}
	g.mu.Unlock()
}

// GetOrCreateOthello 오델로 방 조회, 없으면 초기 보드로 생성
func (g *Registry) GetOrCreateOthello(key string) *OthelloRoom {
	g.mu.Lock()
	defer g.mu.Unlock()

	room, ok := g.othello[key]
	if !ok {
		room = NewOthelloRoom(key)
		g.othello[key] = room
	}
	return room
}

// RemoveOthello 오델로 방 제거. 멱등.
func (g *Registry) RemoveOthello(key string, room *OthelloRoom) {
	g.mu.Lock()
	if g.othello[key] == room {
		delete(g.othello, key)
	}
	g.mu.Unlock()
}

// RoomCount 등록된 방 수 (일반 + 오델로)
func (g *Registry) RoomCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.rooms) + len(g.othello)
}
