package websocket

import (
	"sync"

	"go.uber.org/zap"

	"github.com/cozyGarage/ft-transcendence/pkg/logger"
)

// Member 그룹에 참여할 수 있는 연결
type Member interface {
	ID() string
	Send(event any) bool
}

// broadcastReq 그룹 단위 방송 요청
type broadcastReq struct {
	group string
	event any
	then  func() // 전달 완료 후 실행할 후속 동작 (nil 가능)
}

// Hub 그룹(방) 단위 WebSocket 브로드캐스트 허브
//
// 그룹 키 -> 멤버 집합을 관리한다. Join/Leave는 동기적으로 처리해서
// game_start 방송 전에 멤버십이 확정되도록 하고, Publish는 채널을
// 통해 단일 고루틴에서 순서대로 전달한다.
type Hub struct {
	mu     sync.RWMutex
	groups map[string]map[Member]struct{}

	broadcast chan broadcastReq

	logger *zap.Logger
}

// NewHub Hub 생성
func NewHub() *Hub {
	return &Hub{
		groups:    make(map[string]map[Member]struct{}),
		broadcast: make(chan broadcastReq, 256),
		logger:    logger.Named("hub"),
	}
}

// Run 방송 루프 실행
func (h *Hub) Run() {
	for req := range h.broadcast {
		h.deliver(req.group, req.event)
		if req.then != nil {
			req.then()
		}
	}
}

// Join 그룹에 멤버 추가
func (h *Hub) Join(group string, m Member) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.groups[group]
	if !ok {
		members = make(map[Member]struct{})
		h.groups[group] = members
	}
	members[m] = struct{}{}

	h.logger.Debug("member joined group",
		zap.String("group", group),
		zap.String("member", m.ID()),
		zap.Int("size", len(members)))
}

// Leave 그룹에서 멤버 제거 (빈 그룹은 즉시 삭제)
func (h *Hub) Leave(group string, m Member) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.groups[group]
	if !ok {
		return
	}
	delete(members, m)
	if len(members) == 0 {
		delete(h.groups, group)
	}
}

// Publish 그룹의 모든 멤버에게 이벤트 방송
func (h *Hub) Publish(group string, event any) {
	h.broadcast <- broadcastReq{group: group, event: event}
}

// PublishThen 이벤트를 방송한 뒤 then을 실행한다. 이벤트를 먼저
// 받아야 하는 멤버의 종료 처리처럼 전달과 후속 동작의 순서가
// 보장되어야 할 때 쓴다.
func (h *Hub) PublishThen(group string, event any, then func()) {
	h.broadcast <- broadcastReq{group: group, event: event, then: then}
}

// Count 그룹의 현재 멤버 수
func (h *Hub) Count(group string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[group])
}

// deliver 멤버별 best-effort 전달. 한 멤버의 실패가 나머지 전달을
// 막지 않는다. 송신 버퍼가 가득 찬 멤버는 그룹에서 제거한다.
func (h *Hub) deliver(group string, event any) {
	h.mu.RLock()
	members := make([]Member, 0, len(h.groups[group]))
	for m := range h.groups[group] {
		members = append(members, m)
	}
	h.mu.RUnlock()

	var stale []Member
	for _, m := range members {
		if !m.Send(event) {
			h.logger.Warn("member send failed, dropping from group",
				zap.String("group", group),
				zap.String("member", m.ID()))
			stale = append(stale, m)
		}
	}

	for _, m := range stale {
		h.Leave(group, m)
	}
}
