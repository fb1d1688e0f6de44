package websocket

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeMember struct {
	id     string
	accept bool

	mu     sync.Mutex
	events []any
}

func newFakeMember(id string) *fakeMember {
	return &fakeMember{id: id, accept: true}
}

func (m *fakeMember) ID() string { return m.id }

func (m *fakeMember) Send(event any) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.accept {
		return false
	}
	m.events = append(m.events, event)
	return true
}

func (m *fakeMember) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

func TestHubPublishReachesGroup(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	a := newFakeMember("a")
	b := newFakeMember("b")
	hub.Join("room-1", a)
	hub.Join("room-1", b)
	assert.Equal(t, 2, hub.Count("room-1"))

	hub.Publish("room-1", "hello")
	assert.Eventually(t, func() bool {
		return a.count() == 1 && b.count() == 1
	}, time.Second, 5*time.Millisecond)

	hub.Leave("room-1", a)
	hub.Publish("room-1", "again")
	assert.Eventually(t, func() bool {
		return b.count() == 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, a.count(), "departed member receives nothing")

	hub.Leave("room-1", b)
	assert.Equal(t, 0, hub.Count("room-1"), "empty group is dropped")
}

func TestHubPublishThenRunsAfterDelivery(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	m := newFakeMember("m")
	hub.Join("room-1", m)

	delivered := make(chan int, 1)
	hub.PublishThen("room-1", "farewell", func() {
		delivered <- m.count()
	})

	select {
	case n := <-delivered:
		assert.Equal(t, 1, n, "callback sees the event already delivered")
	case <-time.After(time.Second):
		t.Fatal("callback never ran")
	}
}

func TestHubGroupsAreIsolated(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	a := newFakeMember("a")
	b := newFakeMember("b")
	hub.Join("room-1", a)
	hub.Join("room-2", b)

	hub.Publish("room-1", "only for a")
	assert.Eventually(t, func() bool {
		return a.count() == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, b.count())
}

func TestHubDropsFailingMember(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	healthy := newFakeMember("healthy")
	stale := newFakeMember("stale")
	stale.accept = false
	hub.Join("room-1", healthy)
	hub.Join("room-1", stale)

	// 한 멤버의 실패가 나머지 전달을 막지 않고, 실패한 멤버는
	// 그룹에서 제거된다
	hub.Publish("room-1", "tick")
	assert.Eventually(t, func() bool {
		return healthy.count() == 1 && hub.Count("room-1") == 1
	}, time.Second, 5*time.Millisecond)
}
