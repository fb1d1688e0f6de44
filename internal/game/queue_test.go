package game

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomQueuePairsInOrder(t *testing.T) {
	q := NewRoomQueue()
	a := newFakeConn("a")
	b := newFakeConn("b")

	ownA, peer := q.Join("arena", a)
	require.Nil(t, peer)

	done := make(chan *Room, 1)
	go func() {
		room, err := q.Await("arena", ownA, time.Second)
		require.NoError(t, err)
		done <- room
	}()

	_, peer = q.Join("arena", b)
	require.NotNil(t, peer)
	assert.Equal(t, a, peer.Conn, "oldest waiter pairs first")

	room := NewRoom("arena", peer.Conn, b, nil)
	q.Deliver(peer, room)

	select {
	case got := <-done:
		assert.Same(t, room, got)
	case <-time.After(time.Second):
		t.Fatal("waiter never received the room")
	}

	assert.Equal(t, 0, q.Keys())
}

// 짝수 N명이 동시에 진입하면 정확히 N/2개의 방이 만들어지고
// 대기열에는 아무도 남지 않는다.
func TestRoomQueueEvenJoinsNoResidue(t *testing.T) {
	const n = 8
	q := NewRoomQueue()

	var wg sync.WaitGroup
	rooms := make(chan *Room, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := newFakeConn(fmt.Sprintf("conn-%d", i))

			own, peer := q.Join("arena", c)
			if peer != nil {
				room := NewRoom("arena", peer.Conn, c, nil)
				q.Deliver(peer, room)
				rooms <- room
				return
			}

			room, err := q.Await("arena", own, 5*time.Second)
			require.NoError(t, err)
			rooms <- room
		}(i)
	}

	wg.Wait()
	close(rooms)

	seen := make(map[*Room]int)
	for room := range rooms {
		seen[room]++
	}
	assert.Len(t, seen, n/2)
	for _, count := range seen {
		assert.Equal(t, 2, count, "each room has exactly two participants")
	}
	assert.Equal(t, 0, q.Keys())
}

func TestRoomQueueLoneWaiterTimeout(t *testing.T) {
	q := NewRoomQueue()
	c := newFakeConn("alone")

	own, peer := q.Join("arena", c)
	require.Nil(t, peer)

	_, err := q.Await("arena", own, 30*time.Millisecond)
	assert.ErrorIs(t, err, ErrWaitTimeout)
	assert.Equal(t, 0, q.Keys(), "timed-out waiter leaves no residue")
}

func TestRoomQueueRemoveCancelsWait(t *testing.T) {
	q := NewRoomQueue()
	c := newFakeConn("leaver")

	own, _ := q.Join("arena", c)

	errCh := make(chan error, 1)
	go func() {
		_, err := q.Await("arena", own, time.Second)
		errCh <- err
	}()

	require.True(t, q.Remove("arena", c))

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrWaitCancelled)
	case <-time.After(time.Second):
		t.Fatal("Await did not observe the cancel")
	}

	assert.Equal(t, 0, q.Len("arena"))
	assert.False(t, q.Remove("arena", c), "second remove is a no-op")
}

func TestRoomQueueKeysAreIndependent(t *testing.T) {
	q := NewRoomQueue()

	_, peer := q.Join("arena-1", newFakeConn("a"))
	require.Nil(t, peer)
	_, peer = q.Join("arena-2", newFakeConn("b"))
	require.Nil(t, peer, "different keys never pair")

	assert.Equal(t, 2, q.Keys())
}

func TestMatchQueuePairing(t *testing.T) {
	q := NewMatchQueue()
	a := newFakeConn("user-a")
	b := newFakeConn("user-b")

	ownA, _, pairing, err := q.Join(a)
	require.NoError(t, err)
	require.Nil(t, pairing)

	_, peer, pairing, err := q.Join(b)
	require.NoError(t, err)
	require.NotNil(t, pairing)
	require.NotNil(t, peer)

	assert.Equal(t, "game_user-b-user-a", pairing.RoomKey)
	assert.Equal(t, a, pairing.Player1)
	assert.Equal(t, b, pairing.Player2)
	assert.Same(t, ownA, peer)

	q.Deliver(peer, pairing)
	got, err := q.Await(ownA, time.Second)
	require.NoError(t, err)
	assert.Same(t, pairing, got)

	assert.Equal(t, 0, q.Len())
}

func TestMatchQueueDuplicateIDRejected(t *testing.T) {
	q := NewMatchQueue()

	_, _, _, err := q.Join(newFakeConn("dup"))
	require.NoError(t, err)

	_, _, _, err = q.Join(newFakeConn("dup"))
	assert.ErrorIs(t, err, ErrAlreadyQueued)
	assert.Equal(t, 1, q.Len(), "original entry untouched")
}

// 같은 ID 두 연결이 동시에 진입해도 정확히 한쪽만 거부된다.
func TestMatchQueueConcurrentDuplicate(t *testing.T) {
	q := NewMatchQueue()

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _, err := q.Join(newFakeConn("same-id"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	rejected := 0
	for err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, ErrAlreadyQueued)
			rejected++
		}
	}
	assert.Equal(t, 1, rejected)
	assert.Equal(t, 1, q.Len())
}

func TestMatchQueueTimeout(t *testing.T) {
	q := NewMatchQueue()

	own, _, _, err := q.Join(newFakeConn("alone"))
	require.NoError(t, err)

	_, err = q.Await(own, 30*time.Millisecond)
	assert.ErrorIs(t, err, ErrWaitTimeout)
	assert.Equal(t, 0, q.Len())
}

func TestMatchQueueLobbyHandshake(t *testing.T) {
	q := NewMatchQueue()

	_, _, _, err := q.Join(newFakeConn("p1"))
	require.NoError(t, err)
	_, peer, pairing, err := q.Join(newFakeConn("p2"))
	require.NoError(t, err)
	q.Deliver(peer, pairing)

	assert.Equal(t, 1, q.MarkReady(pairing.RoomKey))
	assert.Equal(t, 2, q.MarkReady(pairing.RoomKey))

	q.LeaveLobby(pairing.RoomKey)
	q.LeaveLobby(pairing.RoomKey)
	assert.Equal(t, 0, q.MarkReady(pairing.RoomKey), "deleted lobby ignores ready")
}
