package game

import (
	"sync"
	"time"
)

// fakeConn은 테스트용 Conn 구현. 받은 이벤트를 전부 기록한다.
type fakeConn struct {
	id string

	mu     sync.Mutex
	events []any
	code   int
	reason string
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (f *fakeConn) ID() string { return f.id }

func (f *fakeConn) Send(event any) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return true
}

func (f *fakeConn) CloseWithCode(code int, reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.code == 0 {
		f.code = code
		f.reason = reason
	}
}

func (f *fakeConn) closeCode() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.code
}

func (f *fakeConn) received() []any {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]any, len(f.events))
	copy(out, f.events)
	return out
}

// hasEvent는 pred를 만족하는 이벤트가 도착했는지 확인한다.
func (f *fakeConn) hasEvent(pred func(any) bool) bool {
	for _, e := range f.received() {
		if pred(e) {
			return true
		}
	}
	return false
}

// fakeSink는 결과 저장 호출을 기록하는 ResultSink.
type fakeSink struct {
	mu      sync.Mutex
	results []sinkCall
}

type sinkCall struct {
	Mode             string
	Player1, Player2 string
	Score1, Score2   int
	Winner           string
	MoveCount        int
	Duration         time.Duration
}

func (s *fakeSink) PersistResult(mode, player1, player2 string, score1, score2 int, winner string, moveCount int, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, sinkCall{
		Mode: mode, Player1: player1, Player2: player2,
		Score1: score1, Score2: score2, Winner: winner,
		MoveCount: moveCount, Duration: duration,
	})
}

func (s *fakeSink) calls() []sinkCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]sinkCall, len(s.results))
	copy(out, s.results)
	return out
}
