package game

import (
	"sync"
	"time"
)

// OthelloRoom 서버 권위 오델로 방. 보드 합법성, 차례, 종료 판정을
// 모두 서버가 결정하며 클라이언트 입력은 좌표만 신뢰한다.
type OthelloRoom struct {
	mu sync.Mutex

	key     string
	board   Board
	current Cell
	seats   map[Cell]Conn // 첫 입장 = 흑, 두 번째 = 백

	started bool
	over    bool

	moveCount int
	startedAt time.Time
	createdAt time.Time
}

// MoveOutcome 승인된 수의 결과 (방송 이벤트 구성용)
type MoveOutcome struct {
	Board         Board
	CurrentPlayer Cell
	Row, Col      int

	Over   bool
	Winner Cell
	Score  map[Cell]int
}

// OthelloResult 종료된 판의 영속화 데이터
type OthelloResult struct {
	BlackID, WhiteID string
	BlackScore       int
	WhiteScore       int
	WinnerID         string // 무승부면 빈 문자열
	MoveCount        int
	Duration         time.Duration
}

// NewOthelloRoom 초기 배치로 방 생성
func NewOthelloRoom(key string) *OthelloRoom {
	return &OthelloRoom{
		key:       key,
		board:     NewBoard(),
		current:   CellBlack,
		seats:     make(map[Cell]Conn),
		createdAt: time.Now(),
	}
}

// Key 방 키
func (r *OthelloRoom) Key() string {
	return r.key
}

// AddPlayer 좌석 배정. 첫 입장은 흑, 두 번째는 백이며 세 번째
// 연결은 ErrRoomFull로 거부된다 (관전 미지원).
// start는 이번 입장으로 게임이 시작되는 경우 true.
func (r *OthelloRoom) AddPlayer(c Conn) (color Cell, start bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.seats) >= 2 {
		return "", false, ErrRoomFull
	}

	// 빈 좌석 중 흑 우선
	color = CellBlack
	if _, taken := r.seats[CellBlack]; taken {
		color = CellWhite
	}
	r.seats[color] = c

	if len(r.seats) == 2 {
		r.started = true
		r.startedAt = time.Now()
		start = true
	}

	return color, start, nil
}

// ColorOf 연결의 좌석 색
func (r *OthelloRoom) ColorOf(c Conn) (Cell, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.colorOfLocked(c)
}

func (r *OthelloRoom) colorOfLocked(c Conn) (Cell, bool) {
	for color, seat := range r.seats {
		if seat == c {
			return color, true
		}
	}
	return "", false
}

// Snapshot 현재 보드와 차례
func (r *OthelloRoom) Snapshot() (Board, Cell) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.board, r.current
}

// MakeMove 수 적용. 차례가 아니거나 비합법 수면 보드/차례를 바꾸지
// 않고 에러를 반환한다 (에러는 송신자에게만 전달할 것).
func (r *OthelloRoom) MakeMove(c Conn, row, col int) (*MoveOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.over {
		return nil, ErrGameFinished
	}

	player, ok := r.colorOfLocked(c)
	if !ok || player != r.current {
		return nil, ErrNotYourTurn
	}

	if !r.board.IsValidMove(row, col, player) {
		return nil, ErrInvalidMove
	}

	r.board.ApplyMove(row, col, player)
	r.current = Opponent(player)
	r.moveCount++

	outcome := &MoveOutcome{
		Board:         r.board,
		CurrentPlayer: r.current,
		Row:           row,
		Col:           col,
	}

	if r.board.IsGameOver() {
		r.over = true
		outcome.Over = true
		outcome.Winner = r.board.Winner()
		outcome.Score = r.board.Score()
	}

	return outcome, nil
}

// Over 게임 종료 여부
func (r *OthelloRoom) Over() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.over
}

// Result 영속화용 결과. 게임이 끝난 뒤에만 유효하다.
func (r *OthelloRoom) Result() OthelloResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	score := r.board.Score()
	res := OthelloResult{
		BlackScore: score[CellBlack],
		WhiteScore: score[CellWhite],
		MoveCount:  r.moveCount,
	}
	if seat, ok := r.seats[CellBlack]; ok {
		res.BlackID = seat.ID()
	}
	if seat, ok := r.seats[CellWhite]; ok {
		res.WhiteID = seat.ID()
	}
	if !r.startedAt.IsZero() {
		res.Duration = time.Since(r.startedAt)
	}

	switch r.board.Winner() {
	case CellBlack:
		res.WinnerID = res.BlackID
	case CellWhite:
		res.WinnerID = res.WhiteID
	}

	return res
}

// RemovePlayer 좌석 반납. notify는 진행 중이던 게임이 이탈로 끊긴
// 경우 (상대에게 player_disconnected 방송 필요), empty는 방이 비어
// 테이블에서 제거해도 되는 경우 true.
func (r *OthelloRoom) RemovePlayer(c Conn) (notify, empty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := false
	for color, seat := range r.seats {
		if seat == c {
			delete(r.seats, color)
			found = true
		}
	}
	if !found {
		return false, len(r.seats) == 0
	}

	return r.started && !r.over, len(r.seats) == 0
}
