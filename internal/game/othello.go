package game

// 오델로 규칙 엔진. 보드 상태만 다루는 순수 함수 집합이며
// I/O나 방 상태를 알지 못한다.

// Cell 보드 한 칸의 상태
type Cell string

const (
	CellEmpty Cell = "E"
	CellBlack Cell = "B"
	CellWhite Cell = "W"
)

const boardSize = 8

// 8방향 탐색 벡터
var directions = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Board 8×8 오델로 보드. JSON으로는 문자열 이차원 배열로 직렬화된다.
type Board [boardSize][boardSize]Cell

// NewBoard 표준 초기 배치 생성 (흑이 선수)
func NewBoard() Board {
	var b Board
	for r := 0; r < boardSize; r++ {
		for c := 0; c < boardSize; c++ {
			b[r][c] = CellEmpty
		}
	}
	b[3][3] = CellWhite
	b[3][4] = CellBlack
	b[4][3] = CellBlack
	b[4][4] = CellWhite
	return b
}

// Opponent 상대 색
func Opponent(c Cell) Cell {
	if c == CellBlack {
		return CellWhite
	}
	return CellBlack
}

func inBounds(r, c int) bool {
	return r >= 0 && r < boardSize && c >= 0 && c < boardSize
}

// IsValidMove (row,col)에 player가 둘 수 있는지 검사한다.
// 빈 칸이어야 하고, 8방향 중 적어도 한 방향에서 상대 돌이 1개 이상
// 이어진 뒤 자기 돌로 닫혀야 한다.
func (b *Board) IsValidMove(row, col int, player Cell) bool {
	if !inBounds(row, col) || b[row][col] != CellEmpty {
		return false
	}

	opponent := Opponent(player)

	for _, d := range directions {
		r, c := row+d[0], col+d[1]
		foundOpponent := false

		for inBounds(r, c) && b[r][c] == opponent {
			foundOpponent = true
			r += d[0]
			c += d[1]
		}

		if foundOpponent && inBounds(r, c) && b[r][c] == player {
			return true
		}
	}

	return false
}

// ApplyMove 돌을 놓고 잡힌 방향의 상대 돌을 모두 뒤집는다.
// 합법성 검사는 하지 않는다 (IsValidMove를 먼저 호출할 것).
func (b *Board) ApplyMove(row, col int, player Cell) {
	b[row][col] = player
	opponent := Opponent(player)

	for _, d := range directions {
		var toFlip [][2]int
		r, c := row+d[0], col+d[1]

		for inBounds(r, c) {
			if b[r][c] == opponent {
				toFlip = append(toFlip, [2]int{r, c})
			} else if b[r][c] == player {
				for _, f := range toFlip {
					b[f[0]][f[1]] = player
				}
				break
			} else {
				break
			}
			r += d[0]
			c += d[1]
		}
	}
}

// ValidMoves player가 둘 수 있는 모든 좌표
func (b *Board) ValidMoves(player Cell) [][2]int {
	var moves [][2]int
	for r := 0; r < boardSize; r++ {
		for c := 0; c < boardSize; c++ {
			if b.IsValidMove(r, c, player) {
				moves = append(moves, [2]int{r, c})
			}
		}
	}
	return moves
}

// IsGameOver 양쪽 모두 둘 곳이 없으면 종료
func (b *Board) IsGameOver() bool {
	return len(b.ValidMoves(CellBlack)) == 0 && len(b.ValidMoves(CellWhite)) == 0
}

// Score 색별 돌 개수
func (b *Board) Score() map[Cell]int {
	score := map[Cell]int{CellBlack: 0, CellWhite: 0}
	for r := 0; r < boardSize; r++ {
		for c := 0; c < boardSize; c++ {
			if b[r][c] != CellEmpty {
				score[b[r][c]]++
			}
		}
	}
	return score
}

// Winner 돌이 더 많은 색. 동점이면 빈 문자열 (무승부)
func (b *Board) Winner() Cell {
	score := b.Score()
	switch {
	case score[CellBlack] > score[CellWhite]:
		return CellBlack
	case score[CellWhite] > score[CellBlack]:
		return CellWhite
	default:
		return ""
	}
}
