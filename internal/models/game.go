package models

import "time"

type GameMode string

const (
	ModePong    GameMode = "pong"
	ModeOthello GameMode = "othello"
)

// GameResult 종료된 게임의 영속 기록
type GameResult struct {
	ID           string    `json:"id" db:"id"`
	Mode         GameMode  `json:"mode" db:"mode"`
	Player1ID    string    `json:"player1Id" db:"player1_id"`
	Player2ID    string    `json:"player2Id" db:"player2_id"`
	Player1Score int       `json:"player1Score" db:"player1_score"`
	Player2Score int       `json:"player2Score" db:"player2_score"`
	WinnerID     *string   `json:"winnerId,omitempty" db:"winner_id"` // nil = 무승부
	MoveCount    int       `json:"moveCount" db:"move_count"`
	Duration     int64     `json:"durationMs" db:"duration_ms"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
