package repository

import (
	"database/sql"
	"fmt"

	"github.com/cozyGarage/ft-transcendence/internal/models"
	"github.com/cozyGarage/ft-transcendence/pkg/database"
)

type GameRepository struct {
	db *database.DB
}

func NewGameRepository(db *database.DB) *GameRepository {
	return &GameRepository{db: db}
}

// Create 종료된 게임 결과 저장
func (r *GameRepository) Create(result *models.GameResult) error {
	query := `
		INSERT INTO games (id, mode, player1_id, player2_id,
		                   player1_score, player2_score, winner_id,
		                   move_count, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`

	err := r.db.QueryRow(query,
		result.ID,
		result.Mode,
		result.Player1ID,
		result.Player2ID,
		result.Player1Score,
		result.Player2Score,
		result.WinnerID,
		result.MoveCount,
		result.Duration,
	).Scan(&result.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create game result: %w", err)
	}

	return nil
}

// FindByID ID로 게임 결과 찾기
func (r *GameRepository) FindByID(id string) (*models.GameResult, error) {
	query := `
		SELECT id, mode, player1_id, player2_id,
		       player1_score, player2_score, winner_id,
		       move_count, duration_ms, created_at
		FROM games
		WHERE id = $1
	`

	result := &models.GameResult{}
	err := r.db.QueryRow(query, id).Scan(
		&result.ID,
		&result.Mode,
		&result.Player1ID,
		&result.Player2ID,
		&result.Player1Score,
		&result.Player2Score,
		&result.WinnerID,
		&result.MoveCount,
		&result.Duration,
		&result.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find game result: %w", err)
	}

	return result, nil
}

// FindByPlayerID 플레이어가 참여한 게임 목록 (최신순)
func (r *GameRepository) FindByPlayerID(playerID string, limit, offset int) ([]*models.GameResult, error) {
	query := `
		SELECT id, mode, player1_id, player2_id,
		       player1_score, player2_score, winner_id,
		       move_count, duration_ms, created_at
		FROM games
		WHERE player1_id = $1 OR player2_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(query, playerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list game results: %w", err)
	}
	defer rows.Close()

	var results []*models.GameResult
	for rows.Next() {
		result := &models.GameResult{}
		if err := rows.Scan(
			&result.ID,
			&result.Mode,
			&result.Player1ID,
			&result.Player2ID,
			&result.Player1Score,
			&result.Player2Score,
			&result.WinnerID,
			&result.MoveCount,
			&result.Duration,
			&result.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan game result: %w", err)
		}
		results = append(results, result)
	}

	return results, rows.Err()
}
