package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/cozyGarage/ft-transcendence/internal/models"
	"github.com/cozyGarage/ft-transcendence/internal/repository"
	"github.com/cozyGarage/ft-transcendence/pkg/logger"
)

// ResultService 종료된 게임 결과의 영속화 싱크
//
// 게임 경로에서 fire-and-forget으로 호출된다. 실패는 로깅만 하고
// 절대 전파하지 않는다 (종료된 방을 되돌릴 수 없으므로).
type ResultService struct {
	gameRepo *repository.GameRepository
}

func NewResultService(gameRepo *repository.GameRepository) *ResultService {
	return &ResultService{gameRepo: gameRepo}
}

// PersistResult 게임 결과 비동기 저장
func (s *ResultService) PersistResult(mode string, player1, player2 string, score1, score2 int, winner string, moveCount int, duration time.Duration) {
	result := &models.GameResult{
		ID:           uuid.NewString(),
		Mode:         models.GameMode(mode),
		Player1ID:    player1,
		Player2ID:    player2,
		Player1Score: score1,
		Player2Score: score2,
		MoveCount:    moveCount,
		Duration:     duration.Milliseconds(),
	}
	if winner != "" {
		result.WinnerID = &winner
	}

	go func() {
		if err := s.gameRepo.Create(result); err != nil {
			logger.Error("Failed to persist game result",
				"gameId", result.ID,
				"mode", mode,
				"error", err,
			)
			return
		}

		logger.Info("Game result persisted",
			"gameId", result.ID,
			"mode", mode,
			"player1", player1,
			"player2", player2,
			"winner", winner,
		)
	}()
}

// GetByID 게임 결과 조회
func (s *ResultService) GetByID(id string) (*models.GameResult, error) {
	result, err := s.gameRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, ErrGameNotFound
	}
	return result, nil
}

// GetByPlayerID 플레이어의 게임 기록 조회
func (s *ResultService) GetByPlayerID(playerID string, page, pageSize int) ([]*models.GameResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	return s.gameRepo.FindByPlayerID(playerID, pageSize, (page-1)*pageSize)
}
