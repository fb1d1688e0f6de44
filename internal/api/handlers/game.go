package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cozyGarage/ft-transcendence/internal/service"
)

type GameHandler struct {
	resultService *service.ResultService
}

func NewGameHandler(resultService *service.ResultService) *GameHandler {
	return &GameHandler{resultService: resultService}
}

// GetGame 게임 결과 단건 조회
func (h *GameHandler) GetGame(c *gin.Context) {
	result, err := h.resultService.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListGamesByPlayer 플레이어의 게임 기록 목록
func (h *GameHandler) ListGamesByPlayer(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	results, err := h.resultService.GetByPlayerID(c.Param("playerId"), page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"games": results})
}
