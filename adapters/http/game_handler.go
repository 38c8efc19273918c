package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	gameUC "github.com/financial-frontier/backend/internal/application/usecase/game"
	"github.com/financial-frontier/backend/pkg/apperror"
	"github.com/financial-frontier/backend/pkg/logger"
)

type GameHandler struct {
	statsUseCase       *gameUC.StatsUseCase
	progressionUseCase *gameUC.ProgressionUseCase
	logger             logger.Logger
}

func NewGameHandler(statsUC *gameUC.StatsUseCase, progressionUC *gameUC.ProgressionUseCase, log logger.Logger) *GameHandler {
	return &GameHandler{
		statsUseCase:       statsUC,
		progressionUseCase: progressionUC,
		logger:             log,
	}
}

func (h *GameHandler) GetStats(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("userID not found in context", nil))
		return
	}

	input := gameUC.GetStatsInput{UserID: userID}
	output, err := h.statsUseCase.ExecuteGetStats(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToStatsDTO(output.Stats))
}

func (h *GameHandler) GetProgression(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("userID not found in context", nil))
		return
	}

	input := gameUC.GetProgressionInput{UserID: userID}
	output, err := h.progressionUseCase.ExecuteGetProgression(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToProgressionDTO(output.Record))
}
