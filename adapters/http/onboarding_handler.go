package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	onboardingUC "github.com/financial-frontier/backend/internal/application/usecase/onboarding"
	"github.com/financial-frontier/backend/pkg/apperror"
	"github.com/financial-frontier/backend/pkg/logger"
)

type OnboardingHandler struct {
	onboardUseCase *onboardingUC.OnboardUseCase
	logger         logger.Logger
}

func NewOnboardingHandler(uc *onboardingUC.OnboardUseCase, log logger.Logger) *OnboardingHandler {
	return &OnboardingHandler{
		onboardUseCase: uc,
		logger:         log,
	}
}

// Onboard handles POST /api/users/onboarding. The route runs behind the
// permissive AttachUser middleware only; the usecase owns the identity check
// so an anonymous call gets its 401 from one place.
func (h *OnboardingHandler) Onboard(c *gin.Context) {
	userID, _ := GetUserIDFromGinContext(c)

	var req OnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for onboarding", err))
		return
	}

	input := onboardingUC.OnboardInput{
		UserID: userID,
		Email:  req.Email,
		Quiz:   req.ToDomainQuiz(),
	}

	output, err := h.onboardUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{
				"error":  "User already completed onboarding.",
				"userId": userID,
			})
			return
		}
		if errors.Is(err, apperror.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required for onboarding."})
			return
		}
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, OnboardingResponse{
		Message:        "Onboarding complete. Unique path generated.",
		UserID:         output.UserID,
		StartingRank:   output.StartingRank,
		StartingSector: output.StartingSector,
	})
}
