package httpHandler

import (
	"net/http"

	"splitmate-server/usecases"

	"github.com/gin-gonic/gin"
)

type UsageHandler struct {
	useCase *usecases.BillingUseCase
}

func NewUsageHandler(useCase *usecases.BillingUseCase) *UsageHandler {
	return &UsageHandler{useCase: useCase}
}

type recordUsageRequest struct {
	UtilityID string  `json:"utilityId" binding:"required"`
	Date      string  `json:"date" binding:"required"`
	Amount    float64 `json:"amount"`
}

// Record handles POST /api/usage: direct upsert of one daily sample,
// bypassing the sensor websocket path.
func (h *UsageHandler) Record(c *gin.Context) {
	var req recordUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := h.useCase.RecordUsage(req.UtilityID, req.Date, req.Amount); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Usage recorded"})
}
