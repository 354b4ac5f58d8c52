package httpHandler

import (
	"net/http"

	"splitmate-server/middleware"
	"splitmate-server/usecases"

	"github.com/gin-gonic/gin"
)

type HouseHandler struct {
	useCase *usecases.HouseholdUseCase
}

func NewHouseHandler(useCase *usecases.HouseholdUseCase) *HouseHandler {
	return &HouseHandler{useCase: useCase}
}

// ListHouses handles GET /api/housing/houses, the anonymous list shown on
// the signup screen before login.
func (h *HouseHandler) ListHouses(c *gin.Context) {
	houses, err := h.useCase.ListHouses()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve houses"})
		return
	}
	c.JSON(http.StatusOK, houses)
}

// GetHouses handles GET /api/housing/getHouses, the caller's houses.
func (h *HouseHandler) GetHouses(c *gin.Context) {
	houses, err := h.useCase.HousesFor(middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, houses)
}
