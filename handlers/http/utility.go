package httpHandler

import (
	"net/http"

	"splitmate-server/middleware"
	"splitmate-server/usecases"

	"github.com/gin-gonic/gin"
)

type UtilityHandler struct {
	useCase *usecases.HouseholdUseCase
}

func NewUtilityHandler(useCase *usecases.HouseholdUseCase) *UtilityHandler {
	return &UtilityHandler{useCase: useCase}
}

type registerUtilityRequest struct {
	HouseID string `json:"houseId" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Type    string `json:"type" binding:"required"`
	Sensor  string `json:"sensor" binding:"required"`
}

// Register handles POST /api/utilities/register
func (h *UtilityHandler) Register(c *gin.Context) {
	var req registerUtilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	utility, err := h.useCase.RegisterUtility(middleware.CallerID(c), req.HouseID, req.Name, req.Type, req.Sensor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Utility registered successfully",
		"utility": utility,
	})
}

// List handles POST /api/utilities/all
func (h *UtilityHandler) List(c *gin.Context) {
	var req struct {
		HouseID string `json:"houseId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "houseId is required"})
		return
	}

	utilities, err := h.useCase.UtilitiesByHouse(req.HouseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"utilities": utilities})
}

type updateUtilityRequest struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Sensor string `json:"sensor"`
}

// Update handles PUT /api/utilities/update/:id
func (h *UtilityHandler) Update(c *gin.Context) {
	var req updateUtilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	utility, err := h.useCase.UpdateUtility(middleware.CallerID(c), c.Param("id"), req.Name, req.Type, req.Sensor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Utility updated successfully", "utility": utility})
}

// Delete handles DELETE /api/utilities/delete/:id
func (h *UtilityHandler) Delete(c *gin.Context) {
	if err := h.useCase.DeleteUtility(middleware.CallerID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Utility deleted successfully"})
}
