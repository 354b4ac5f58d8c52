package httpHandler

import (
	"net/http"

	"splitmate-server/middleware"
	"splitmate-server/usecases"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	useCase *usecases.HouseholdUseCase
}

func NewUserHandler(useCase *usecases.HouseholdUseCase) *UserHandler {
	return &UserHandler{useCase: useCase}
}

// Me handles GET /api/users/me
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.useCase.GetUser(middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUser handles GET /api/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.useCase.GetUser(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateUser handles PUT /api/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	user, err := h.useCase.UpdateUser(middleware.CallerID(c), c.Param("id"), req.Name, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully", "user": user})
}

type houseIDRequest struct {
	HouseID string `json:"houseId" binding:"required"`
}

// Tenants handles POST /api/users/tenants
func (h *UserHandler) Tenants(c *gin.Context) {
	var req houseIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "houseId is required"})
		return
	}

	tenants, err := h.useCase.Tenants(req.HouseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tenants)
}

type removeTenantRequest struct {
	TenantID string `json:"tenantId" binding:"required"`
}

// RemoveTenant handles PUT /api/users/removeTenant
func (h *UserHandler) RemoveTenant(c *gin.Context) {
	var req removeTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tenantId is required"})
		return
	}

	if err := h.useCase.RemoveTenant(middleware.CallerID(c), req.TenantID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tenant removed successfully"})
}

type addHouseRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

// AddHouse handles POST /api/users/addHouse
func (h *UserHandler) AddHouse(c *gin.Context) {
	var req addHouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	house, err := h.useCase.AddHouse(middleware.CallerID(c), req.Name, req.Address)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, house)
}
