package httpHandler

import (
	"net/http"

	"splitmate-server/auth"
	"splitmate-server/entities"
	"splitmate-server/usecases"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	useCase *usecases.HouseholdUseCase
}

func NewAuthHandler(useCase *usecases.HouseholdUseCase) *AuthHandler {
	return &AuthHandler{useCase: useCase}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// HouseRef is the house reference resolved once at login: principals see a
// list of owned house ids, regular tenants their single house.
type HouseRef struct {
	Kind     string   `json:"kind"`
	HouseID  string   `json:"houseId,omitempty"`
	HouseIDs []string `json:"houseIds,omitempty"`
}

type LoginUser struct {
	ID      string   `json:"_id"`
	Name    string   `json:"name"`
	Role    string   `json:"role"`
	HouseID HouseRef `json:"houseId"`
}

type LoginResponse struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}

type RegisterRequest struct {
	Name         string `form:"name" json:"name" binding:"required"`
	Email        string `form:"email" json:"email" binding:"required"`
	Password     string `form:"password" json:"password" binding:"required"`
	Role         string `form:"role" json:"role" binding:"required"`
	HouseName    string `form:"houseName" json:"houseName"`
	HouseAddress string `form:"houseAddress" json:"houseAddress"`
	HouseID      string `form:"houseId" json:"houseId"`
}

// Login handles POST /api/users/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.useCase.Authenticate(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	houseRef, err := h.resolveHouseRef(user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User: LoginUser{
			ID:      user.ID,
			Name:    user.Name,
			Role:    user.Role,
			HouseID: houseRef,
		},
	})
}

// Register handles POST /api/users/register (JSON or multipart form)
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	user, err := h.useCase.RegisterUser(req.Name, req.Email, req.Password, req.Role, req.HouseName, req.HouseAddress, req.HouseID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    user,
	})
}

func (h *AuthHandler) resolveHouseRef(user *entities.User) (HouseRef, error) {
	if user.Role == entities.RolePrincipal {
		houses, err := h.useCase.HousesFor(user.ID)
		if err != nil {
			return HouseRef{}, err
		}
		ids := make([]string, 0, len(houses))
		for _, house := range houses {
			ids = append(ids, house.ID)
		}
		return HouseRef{Kind: "principal", HouseIDs: ids}, nil
	}
	return HouseRef{Kind: "regular", HouseID: user.HouseID}, nil
}
