package httpHandler

import (
	"net/http"

	"splitmate-server/middleware"
	"splitmate-server/usecases"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	useCase *usecases.NotificationsUseCase
}

func NewNotificationHandler(useCase *usecases.NotificationsUseCase) *NotificationHandler {
	return &NotificationHandler{useCase: useCase}
}

type manualNotificationRequest struct {
	ToTenantID string `json:"toTenantId" binding:"required"`
	Message    string `json:"message" binding:"required"`
}

// SendManual handles POST /api/notifications/manual
func (h *NotificationHandler) SendManual(c *gin.Context) {
	var req manualNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "toTenantId and message are required"})
		return
	}

	notification, err := h.useCase.SendManual(middleware.CallerID(c), req.ToTenantID, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Notification sent successfully",
		"notification": notification,
	})
}

// List handles GET /api/notifications. Newest first.
func (h *NotificationHandler) List(c *gin.Context) {
	notifications, err := h.useCase.ListFor(middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// MarkRead handles PATCH /api/notifications/read/:id
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.useCase.MarkRead(middleware.CallerID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// Dismiss handles PATCH /api/notifications/dismiss/:id. Permanent delete.
func (h *NotificationHandler) Dismiss(c *gin.Context) {
	if err := h.useCase.Dismiss(middleware.CallerID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification dismissed"})
}

type remindableRequest struct {
	HouseID    string `json:"houseId" binding:"required"`
	ChosenDate string `json:"chosenDate" binding:"required"`
}

// Remindable handles POST /api/notifications/remindable: which tenants of a
// house still owe for the chosen period and may be nudged.
func (h *NotificationHandler) Remindable(c *gin.Context) {
	var req remindableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "houseId and chosenDate are required"})
		return
	}

	periodStart, err := usecases.ParseBillingPeriod(req.ChosenDate)
	if err != nil {
		respondError(c, err)
		return
	}

	tenants, err := h.useCase.RemindableTenants(middleware.CallerID(c), req.HouseID, periodStart)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tenants": tenants, "count": len(tenants)})
}
