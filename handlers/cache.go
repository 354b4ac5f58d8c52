package handlers

import (
	"net/http"

	"splitmate-server/services"

	"github.com/gin-gonic/gin"
)

type CacheHandler struct {
	processor *services.UsageProcessor
}

func NewCacheHandler(processor *services.UsageProcessor) *CacheHandler {
	return &CacheHandler{processor: processor}
}

// Flush handles POST /api/cache/process, forcing a flush of buffered sensor
// readings into the usage record store.
func (h *CacheHandler) Flush(c *gin.Context) {
	h.processor.Flush()
	c.JSON(http.StatusOK, gin.H{"status": "processed"})
}

// Data handles GET /api/cache/data: readings still waiting for a flush.
func (h *CacheHandler) Data(c *gin.Context) {
	buffered := h.processor.All()

	readings := make([]gin.H, 0, len(buffered))
	for _, reading := range buffered {
		readings = append(readings, gin.H{
			"utility_id": reading.Record.UtilityID,
			"date":       reading.Record.Date,
			"amount":     reading.Record.Amount,
			"cached_at":  reading.ReceivedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         "success",
		"total_readings": len(readings),
		"cached_data":    readings,
	})
}

// Stats handles GET /api/cache/stats
func (h *CacheHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"stats":  h.processor.Stats(),
	})
}
