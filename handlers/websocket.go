package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"splitmate-server/entities"
	"splitmate-server/repositories"
	"splitmate-server/services"
	"splitmate-server/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WebSocket message envelopes
type incomingMessage struct {
	Type string `json:"type"` // usage_reading | heartbeat
}

type usageReadingPayload struct {
	Type   string  `json:"type"`
	Sensor string  `json:"sensor"`
	Date   string  `json:"date"` // YYYY-MM-DD
	Amount float64 `json:"amount"`
}

// WSHandler groups dependencies for the sensor ingest flow.
type WSHandler struct {
	mgr       *ws.Manager
	utilities repositories.UtilityRepository
	processor *services.UsageProcessor
}

func NewWSHandler(mgr *ws.Manager, utilities repositories.UtilityRepository, processor *services.UsageProcessor) *WSHandler {
	return &WSHandler{mgr: mgr, utilities: utilities, processor: processor}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// HandleSensorWS upgrades to websocket and reads daily consumption readings
// from a utility sensor.
// GET /ws?sensor=<sensor-id>
func (h *WSHandler) HandleSensorWS(c *gin.Context) {
	sensorID := c.Query("sensor")
	if sensorID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing sensor id"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	h.mgr.Register(sensorID, conn)
	log.Printf("sensor connected: %s", sensorID)

	if ack, err := json.Marshal(gin.H{"type": "registered", "sensor": sensorID}); err == nil {
		if err := h.mgr.Send(sensorID, ack); err != nil {
			log.Printf("registration ack to %s failed: %v", sensorID, err)
		}
	}

	defer func() {
		h.mgr.Unregister(sensorID)
		log.Printf("sensor disconnected: %s", sensorID)
	}()

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("sensor %s closed connection", sensorID)
			} else {
				log.Printf("read error from %s: %v", sensorID, err)
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}

		var base incomingMessage
		if err := json.Unmarshal(message, &base); err != nil {
			log.Printf("invalid json from %s: %v", sensorID, err)
			continue
		}

		switch base.Type {
		case "usage_reading":
			var payload usageReadingPayload
			if err := json.Unmarshal(message, &payload); err != nil {
				log.Printf("invalid usage_reading payload from %s: %v", sensorID, err)
				continue
			}
			if payload.Sensor == "" {
				payload.Sensor = sensorID
			}
			if _, err := time.Parse(entities.UsageDateLayout, payload.Date); err != nil {
				log.Printf("reading with bad date %q from %s dropped", payload.Date, payload.Sensor)
				continue
			}
			if payload.Amount < 0 {
				log.Printf("negative reading %.3f from %s dropped", payload.Amount, payload.Sensor)
				continue
			}
			utility, err := h.utilities.GetBySensor(payload.Sensor)
			if err != nil {
				log.Printf("reading from unbound sensor %s dropped", payload.Sensor)
				continue
			}
			h.processor.Add(entities.UsageRecord{
				UtilityID: utility.ID,
				Date:      payload.Date,
				Amount:    payload.Amount,
			})
			log.Printf("buffered reading for utility %s (%s): %s = %.3f",
				utility.ID, utility.Name, payload.Date, payload.Amount)
		case "heartbeat":
			// No-op, the connection itself is the liveness signal
		default:
			log.Printf("unknown message type from %s: %s", sensorID, base.Type)
		}
	}
}

// GetConnectedSensors GET /api/sensors/connected. With ?sensor=<id> it
// reports connectivity for that one sensor.
func (h *WSHandler) GetConnectedSensors(c *gin.Context) {
	if sensor := c.Query("sensor"); sensor != "" {
		c.JSON(http.StatusOK, gin.H{"sensor": sensor, "connected": h.mgr.IsConnected(sensor)})
		return
	}
	sensors := h.mgr.List()
	c.JSON(http.StatusOK, gin.H{"sensors": sensors, "count": len(sensors)})
}
