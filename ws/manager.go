package ws

import (
	"errors"
	"sync"

	"github.com/gorilla/websocket"
)

// Manager keeps track of active sensor websocket connections, keyed by the
// opaque sensor identifier each utility is bound to.
type Manager struct {
	mu          sync.RWMutex
	connections map[string]*websocket.Conn
}

func NewManager() *Manager {
	return &Manager{connections: make(map[string]*websocket.Conn)}
}

// Register registers a sensor connection, replacing any existing one.
func (m *Manager) Register(sensorID string, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.connections[sensorID]; ok && old != conn {
		// close old connection to avoid leaks
		_ = old.Close()
	}
	m.connections[sensorID] = conn
}

// Unregister removes a sensor connection.
func (m *Manager) Unregister(sensorID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if conn, ok := m.connections[sensorID]; ok {
		_ = conn.Close()
		delete(m.connections, sensorID)
	}
}

// Send writes a text message to a sensor if connected.
func (m *Manager) Send(sensorID string, payload []byte) error {
	m.mu.RLock()
	conn, ok := m.connections[sensorID]
	m.mu.RUnlock()
	if !ok || conn == nil {
		return errors.New("sensor not connected")
	}
	return conn.WriteMessage(websocket.TextMessage, payload)
}

// IsConnected returns whether a sensor is currently connected.
func (m *Manager) IsConnected(sensorID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.connections[sensorID]
	return ok
}

// List returns a copy of current connected sensor IDs.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.connections))
	for id := range m.connections {
		ids = append(ids, id)
	}
	return ids
}
