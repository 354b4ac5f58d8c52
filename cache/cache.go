package cache

import (
	"sync"
	"time"

	"splitmate-server/entities"
)

// BufferedReading is a usage sample waiting to be flushed to the database.
type BufferedReading struct {
	Record     entities.UsageRecord
	ReceivedAt time.Time
}

// UsageBuffer accumulates sensor readings between flushes. Readings are
// keyed by (utility, day) so a later reading for the same day replaces the
// earlier one, matching the one-record-per-day rule the store enforces.
type UsageBuffer struct {
	mu       sync.RWMutex
	readings map[string]BufferedReading // key: utilityID + "|" + date
}

func NewUsageBuffer() *UsageBuffer {
	return &UsageBuffer{readings: make(map[string]BufferedReading)}
}

func key(utilityID, date string) string {
	return utilityID + "|" + date
}

// Add stores a reading, replacing any earlier reading for the same
// utility and day.
func (b *UsageBuffer) Add(record entities.UsageRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.readings[key(record.UtilityID, record.Date)] = BufferedReading{
		Record:     record,
		ReceivedAt: time.Now(),
	}
}

// Drain returns all buffered records and clears the buffer.
func (b *UsageBuffer) Drain() []entities.UsageRecord {
	b.mu.Lock()
	defer b.mu.Unlock()

	records := make([]entities.UsageRecord, 0, len(b.readings))
	for _, reading := range b.readings {
		records = append(records, reading.Record)
	}
	b.readings = make(map[string]BufferedReading)
	return records
}

// All returns a copy of the buffered readings without clearing them.
func (b *UsageBuffer) All() []BufferedReading {
	b.mu.RLock()
	defer b.mu.RUnlock()

	all := make([]BufferedReading, 0, len(b.readings))
	for _, reading := range b.readings {
		all = append(all, reading)
	}
	return all
}

// Stats returns counters about the current buffer contents.
func (b *UsageBuffer) Stats() map[string]interface{} {
	b.mu.RLock()
	defer b.mu.RUnlock()

	utilities := make(map[string]struct{})
	for _, reading := range b.readings {
		utilities[reading.Record.UtilityID] = struct{}{}
	}

	return map[string]interface{}{
		"total_readings":  len(b.readings),
		"total_utilities": len(utilities),
	}
}
