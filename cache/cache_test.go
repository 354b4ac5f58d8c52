package cache

import (
	"testing"

	"splitmate-server/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddDeduplicatesPerUtilityAndDay(t *testing.T) {
	buffer := NewUsageBuffer()

	buffer.Add(entities.UsageRecord{UtilityID: "u1", Date: "2026-03-02", Amount: 4.5})
	buffer.Add(entities.UsageRecord{UtilityID: "u1", Date: "2026-03-02", Amount: 7.0})
	buffer.Add(entities.UsageRecord{UtilityID: "u1", Date: "2026-03-03", Amount: 1.0})
	buffer.Add(entities.UsageRecord{UtilityID: "u2", Date: "2026-03-02", Amount: 2.0})

	all := buffer.All()
	require.Len(t, all, 3)

	amounts := map[string]float64{}
	for _, reading := range all {
		amounts[reading.Record.UtilityID+"|"+reading.Record.Date] = reading.Record.Amount
	}
	assert.Equal(t, 7.0, amounts["u1|2026-03-02"], "later reading replaces the earlier one")
	assert.Equal(t, 1.0, amounts["u1|2026-03-03"])
	assert.Equal(t, 2.0, amounts["u2|2026-03-02"])
}

func TestDrainClearsBuffer(t *testing.T) {
	buffer := NewUsageBuffer()
	buffer.Add(entities.UsageRecord{UtilityID: "u1", Date: "2026-03-02", Amount: 4.5})
	buffer.Add(entities.UsageRecord{UtilityID: "u2", Date: "2026-03-02", Amount: 2.0})

	records := buffer.Drain()
	assert.Len(t, records, 2)

	assert.Empty(t, buffer.All())
	assert.Empty(t, buffer.Drain())
}

func TestStats(t *testing.T) {
	buffer := NewUsageBuffer()
	buffer.Add(entities.UsageRecord{UtilityID: "u1", Date: "2026-03-02", Amount: 4.5})
	buffer.Add(entities.UsageRecord{UtilityID: "u1", Date: "2026-03-03", Amount: 1.0})
	buffer.Add(entities.UsageRecord{UtilityID: "u2", Date: "2026-03-02", Amount: 2.0})

	stats := buffer.Stats()
	assert.Equal(t, 3, stats["total_readings"])
	assert.Equal(t, 2, stats["total_utilities"])
}
