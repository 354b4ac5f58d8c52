package services

import (
	"log"
	"time"

	"splitmate-server/cache"
	"splitmate-server/entities"
	"splitmate-server/repositories"
)

// UsageProcessor buffers sensor readings in memory and periodically flushes
// them to the usage record store as upserts. Flushing is best effort: a
// failed batch is logged and dropped, sensors resend daily totals anyway.
type UsageProcessor struct {
	buffer   *cache.UsageBuffer
	usage    repositories.UsageRecordRepository
	interval time.Duration
}

func NewUsageProcessor(usage repositories.UsageRecordRepository) *UsageProcessor {
	return &UsageProcessor{
		buffer:   cache.NewUsageBuffer(),
		usage:    usage,
		interval: 5 * time.Minute,
	}
}

func (p *UsageProcessor) Start() {
	ticker := time.NewTicker(p.interval)
	go func() {
		for range ticker.C {
			p.Flush()
		}
	}()
}

// Flush drains the buffer and upserts everything in one batch.
func (p *UsageProcessor) Flush() {
	records := p.buffer.Drain()
	if len(records) == 0 {
		log.Printf("no buffered usage readings to flush")
		return
	}
	if err := p.usage.UpsertBatch(records); err != nil {
		log.Printf("error flushing %d usage readings: %v", len(records), err)
	} else {
		log.Printf("flushed %d usage readings", len(records))
	}
}

func (p *UsageProcessor) Add(record entities.UsageRecord) {
	p.buffer.Add(record)
}

func (p *UsageProcessor) All() []cache.BufferedReading {
	return p.buffer.All()
}

func (p *UsageProcessor) Stats() map[string]interface{} {
	return p.buffer.Stats()
}
