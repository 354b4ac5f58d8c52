package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UsageRecord is one consumption sample for a utility on a calendar day.
// Date is stored as YYYY-MM-DD; the unique index enforces one record per
// (utility, day) so a later write for the same day overwrites the amount.
type UsageRecord struct {
	ID        string  `gorm:"primaryKey" json:"id"`
	UtilityID string  `gorm:"index:idx_utility_date,unique" json:"utilityId"`
	Date      string  `gorm:"index:idx_utility_date,unique" json:"date"`
	Amount    float64 `json:"amount"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

// UsageDateLayout is the calendar-day format for UsageRecord.Date.
const UsageDateLayout = "2006-01-02"

func (r *UsageRecord) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	r.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	r.UpdatedAt = r.CreatedAt
	return
}
