package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BillDocument is an uploaded bill PDF for a (house, billing period).
// Re-uploading for the same period replaces the stored file.
type BillDocument struct {
	ID          string  `gorm:"primaryKey" json:"_id"`
	HouseID     string  `gorm:"index:idx_house_period,unique" json:"houseId"`
	PeriodStart string  `gorm:"index:idx_house_period,unique" json:"periodStart"`
	TotalAmount float64 `json:"totalAmount"`
	FileName    string  `json:"fileName"`
	Data        []byte  `gorm:"type:bytea" json:"-"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func (d *BillDocument) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	d.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	d.UpdatedAt = d.CreatedAt
	return
}
