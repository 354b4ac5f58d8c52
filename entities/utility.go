package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Utility types tracked per house.
const (
	UtilityTypeElectric = "electric"
	UtilityTypeGas      = "gas"
	UtilityTypeWater    = "water"
)

// Utility is a consumption source bound to a sensor. Sensor ids are opaque
// (typically a Bluetooth MAC) and unique within a house, not globally.
// Utilities are hard-deleted: there is no DeletedAt column, and bills already
// derived before a delete are unaffected since aggregation reads records at
// call time.
type Utility struct {
	ID        string `gorm:"primaryKey" json:"_id"`
	HouseID   string `gorm:"index:idx_house_sensor,unique" json:"houseId"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Sensor    string `gorm:"index:idx_house_sensor,unique" json:"sensor"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func ValidUtilityType(t string) bool {
	switch t {
	case UtilityTypeElectric, UtilityTypeGas, UtilityTypeWater:
		return true
	}
	return false
}

func (u *Utility) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	u.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	u.UpdatedAt = u.CreatedAt
	return
}
