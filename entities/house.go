package entities

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type House struct {
	ID          string         `gorm:"primaryKey" json:"_id"`
	Name        string         `json:"name"`
	Address     string         `json:"address"`
	PrincipalID string         `gorm:"index" json:"principalId"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// objectID returns a 24-character lowercase hex id. The billing upload
// endpoint validates house ids against exactly this format.
func objectID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:12])
}

func (h *House) BeforeCreate(tx *gorm.DB) (err error) {
	if h.ID == "" {
		h.ID = objectID()
	}
	h.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	h.UpdatedAt = h.CreatedAt
	return
}
