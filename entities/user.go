package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role codes carried over from the SplitMate client: "p" is the principal
// (house-owning) tenant, "n" a regular tenant.
const (
	RolePrincipal = "p"
	RoleRegular   = "n"
)

// User represents a tenant in the SplitMate system.
type User struct {
	ID           string `gorm:"type:text;primaryKey" json:"_id"`
	Name         string `json:"name"`
	Email        string `gorm:"unique;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `json:"role"`
	HouseID      string `gorm:"index" json:"houseId,omitempty"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	u.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	u.UpdatedAt = u.CreatedAt
	return
}
