package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationTypeInfo  = "info"
	NotificationTypeAlert = "alert"

	NotificationStatusUnread = "unread"
	NotificationStatusRead   = "read"
)

// Notification is a message delivered to a tenant, either raised manually by
// a principal (payment reminders) or by the server. Dismissal is a hard
// delete, so there is no DeletedAt column.
type Notification struct {
	ID          string `gorm:"primaryKey;type:varchar(36)" json:"_id"`
	RecipientID string `gorm:"index;type:varchar(36)" json:"recipientId"`
	SenderID    string `gorm:"type:varchar(36)" json:"senderId"`
	Message     string `gorm:"type:text" json:"message"`
	Type        string `gorm:"type:varchar(32)" json:"type"`
	Status      string `gorm:"type:varchar(32)" json:"status"`
	CreatedAt   string `gorm:"type:varchar(64)" json:"created_at"`
	UpdatedAt   string `gorm:"type:varchar(64)" json:"updated_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	n.CreatedAt = now
	n.UpdatedAt = now
	if n.Type == "" {
		n.Type = NotificationTypeInfo
	}
	if n.Status == "" {
		n.Status = NotificationStatusUnread
	}
	return nil
}
