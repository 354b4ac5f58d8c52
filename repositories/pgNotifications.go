package repositories

import (
	"time"

	"splitmate-server/db"
	"splitmate-server/entities"
)

type notificationPgRepository struct {
	db db.Database
}

func NewNotificationPgRepository(database db.Database) NotificationRepository {
	return &notificationPgRepository{db: database}
}

func (r *notificationPgRepository) Create(notification *entities.Notification) error {
	return r.db.GetDB().Create(notification).Error
}

func (r *notificationPgRepository) GetByID(id string) (*entities.Notification, error) {
	var notification entities.Notification
	err := r.db.GetDB().Where("id = ?", id).First(&notification).Error
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationPgRepository) GetByRecipient(recipientID string) ([]entities.Notification, error) {
	var notifications []entities.Notification
	err := r.db.GetDB().
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationPgRepository) MarkRead(id string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	return r.db.GetDB().Model(&entities.Notification{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     entities.NotificationStatusRead,
		"updated_at": now,
	}).Error
}

// Delete is a hard delete; dismissed notifications are gone for good.
func (r *notificationPgRepository) Delete(id string) error {
	return r.db.GetDB().Where("id = ?", id).Delete(&entities.Notification{}).Error
}
