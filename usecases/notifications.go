package usecases

import (
	"errors"
	"time"

	"splitmate-server/apperrors"
	"splitmate-server/entities"
	"splitmate-server/repositories"

	"gorm.io/gorm"
)

// NotificationsUseCase raises and manages tenant notifications. Sending is
// manual (a principal nudging a tenant); there is no automatic scheduling.
type NotificationsUseCase struct {
	Notifications repositories.NotificationRepository
	Houses        repositories.HouseRepository
	Users         repositories.UserRepository
	TenantBills   repositories.TenantBillRepository
}

func NewNotificationsUseCase(
	notifications repositories.NotificationRepository,
	houses repositories.HouseRepository,
	users repositories.UserRepository,
	tenantBills repositories.TenantBillRepository,
) *NotificationsUseCase {
	return &NotificationsUseCase{Notifications: notifications, Houses: houses, Users: users, TenantBills: tenantBills}
}

// SendManual creates an info notification from a principal to a tenant.
func (uc *NotificationsUseCase) SendManual(fromID, toTenantID, message string) (*entities.Notification, error) {
	if toTenantID == "" || message == "" {
		return nil, apperrors.Validation("toTenantId and message are required")
	}
	sender, err := uc.Users.GetByID(fromID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user %s", fromID)
		}
		return nil, err
	}
	if sender.Role != entities.RolePrincipal {
		return nil, apperrors.Authorization("only the principal tenant can send notifications")
	}
	if _, err := uc.Users.GetByID(toTenantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("tenant %s", toTenantID)
		}
		return nil, err
	}

	notification := &entities.Notification{
		RecipientID: toTenantID,
		SenderID:    fromID,
		Message:     message,
		Type:        entities.NotificationTypeInfo,
		Status:      entities.NotificationStatusUnread,
	}
	if err := uc.Notifications.Create(notification); err != nil {
		return nil, err
	}
	return notification, nil
}

// ListFor returns a tenant's notifications, newest first.
func (uc *NotificationsUseCase) ListFor(tenantID string) ([]entities.Notification, error) {
	if tenantID == "" {
		return nil, apperrors.Validation("tenantId is required")
	}
	return uc.Notifications.GetByRecipient(tenantID)
}

// MarkRead flips a notification to read. Only the recipient may do it.
func (uc *NotificationsUseCase) MarkRead(callerID, id string) error {
	notification, err := uc.getNotification(id)
	if err != nil {
		return err
	}
	if notification.RecipientID != callerID {
		return apperrors.Authorization("notification %s belongs to another tenant", id)
	}
	return uc.Notifications.MarkRead(id)
}

// Dismiss removes a notification permanently. Only the recipient may do it.
func (uc *NotificationsUseCase) Dismiss(callerID, id string) error {
	notification, err := uc.getNotification(id)
	if err != nil {
		return err
	}
	if notification.RecipientID != callerID {
		return apperrors.Authorization("notification %s belongs to another tenant", id)
	}
	return uc.Notifications.Delete(id)
}

// RemindableTenants lists the tenants of a house a principal may remind for
// a billing period: role is not principal and the period's bill is still
// pending. Only the house's own principal sees the list.
func (uc *NotificationsUseCase) RemindableTenants(callerID, houseID string, periodStart time.Time) ([]entities.User, error) {
	if houseID == "" {
		return nil, apperrors.Validation("houseId is required")
	}
	caller, err := uc.Users.GetByID(callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user %s", callerID)
		}
		return nil, err
	}
	if caller.Role != entities.RolePrincipal {
		return nil, apperrors.Authorization("only the principal tenant can list remindable tenants")
	}
	house, err := uc.Houses.GetByID(houseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("house %s", houseID)
		}
		return nil, err
	}
	if house.PrincipalID != caller.ID {
		return nil, apperrors.Authorization("house %s belongs to another principal", houseID)
	}
	tenants, err := uc.Users.GetByHouseID(houseID)
	if err != nil {
		return nil, err
	}

	key := periodStart.Format(time.RFC3339)
	remindable := make([]entities.User, 0, len(tenants))
	for _, tenant := range tenants {
		if tenant.Role == entities.RolePrincipal {
			continue
		}
		bill, err := uc.TenantBills.GetByKey(tenant.ID, houseID, key)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// No row yet means the bill was never paid: still pending.
				remindable = append(remindable, tenant)
				continue
			}
			return nil, err
		}
		if bill.Status == entities.BillStatusPending {
			remindable = append(remindable, tenant)
		}
	}
	return remindable, nil
}

func (uc *NotificationsUseCase) getNotification(id string) (*entities.Notification, error) {
	if id == "" {
		return nil, apperrors.Validation("notification id is required")
	}
	notification, err := uc.Notifications.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("notification %s", id)
		}
		return nil, err
	}
	return notification, nil
}
