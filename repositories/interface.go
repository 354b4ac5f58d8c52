package repositories

import "splitmate-server/entities"

type HouseRepository interface {
	Create(house *entities.House) error
	GetByID(id string) (*entities.House, error)
	GetAll() ([]entities.House, error)
	GetByPrincipalID(principalID string) ([]entities.House, error)
	Update(house *entities.House) error
}

type UserRepository interface {
	Create(user *entities.User) error
	GetByID(id string) (*entities.User, error)
	GetByEmail(email string) (*entities.User, error)
	GetByHouseID(houseID string) ([]entities.User, error)
	Update(user *entities.User) error
}

type UtilityRepository interface {
	Create(utility *entities.Utility) error
	GetByID(id string) (*entities.Utility, error)
	GetByHouseID(houseID string) ([]entities.Utility, error)
	GetByHouseAndSensor(houseID, sensor string) (*entities.Utility, error)
	GetBySensor(sensor string) (*entities.Utility, error)
	Update(utility *entities.Utility) error
	Delete(id string) error
}

type UsageRecordRepository interface {
	Upsert(record *entities.UsageRecord) error
	UpsertBatch(records []entities.UsageRecord) error
	GetByUtilityAndRange(utilityID, startDate, endDate string) ([]entities.UsageRecord, error)
}

type TenantBillRepository interface {
	Create(bill *entities.TenantBill) error
	GetByKey(tenantID, houseID, periodStart string) (*entities.TenantBill, error)
	// MarkPaid flips a pending bill to paid and records the amount. Returns
	// false when the row exists but is no longer pending.
	MarkPaid(tenantID, houseID, periodStart string, amount float64) (bool, error)
}

type NotificationRepository interface {
	Create(notification *entities.Notification) error
	GetByID(id string) (*entities.Notification, error)
	GetByRecipient(recipientID string) ([]entities.Notification, error)
	MarkRead(id string) error
	Delete(id string) error
}

type BillDocumentRepository interface {
	Upsert(doc *entities.BillDocument) error
	GetByHouseAndPeriod(houseID, periodStart string) (*entities.BillDocument, error)
}
