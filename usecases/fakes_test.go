package usecases

import (
	"sort"
	"time"

	"splitmate-server/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository fakes. They return gorm.ErrRecordNotFound the way the
// Postgres implementations do, so the use cases see identical error shapes.

type fakeHouseRepo struct {
	houses map[string]entities.House
}

func newFakeHouseRepo() *fakeHouseRepo {
	return &fakeHouseRepo{houses: map[string]entities.House{}}
}

func (r *fakeHouseRepo) Create(house *entities.House) error {
	if house.ID == "" {
		house.ID = "aaaabbbbccccddddeeee" + uuid.New().String()[:4]
	}
	r.houses[house.ID] = *house
	return nil
}

func (r *fakeHouseRepo) GetByID(id string) (*entities.House, error) {
	house, ok := r.houses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &house, nil
}

func (r *fakeHouseRepo) GetAll() ([]entities.House, error) {
	out := make([]entities.House, 0, len(r.houses))
	for _, h := range r.houses {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeHouseRepo) GetByPrincipalID(principalID string) ([]entities.House, error) {
	out := []entities.House{}
	for _, h := range r.houses {
		if h.PrincipalID == principalID {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeHouseRepo) Update(house *entities.House) error {
	if _, ok := r.houses[house.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.houses[house.ID] = *house
	return nil
}

type fakeUserRepo struct {
	users map[string]entities.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]entities.User{}}
}

func (r *fakeUserRepo) Create(user *entities.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*entities.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*entities.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByHouseID(houseID string) ([]entities.User, error) {
	out := []entities.User{}
	for _, u := range r.users {
		if u.HouseID == houseID {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) Update(user *entities.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.users[user.ID] = *user
	return nil
}

type fakeUtilityRepo struct {
	utilities map[string]entities.Utility
}

func newFakeUtilityRepo() *fakeUtilityRepo {
	return &fakeUtilityRepo{utilities: map[string]entities.Utility{}}
}

func (r *fakeUtilityRepo) Create(utility *entities.Utility) error {
	if utility.ID == "" {
		utility.ID = uuid.New().String()
	}
	utility.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	r.utilities[utility.ID] = *utility
	return nil
}

func (r *fakeUtilityRepo) GetByID(id string) (*entities.Utility, error) {
	utility, ok := r.utilities[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &utility, nil
}

func (r *fakeUtilityRepo) GetByHouseID(houseID string) ([]entities.Utility, error) {
	out := []entities.Utility{}
	for _, u := range r.utilities {
		if u.HouseID == houseID {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	return out, nil
}

func (r *fakeUtilityRepo) GetByHouseAndSensor(houseID, sensor string) (*entities.Utility, error) {
	for _, u := range r.utilities {
		if u.HouseID == houseID && u.Sensor == sensor {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUtilityRepo) GetBySensor(sensor string) (*entities.Utility, error) {
	for _, u := range r.utilities {
		if u.Sensor == sensor {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUtilityRepo) Update(utility *entities.Utility) error {
	if _, ok := r.utilities[utility.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.utilities[utility.ID] = *utility
	return nil
}

func (r *fakeUtilityRepo) Delete(id string) error {
	if _, ok := r.utilities[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.utilities, id)
	return nil
}

type fakeUsageRepo struct {
	records map[string]entities.UsageRecord // keyed utilityID|date
}

func newFakeUsageRepo() *fakeUsageRepo {
	return &fakeUsageRepo{records: map[string]entities.UsageRecord{}}
}

func (r *fakeUsageRepo) Upsert(record *entities.UsageRecord) error {
	key := record.UtilityID + "|" + record.Date
	if existing, ok := r.records[key]; ok {
		record.ID = existing.ID
	} else if record.ID == "" {
		record.ID = uuid.New().String()
	}
	r.records[key] = *record
	return nil
}

func (r *fakeUsageRepo) UpsertBatch(records []entities.UsageRecord) error {
	for i := range records {
		if err := r.Upsert(&records[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeUsageRepo) GetByUtilityAndRange(utilityID, startDate, endDate string) ([]entities.UsageRecord, error) {
	out := []entities.UsageRecord{}
	for _, rec := range r.records {
		if rec.UtilityID == utilityID && rec.Date >= startDate && rec.Date < endDate {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

type fakeTenantBillRepo struct {
	bills map[string]entities.TenantBill // keyed tenantID|houseID|periodStart
}

func newFakeTenantBillRepo() *fakeTenantBillRepo {
	return &fakeTenantBillRepo{bills: map[string]entities.TenantBill{}}
}

func billKey(tenantID, houseID, periodStart string) string {
	return tenantID + "|" + houseID + "|" + periodStart
}

func (r *fakeTenantBillRepo) Create(bill *entities.TenantBill) error {
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.Status == "" {
		bill.Status = entities.BillStatusPending
	}
	r.bills[billKey(bill.TenantID, bill.HouseID, bill.PeriodStart)] = *bill
	return nil
}

func (r *fakeTenantBillRepo) GetByKey(tenantID, houseID, periodStart string) (*entities.TenantBill, error) {
	bill, ok := r.bills[billKey(tenantID, houseID, periodStart)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &bill, nil
}

func (r *fakeTenantBillRepo) MarkPaid(tenantID, houseID, periodStart string, amount float64) (bool, error) {
	key := billKey(tenantID, houseID, periodStart)
	bill, ok := r.bills[key]
	if !ok || bill.Status != entities.BillStatusPending {
		return false, nil
	}
	bill.Status = entities.BillStatusPaid
	bill.AmountPaid = amount
	bill.PaidAt = time.Now().UTC().Format(time.RFC3339)
	r.bills[key] = bill
	return true, nil
}

type fakeNotificationRepo struct {
	notifications map[string]entities.Notification
	seq           int
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: map[string]entities.Notification{}}
}

func (r *fakeNotificationRepo) Create(notification *entities.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	r.seq++
	// Fake monotonic timestamps so newest-first ordering is deterministic.
	notification.CreatedAt = time.Date(2026, 1, 1, 0, 0, r.seq, 0, time.UTC).Format(time.RFC3339)
	r.notifications[notification.ID] = *notification
	return nil
}

func (r *fakeNotificationRepo) GetByID(id string) (*entities.Notification, error) {
	n, ok := r.notifications[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &n, nil
}

func (r *fakeNotificationRepo) GetByRecipient(recipientID string) ([]entities.Notification, error) {
	out := []entities.Notification{}
	for _, n := range r.notifications {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(id string) error {
	n, ok := r.notifications[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	n.Status = entities.NotificationStatusRead
	r.notifications[id] = n
	return nil
}

func (r *fakeNotificationRepo) Delete(id string) error {
	if _, ok := r.notifications[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.notifications, id)
	return nil
}

type fakeBillDocumentRepo struct {
	docs map[string]entities.BillDocument // keyed houseID|periodStart
}

func newFakeBillDocumentRepo() *fakeBillDocumentRepo {
	return &fakeBillDocumentRepo{docs: map[string]entities.BillDocument{}}
}

func (r *fakeBillDocumentRepo) Upsert(doc *entities.BillDocument) error {
	key := doc.HouseID + "|" + doc.PeriodStart
	if existing, ok := r.docs[key]; ok {
		doc.ID = existing.ID
	} else if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	r.docs[key] = *doc
	return nil
}

func (r *fakeBillDocumentRepo) GetByHouseAndPeriod(houseID, periodStart string) (*entities.BillDocument, error) {
	doc, ok := r.docs[houseID+"|"+periodStart]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &doc, nil
}
