package repositories

import (
	"time"

	"splitmate-server/db"
	"splitmate-server/entities"
)

type tenantBillPgRepository struct {
	db db.Database
}

func NewTenantBillPgRepository(database db.Database) TenantBillRepository {
	return &tenantBillPgRepository{db: database}
}

func (r *tenantBillPgRepository) Create(bill *entities.TenantBill) error {
	return r.db.GetDB().Create(bill).Error
}

func (r *tenantBillPgRepository) GetByKey(tenantID, houseID, periodStart string) (*entities.TenantBill, error) {
	var bill entities.TenantBill
	err := r.db.GetDB().
		Where("tenant_id = ? AND house_id = ? AND period_start = ?", tenantID, houseID, periodStart).
		First(&bill).Error
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

// MarkPaid is the only writer of status. The WHERE clause on the current
// status makes pending -> paid a conditional update, so two concurrent pay
// attempts cannot both succeed.
func (r *tenantBillPgRepository) MarkPaid(tenantID, houseID, periodStart string, amount float64) (bool, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res := r.db.GetDB().Model(&entities.TenantBill{}).
		Where("tenant_id = ? AND house_id = ? AND period_start = ? AND status = ?",
			tenantID, houseID, periodStart, entities.BillStatusPending).
		Updates(map[string]interface{}{
			"status":      entities.BillStatusPaid,
			"amount_paid": amount,
			"paid_at":     now,
			"updated_at":  now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
