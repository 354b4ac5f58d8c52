package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tenant bill payment states. Paid is terminal for a billing period.
const (
	BillStatusPending = "pending"
	BillStatusPaid    = "paid"
)

// TenantBill tracks payment status for one (tenant, house, billing period).
// The bill amounts themselves are derived on demand by the aggregator; this
// row only carries the status transition and the amount captured when the
// bill was paid.
type TenantBill struct {
	ID          string  `gorm:"primaryKey" json:"_id"`
	TenantID    string  `gorm:"index:idx_tenant_period,unique" json:"tenantId"`
	HouseID     string  `gorm:"index:idx_tenant_period,unique" json:"houseId"`
	PeriodStart string  `gorm:"index:idx_tenant_period,unique" json:"periodStart"`
	Status      string  `json:"status"`
	AmountPaid  float64 `json:"amountPaid"`
	PaidAt      string  `json:"paidAt,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func (b *TenantBill) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.Status == "" {
		b.Status = BillStatusPending
	}
	b.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	b.UpdatedAt = b.CreatedAt
	return
}
