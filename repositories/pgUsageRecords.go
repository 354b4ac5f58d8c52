package repositories

import (
	"time"

	"splitmate-server/db"
	"splitmate-server/entities"

	"gorm.io/gorm/clause"
)

type usageRecordPgRepository struct {
	db db.Database
}

func NewUsageRecordPgRepository(database db.Database) UsageRecordRepository {
	return &usageRecordPgRepository{db: database}
}

// Upsert writes one sample per (utility, day): a second write for the same
// day overwrites the amount instead of duplicating the row.
func (r *usageRecordPgRepository) Upsert(record *entities.UsageRecord) error {
	record.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return r.db.GetDB().Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "utility_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
	}).Create(record).Error
}

func (r *usageRecordPgRepository) UpsertBatch(records []entities.UsageRecord) error {
	if len(records) == 0 {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339)
	for i := range records {
		records[i].UpdatedAt = now
	}
	return r.db.GetDB().Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "utility_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
	}).Create(&records).Error
}

// GetByUtilityAndRange returns records with startDate <= date < endDate,
// ordered by date ascending. Dates are YYYY-MM-DD so string comparison
// matches calendar order.
func (r *usageRecordPgRepository) GetByUtilityAndRange(utilityID, startDate, endDate string) ([]entities.UsageRecord, error) {
	var records []entities.UsageRecord
	err := r.db.GetDB().
		Where("utility_id = ? AND date >= ? AND date < ?", utilityID, startDate, endDate).
		Order("date ASC").
		Find(&records).Error
	return records, err
}
