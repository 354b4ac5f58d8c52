package repositories

import (
	"time"

	"splitmate-server/db"
	"splitmate-server/entities"

	"gorm.io/gorm/clause"
)

type billDocumentPgRepository struct {
	db db.Database
}

func NewBillDocumentPgRepository(database db.Database) BillDocumentRepository {
	return &billDocumentPgRepository{db: database}
}

func (r *billDocumentPgRepository) Upsert(doc *entities.BillDocument) error {
	doc.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return r.db.GetDB().Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "house_id"}, {Name: "period_start"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_amount", "file_name", "data", "updated_at"}),
	}).Create(doc).Error
}

func (r *billDocumentPgRepository) GetByHouseAndPeriod(houseID, periodStart string) (*entities.BillDocument, error) {
	var doc entities.BillDocument
	err := r.db.GetDB().
		Where("house_id = ? AND period_start = ?", houseID, periodStart).
		First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
