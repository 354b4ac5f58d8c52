package repositories

import (
	"time"

	"splitmate-server/db"
	"splitmate-server/entities"
)

type utilityPgRepository struct {
	db db.Database
}

func NewUtilityPgRepository(database db.Database) UtilityRepository {
	return &utilityPgRepository{db: database}
}

func (r *utilityPgRepository) Create(utility *entities.Utility) error {
	return r.db.GetDB().Create(utility).Error
}

func (r *utilityPgRepository) GetByID(id string) (*entities.Utility, error) {
	var utility entities.Utility
	err := r.db.GetDB().Where("id = ?", id).First(&utility).Error
	if err != nil {
		return nil, err
	}
	return &utility, nil
}

func (r *utilityPgRepository) GetByHouseID(houseID string) ([]entities.Utility, error) {
	var utilities []entities.Utility
	err := r.db.GetDB().Where("house_id = ?", houseID).Order("created_at ASC").Find(&utilities).Error
	return utilities, err
}

func (r *utilityPgRepository) GetByHouseAndSensor(houseID, sensor string) (*entities.Utility, error) {
	var utility entities.Utility
	err := r.db.GetDB().Where("house_id = ? AND sensor = ?", houseID, sensor).First(&utility).Error
	if err != nil {
		return nil, err
	}
	return &utility, nil
}

func (r *utilityPgRepository) GetBySensor(sensor string) (*entities.Utility, error) {
	var utility entities.Utility
	err := r.db.GetDB().Where("sensor = ?", sensor).Order("created_at ASC").First(&utility).Error
	if err != nil {
		return nil, err
	}
	return &utility, nil
}

func (r *utilityPgRepository) Update(utility *entities.Utility) error {
	utility.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return r.db.GetDB().Save(utility).Error
}

// Delete removes the utility permanently. Usage records it produced stay in
// place; they simply stop resolving in fresh aggregations.
func (r *utilityPgRepository) Delete(id string) error {
	return r.db.GetDB().Where("id = ?", id).Delete(&entities.Utility{}).Error
}
