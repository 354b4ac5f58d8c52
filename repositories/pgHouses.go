package repositories

import (
	"time"

	"splitmate-server/db"
	"splitmate-server/entities"
)

type housePgRepository struct {
	db db.Database
}

func NewHousePgRepository(database db.Database) HouseRepository {
	return &housePgRepository{db: database}
}

func (r *housePgRepository) Create(house *entities.House) error {
	return r.db.GetDB().Create(house).Error
}

func (r *housePgRepository) GetByID(id string) (*entities.House, error) {
	var house entities.House
	err := r.db.GetDB().Where("id = ?", id).First(&house).Error
	if err != nil {
		return nil, err
	}
	return &house, nil
}

func (r *housePgRepository) GetAll() ([]entities.House, error) {
	var houses []entities.House
	err := r.db.GetDB().Order("created_at DESC").Find(&houses).Error
	return houses, err
}

func (r *housePgRepository) GetByPrincipalID(principalID string) ([]entities.House, error) {
	var houses []entities.House
	err := r.db.GetDB().Where("principal_id = ?", principalID).Order("created_at DESC").Find(&houses).Error
	return houses, err
}

func (r *housePgRepository) Update(house *entities.House) error {
	house.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return r.db.GetDB().Save(house).Error
}
