package repositories

import (
	"time"

	"splitmate-server/db"
	"splitmate-server/entities"
)

type userPgRepository struct {
	db db.Database
}

func NewUserPgRepository(database db.Database) UserRepository {
	return &userPgRepository{db: database}
}

func (r *userPgRepository) Create(user *entities.User) error {
	return r.db.GetDB().Create(user).Error
}

func (r *userPgRepository) GetByID(id string) (*entities.User, error) {
	var user entities.User
	err := r.db.GetDB().Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userPgRepository) GetByEmail(email string) (*entities.User, error) {
	var user entities.User
	err := r.db.GetDB().Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userPgRepository) GetByHouseID(houseID string) ([]entities.User, error) {
	var users []entities.User
	err := r.db.GetDB().Where("house_id = ?", houseID).Order("created_at ASC").Find(&users).Error
	return users, err
}

func (r *userPgRepository) Update(user *entities.User) error {
	user.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return r.db.GetDB().Save(user).Error
}
