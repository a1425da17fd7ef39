package repository

import (
	"career_bot_backend/internal/model"
	"errors"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// GetOrCreateByTelegramID lazily creates the profile on first contact.
func (r *UserRepository) GetOrCreateByTelegramID(telegramID string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("telegram_id = ?", telegramID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = model.User{TelegramID: telegramID}
		if err := r.DB.Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

// Save is a whole-profile upsert, embedded session included.
func (r *UserRepository) Save(user *model.User) error {
	return r.DB.Save(user).Error
}
