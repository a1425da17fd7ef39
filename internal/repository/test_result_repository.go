package repository

import (
	"career_bot_backend/internal/model"

	"gorm.io/gorm"
)

type TestResultRepository struct {
	DB *gorm.DB
}

func NewTestResultRepository(db *gorm.DB) *TestResultRepository {
	return &TestResultRepository{DB: db}
}

func (r *TestResultRepository) Create(result *model.TestResult) error {
	return r.DB.Create(result).Error
}

// ListByUserDesc returns a user's attempts newest first.
func (r *TestResultRepository) ListByUserDesc(userID uint) ([]model.TestResult, error) {
	var results []model.TestResult
	err := r.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error
	return results, err
}
