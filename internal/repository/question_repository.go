package repository

import (
	"career_bot_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

// ListWithOptions returns the full battery in insertion order, each question
// with its options in insertion order.
func (r *QuestionRepository) ListWithOptions() ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("answer_options.id ASC")
		}).
		Order("questions.id ASC").
		Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) FindOptionByID(id uint) (*model.AnswerOption, error) {
	var option model.AnswerOption
	err := r.DB.First(&option, id).Error
	return &option, err
}

func (r *QuestionRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).Count(&count).Error
	return count, err
}

// CreateWithOptions persists a question together with its owned options.
func (r *QuestionRepository) CreateWithOptions(q *model.Question) error {
	return r.DB.Create(q).Error
}

func (r *QuestionRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&model.AnswerOption{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Question{}, id).Error
	})
}
