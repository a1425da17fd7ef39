package service

import (
	"career_bot_backend/internal/model"
	"career_bot_backend/internal/repository"

	"gorm.io/datatypes"
)

const (
	fallbackProfession  = "Generalist"
	fallbackDescription = "Описание отсутствует."
)

// ResultService persists finished attempts and serves the per-user history.
type ResultService struct {
	Results *repository.TestResultRepository
}

func NewResultService(results *repository.TestResultRepository) *ResultService {
	return &ResultService{Results: results}
}

// Record stores a finished attempt. Empty recommendation fields are replaced
// with fixed fallback texts so a result row is never blank.
func (s *ResultService) Record(user *model.User, answers []model.SessionAnswer, rec Recommendation) (*model.TestResult, error) {
	profession := rec.Profession
	if profession == "" {
		profession = fallbackProfession
	}
	description := rec.Description
	if description == "" {
		description = fallbackDescription
	}

	result := &model.TestResult{
		UserID:                user.ID,
		Answers:               datatypes.JSONSlice[model.SessionAnswer](answers),
		Profession:            profession,
		ProfessionDescription: description,
	}
	if err := s.Results.Create(result); err != nil {
		return nil, err
	}
	return result, nil
}

// History lists a user's attempts newest first.
func (s *ResultService) History(userID uint) ([]model.TestResult, error) {
	return s.Results.ListByUserDesc(userID)
}
