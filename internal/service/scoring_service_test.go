package service

import (
	"career_bot_backend/internal/model"
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answersFor(questions []model.Question, picks ...int) []model.SessionAnswer {
	answers := make([]model.SessionAnswer, 0, len(picks))
	for i, pick := range picks {
		answers = append(answers, model.SessionAnswer{
			QuestionID: questions[i].ID,
			OptionID:   questions[i].Options[pick].ID,
		})
	}
	return answers
}

func TestCategoryTotals(t *testing.T) {
	f := newFixture(t)
	questions := f.seedBattery(t)

	totals, err := f.scoring.CategoryTotals(context.Background(), answersFor(questions, 0, 1))
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"dev": 2, "data": 1}, totals)
}

func TestCategoryTotalsSkipsUnknownOptions(t *testing.T) {
	f := newFixture(t)
	questions := f.seedBattery(t)

	answers := answersFor(questions, 0)
	answers = append(answers, model.SessionAnswer{QuestionID: questions[1].ID, OptionID: 999999})

	totals, err := f.scoring.CategoryTotals(context.Background(), answers)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"dev": 2}, totals)
}

func TestCalculateProfessionWinner(t *testing.T) {
	f := newFixture(t)
	questions := f.seedBattery(t)

	rec, err := f.scoring.CalculateProfession(context.Background(), answersFor(questions, 0, 0))
	require.NoError(t, err)

	assert.Contains(t, []string{"Разработчик", "Backend-разработчик"}, rec.Profession)
	assert.NotEmpty(t, rec.Description)
}

func TestCalculateProfessionPicksBothSynonyms(t *testing.T) {
	f := newFixture(t)
	questions := f.seedBattery(t)
	scoring := NewScoringService(f.catalog, rand.NewSource(7))

	answers := answersFor(questions, 0, 0)
	seen := make(map[string]bool)
	for i := 0; i < 64; i++ {
		rec, err := scoring.CalculateProfession(context.Background(), answers)
		require.NoError(t, err)
		seen[rec.Profession] = true
	}

	assert.True(t, seen["Разработчик"])
	assert.True(t, seen["Backend-разработчик"])
}

func TestCalculateProfessionNoAnswers(t *testing.T) {
	f := newFixture(t)

	rec, err := f.scoring.CalculateProfession(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, noCategoryProfession, rec.Profession)
	assert.Equal(t, noCategoryDescription, rec.Description)
}

func TestCalculateProfessionUnknownCategory(t *testing.T) {
	f := newFixture(t)
	question := &model.Question{
		Text: "Какая музыка нравится?",
		Options: []model.AnswerOption{
			{Text: "Джаз", Scores: newScores(map[string]int{"music": 3})},
		},
	}
	require.NoError(t, f.questions.CreateWithOptions(question))

	answers := []model.SessionAnswer{{QuestionID: question.ID, OptionID: question.Options[0].ID}}
	rec, err := f.scoring.CalculateProfession(context.Background(), answers)
	require.NoError(t, err)

	// Category without a table entry yields an empty recommendation; the
	// recorder fills in the fallback texts.
	assert.Empty(t, rec.Profession)
	assert.Empty(t, rec.Description)
}
