package service

import (
	"career_bot_backend/internal/model"
	"career_bot_backend/internal/util"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListQuestionsOrdered(t *testing.T) {
	f := newFixture(t)
	questions := f.seedBattery(t)

	for i := 1; i < len(questions); i++ {
		assert.Greater(t, questions[i].ID, questions[i-1].ID)
	}
	for _, q := range questions {
		require.NotEmpty(t, q.Options)
		for i := 1; i < len(q.Options); i++ {
			assert.Greater(t, q.Options[i].ID, q.Options[i-1].ID)
		}
	}
}

func TestGetOptionFromCache(t *testing.T) {
	f := newFixture(t)
	questions := f.seedBattery(t)

	option, err := f.catalog.GetOption(context.Background(), questions[0].Options[1].ID)
	require.NoError(t, err)

	assert.Equal(t, questions[0].ID, option.QuestionID)
	assert.Equal(t, "Разбираться в данных", option.Text)
}

func TestGetOptionNotFound(t *testing.T) {
	f := newFixture(t)
	f.seedBattery(t)

	_, err := f.catalog.GetOption(context.Background(), 999999)
	assert.ErrorIs(t, err, util.ErrOptionNotFound)
}

func TestCreateQuestionInvalidatesCache(t *testing.T) {
	f := newFixture(t)
	f.seedBattery(t)
	ctx := context.Background()

	before, err := f.catalog.CountQuestions(ctx)
	require.NoError(t, err)

	_, err = f.catalog.CreateQuestion(ctx, QuestionRequest{
		Text: "Новый вопрос?",
		Options: []OptionRequest{
			{Text: "Да", Scores: map[string]int{"qa": 1}},
		},
	})
	require.NoError(t, err)

	after, err := f.catalog.CountQuestions(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)
}

func TestCreateQuestionRejectsNegativeWeight(t *testing.T) {
	f := newFixture(t)

	_, err := f.catalog.CreateQuestion(context.Background(), QuestionRequest{
		Text: "Сломанный вопрос",
		Options: []OptionRequest{
			{Text: "Вариант", Scores: map[string]int{"dev": -1}},
		},
	})
	assert.ErrorIs(t, err, util.ErrNegativeWeight)
}

func TestDeleteQuestionRemovesOptions(t *testing.T) {
	f := newFixture(t)
	questions := f.seedBattery(t)
	ctx := context.Background()

	require.NoError(t, f.catalog.DeleteQuestion(ctx, questions[0].ID))

	remaining, err := f.catalog.ListQuestions(ctx)
	require.NoError(t, err)
	assert.Len(t, remaining, len(questions)-1)

	var count int64
	require.NoError(t, f.db.Model(&model.AnswerOption{}).
		Where("question_id = ?", questions[0].ID).
		Count(&count).Error)
	assert.Zero(t, count)
}
