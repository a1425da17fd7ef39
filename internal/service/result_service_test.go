package service

import (
	"career_bot_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordKeepsRecommendation(t *testing.T) {
	f := newFixture(t)
	user := f.registeredUser(t, testChat)

	rec := Recommendation{Profession: "QA инженер", Description: "Тестирование."}
	result, err := f.results.Record(user, []model.SessionAnswer{{QuestionID: 1, OptionID: 2}}, rec)
	require.NoError(t, err)

	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "QA инженер", result.Profession)
	assert.Equal(t, "Тестирование.", result.ProfessionDescription)
	assert.Equal(t, user.ID, result.UserID)
}

func TestRecordSubstitutesFallbacks(t *testing.T) {
	f := newFixture(t)
	user := f.registeredUser(t, testChat)

	result, err := f.results.Record(user, nil, Recommendation{})
	require.NoError(t, err)

	assert.Equal(t, fallbackProfession, result.Profession)
	assert.Equal(t, fallbackDescription, result.ProfessionDescription)
}

func TestHistoryOrderAndIsolation(t *testing.T) {
	f := newFixture(t)
	user := f.registeredUser(t, testChat)
	other := f.registeredUser(t, testChat+1)

	first := &model.TestResult{UserID: user.ID, Profession: "A", ProfessionDescription: "a"}
	first.CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, f.db.Create(first).Error)

	second := &model.TestResult{UserID: user.ID, Profession: "B", ProfessionDescription: "b"}
	second.CreatedAt = time.Now().Add(-time.Minute)
	require.NoError(t, f.db.Create(second).Error)

	foreign := &model.TestResult{UserID: other.ID, Profession: "C", ProfessionDescription: "c"}
	require.NoError(t, f.db.Create(foreign).Error)

	results, err := f.results.History(user.ID)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "B", results[0].Profession)
	assert.Equal(t, "A", results[1].Profession)
}
