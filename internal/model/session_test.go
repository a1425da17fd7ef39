package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionZeroValueIsIdle(t *testing.T) {
	var s Session
	assert.True(t, s.Idle())
	assert.False(t, s.InTest())
	assert.True(t, s.Consistent())
}

func TestNewTestSession(t *testing.T) {
	s := NewTestSession()
	assert.True(t, s.InTest())
	assert.Equal(t, 0, s.Index)
	assert.NotNil(t, s.Answers)
	assert.True(t, s.Consistent())
}

func TestSessionConsistency(t *testing.T) {
	s := NewTestSession()
	s.Answers = append(s.Answers, SessionAnswer{QuestionID: 1, OptionID: 2})
	assert.False(t, s.Consistent())

	s.Index = 1
	assert.True(t, s.Consistent())
}

func TestRegisteredRequiresNameAndPhone(t *testing.T) {
	u := User{}
	assert.False(t, u.Registered())

	u.FirstName = "Иван"
	assert.False(t, u.Registered())

	u.Phone = "+77011234567"
	assert.True(t, u.Registered())

	// Last name is optional.
	assert.Empty(t, u.LastName)
}
