package model

// SessionStep names the sub-state a user's conversation is in. The zero value
// means idle: no registration or test is in progress.
type SessionStep string

const (
	StepAskFirstName SessionStep = "ask_firstname"
	StepAskLastName  SessionStep = "ask_lastname"
	StepAskPhone     SessionStep = "ask_phone"
	StepInTest       SessionStep = "in_test"
)

// SessionAnswer is one recorded answer of an in-progress or finished test.
type SessionAnswer struct {
	QuestionID uint `json:"questionId"`
	OptionID   uint `json:"optionId"`
}

// Session tracks the registration or test progress of a single user. It is
// overwritten wholesale on every transition; only the fields of the current
// step are meaningful. Index and Answers are valid only while Step is
// StepInTest.
type Session struct {
	Step    SessionStep     `json:"step,omitempty"`
	Index   int             `json:"index,omitempty"`
	Answers []SessionAnswer `json:"answers,omitempty"`
}

func NewRegistrationSession() Session {
	return Session{Step: StepAskFirstName}
}

func NewTestSession() Session {
	return Session{Step: StepInTest, Index: 0, Answers: []SessionAnswer{}}
}

func (s Session) Idle() bool {
	return s.Step == ""
}

func (s Session) InTest() bool {
	return s.Step == StepInTest
}

// Consistent reports whether the in-test bookkeeping holds: every answered
// question advanced the index by exactly one.
func (s Session) Consistent() bool {
	if s.Step != StepInTest {
		return true
	}
	return len(s.Answers) == s.Index
}
