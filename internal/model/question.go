package model

// Question is one step of the quiz battery. Options are owned and their
// insertion order is the display and traversal order.
type Question struct {
	BaseModel
	Text    string         `gorm:"type:text;not null" json:"text"`
	Options []AnswerOption `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"options"`
}

func (Question) TableName() string {
	return "questions"
}
