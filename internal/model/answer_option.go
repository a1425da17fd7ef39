package model

import "gorm.io/datatypes"

// ScoreVector maps a scoring category to its weight. Sparse: an absent
// category counts as zero.
type ScoreVector map[string]int

// AnswerOption belongs to exactly one question; options are never shared.
type AnswerOption struct {
	BaseModel
	QuestionID uint                            `gorm:"index;not null" json:"questionId"`
	Text       string                          `gorm:"size:255;not null" json:"text"`
	Scores     datatypes.JSONType[ScoreVector] `gorm:"type:json" json:"scores"`
}

func (AnswerOption) TableName() string {
	return "answer_options"
}
