package model

import "gorm.io/datatypes"

// TestResult is a completed quiz attempt. Immutable once created.
type TestResult struct {
	UUIDBase
	UserID                uint                               `gorm:"index;not null" json:"userId"`
	User                  *User                              `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Answers               datatypes.JSONSlice[SessionAnswer] `gorm:"type:json" json:"answers"`
	Profession            string                             `gorm:"size:100;not null" json:"profession"`
	ProfessionDescription string                             `gorm:"type:text" json:"professionDescription"`
}

func (TestResult) TableName() string {
	return "test_results"
}
