package model

import "gorm.io/datatypes"

// User is a Telegram contact known to the bot. Name and phone stay empty
// until the registration chain completes.
type User struct {
	BaseModel
	TelegramID string                      `gorm:"size:32;uniqueIndex;not null" json:"telegramId"`
	FirstName  string                      `gorm:"size:100" json:"firstName"`
	LastName   string                      `gorm:"size:100" json:"lastName"`
	Phone      string                      `gorm:"size:32" json:"phone"`
	Session    datatypes.JSONType[Session] `gorm:"type:json" json:"session"`
}

func (User) TableName() string {
	return "users"
}

// Registered reports whether the profile fields required to start a test are
// set. Last name is deliberately not required.
func (u *User) Registered() bool {
	return u.FirstName != "" && u.Phone != ""
}
