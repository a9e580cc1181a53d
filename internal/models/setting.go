package models

import "strconv"

// Setting keys.
const (
	SettingCardNumber   = "card_number"
	SettingPhoneNumber  = "phone_number"
	SettingAmount       = "amount"
	SettingStartMessage = "start_message"
)

// Setting is a string key/value pair edited by admins.
type Setting struct {
	ID    uint   `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Key   string `json:"key" gorm:"column:key;size:100;uniqueIndex;not null"`
	Value string `json:"value" gorm:"column:value;type:text;not null"`
}

func (Setting) TableName() string {
	return "bot_settings"
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
