package models

import "time"

// Doctor is the clinician profile behind a doctor id. Receipts for the
// doctor's patients go to TelegramChatID when it is set.
type Doctor struct {
	ID             string    `gorm:"primaryKey;column:id" json:"id"`
	FullName       string    `gorm:"column:full_name" json:"full_name"`
	Phone          string    `gorm:"column:phone" json:"phone"`
	TelegramChatID string    `gorm:"column:telegram_chat_id" json:"telegram_chat_id"`
	UpdatedAt      time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false" json:"updated_at"`
}

func (Doctor) TableName() string {
	return "doctors"
}
