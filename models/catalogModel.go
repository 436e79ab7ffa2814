package models

import "time"

// Service is an entry of the clinic price list. It only pre-fills the price
// of a treatment and is never referenced by ledger rows.
type Service struct {
	ID        string    `gorm:"primaryKey;column:id" json:"id"`
	DoctorID  string    `gorm:"column:doctor_id;not null;uniqueIndex:idx_service_doctor_name" json:"doctor_id"`
	Name      string    `gorm:"column:name;not null;uniqueIndex:idx_service_doctor_name" json:"name"`
	Price     int64     `gorm:"column:price;not null;check:price >= 0" json:"price"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

func (Service) TableName() string {
	return "services"
}
