package models

import (
	"fmt"
	"time"
)

// PatientType selects the chart layout: permanent or primary dentition.
type PatientType string

const (
	PatientAdult PatientType = "adult"
	PatientChild PatientType = "child"
)

// ParsePatientType rejects anything outside the closed set.
func ParsePatientType(s string) (PatientType, error) {
	switch t := PatientType(s); t {
	case PatientAdult, PatientChild:
		return t, nil
	}
	return "", fmt.Errorf("unknown patient type %q", s)
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Patient model
type Patient struct {
	ID        string      `gorm:"primaryKey;column:id" json:"id"`
	DoctorID  string      `gorm:"column:doctor_id;not null;index" json:"doctor_id"`
	FullName  string      `gorm:"column:full_name;not null;index" json:"full_name"`
	Phone     string      `gorm:"column:phone" json:"phone"`
	BirthDate *time.Time  `gorm:"column:birth_date" json:"birth_date,omitempty"`
	Gender    Gender      `gorm:"column:gender" json:"gender,omitempty"`
	Type      PatientType `gorm:"column:type;check:type IN ('adult', 'child');not null" json:"type"`
	// Balance is negative when the patient owes the clinic and positive when
	// the clinic holds an advance. Only the ledger writes it.
	Balance   int64     `gorm:"column:balance;not null;default:0" json:"balance"`
	CreatedAt time.Time `gorm:"column:created_at;not null;index" json:"created_at"`
}

func (Patient) TableName() string {
	return "patients"
}

// AppointmentStatus is the closed set of visit states.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentNoShow    AppointmentStatus = "no-show"
)

func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	switch st := AppointmentStatus(s); st {
	case AppointmentScheduled, AppointmentConfirmed, AppointmentCompleted, AppointmentCancelled, AppointmentNoShow:
		return st, nil
	}
	return "", fmt.Errorf("unknown appointment status %q", s)
}

// Appointment model
type Appointment struct {
	ID          string            `gorm:"primaryKey;column:id" json:"id"`
	PatientID   string            `gorm:"column:patient_id;not null;index" json:"patient_id"`
	DoctorID    string            `gorm:"column:doctor_id;not null;index" json:"doctor_id"`
	ScheduledAt time.Time         `gorm:"column:scheduled_at;not null;index" json:"scheduled_at"`
	Status      AppointmentStatus `gorm:"column:status;check:status IN ('scheduled', 'confirmed', 'completed', 'cancelled', 'no-show');not null" json:"status"`
	Notes       string            `gorm:"column:notes" json:"notes,omitempty"`
	CreatedAt   time.Time         `gorm:"column:created_at;not null" json:"created_at"`
}

func (Appointment) TableName() string {
	return "appointments"
}
