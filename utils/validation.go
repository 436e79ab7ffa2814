package utils

import (
	"errors"

	"github.com/diyorbekkd/thDent/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"
)

var (
	ErrUnknownPatientType       = errors.New("must be adult or child")
	ErrUnknownAppointmentStatus = errors.New("must be one of scheduled, confirmed, completed, cancelled, no-show")
	ErrUnknownGender            = errors.New("must be male or female")
)

// ValidatePatient validates patient profile data using ozzo-validation.
func ValidatePatient(patient models.Patient) error {
	err := validation.ValidateStruct(&patient,
		validation.Field(&patient.DoctorID, validation.Required),
		validation.Field(&patient.FullName, validation.Required, validation.Length(2, 120)),
		validation.Field(&patient.Phone, validation.Required),
		validation.Field(&patient.Type, validation.Required, validation.By(validatePatientType)),
		validation.Field(&patient.Gender, validation.By(validateGender)),
	)
	if err != nil {
		log.Debug().Err(err).Msg("patient validation failed")
	}
	return err
}

// ValidateAppointment validates a new appointment.
func ValidateAppointment(appointment models.Appointment) error {
	err := validation.ValidateStruct(&appointment,
		validation.Field(&appointment.DoctorID, validation.Required),
		validation.Field(&appointment.PatientID, validation.Required),
		validation.Field(&appointment.ScheduledAt, validation.Required),
		validation.Field(&appointment.Status, validation.Required, validation.By(validateAppointmentStatus)),
		validation.Field(&appointment.Notes, validation.Length(0, 1000)),
	)
	if err != nil {
		log.Debug().Err(err).Msg("appointment validation failed")
	}
	return err
}

// ValidateService validates a price list entry.
func ValidateService(service models.Service) error {
	return validation.ValidateStruct(&service,
		validation.Field(&service.DoctorID, validation.Required),
		validation.Field(&service.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&service.Price, validation.Min(int64(0))),
	)
}

func validatePatientType(value interface{}) error {
	t, _ := value.(models.PatientType)
	if _, err := models.ParsePatientType(string(t)); err != nil {
		return ErrUnknownPatientType
	}
	return nil
}

func validateGender(value interface{}) error {
	g, _ := value.(models.Gender)
	switch g {
	case "", models.GenderMale, models.GenderFemale:
		return nil
	}
	return ErrUnknownGender
}

func validateAppointmentStatus(value interface{}) error {
	st, _ := value.(models.AppointmentStatus)
	if _, err := models.ParseAppointmentStatus(string(st)); err != nil {
		return ErrUnknownAppointmentStatus
	}
	return nil
}
