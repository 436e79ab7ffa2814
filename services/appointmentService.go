package services

import (
	"context"
	"time"

	"github.com/diyorbekkd/thDent/apperrors"
	"github.com/diyorbekkd/thDent/models"
	"github.com/diyorbekkd/thDent/repositories"
	"github.com/diyorbekkd/thDent/utils"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type AppointmentService struct {
	store repositories.Store
	clock utils.Clock
}

func NewAppointmentService(store repositories.Store, clock utils.Clock) *AppointmentService {
	if clock == nil {
		clock = utils.SystemClock
	}
	return &AppointmentService{store: store, clock: clock}
}

type AppointmentInput struct {
	DoctorID    string    `json:"-"`
	PatientID   string    `json:"patient_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Notes       string    `json:"notes"`
}

// Create books a visit for an existing patient; it starts as scheduled.
func (s *AppointmentService) Create(ctx context.Context, in AppointmentInput) (*models.Appointment, error) {
	appointment := &models.Appointment{
		ID:          uuid.NewString(),
		PatientID:   in.PatientID,
		DoctorID:    in.DoctorID,
		ScheduledAt: in.ScheduledAt.UTC(),
		Status:      models.AppointmentScheduled,
		Notes:       in.Notes,
		CreatedAt:   s.clock.Now().UTC().Truncate(time.Microsecond),
	}
	if err := utils.ValidateAppointment(*appointment); err != nil {
		return nil, apperrors.InvalidInput(err)
	}

	patient, err := s.store.GetPatient(ctx, in.PatientID)
	if err != nil {
		return nil, err
	}
	if patient.DoctorID != in.DoctorID {
		return nil, errors.Wrapf(apperrors.ErrNotFound, "patient %s", in.PatientID)
	}

	if err := s.store.CreateAppointment(ctx, appointment); err != nil {
		return nil, errors.Wrap(err, "failed to create appointment")
	}
	return appointment, nil
}

// ListForDay returns the doctor's appointments on day's calendar date, in
// day's location, earliest first.
func (s *AppointmentService) ListForDay(ctx context.Context, doctorID string, day time.Time) ([]models.Appointment, error) {
	start := startOfDay(day)
	return s.store.ListAppointments(ctx, repositories.AppointmentFilter{
		DoctorID: doctorID,
		Range:    repositories.TimeRange{From: start, To: start.AddDate(0, 0, 1).Add(-time.Nanosecond)},
	})
}

// Today is ListForDay for the clock's current date.
func (s *AppointmentService) Today(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	return s.ListForDay(ctx, doctorID, s.clock.Now())
}

func (s *AppointmentService) ListForPatient(ctx context.Context, doctorID, patientID string) ([]models.Appointment, error) {
	return s.store.ListAppointments(ctx, repositories.AppointmentFilter{DoctorID: doctorID, PatientID: patientID})
}

func (s *AppointmentService) UpdateStatus(ctx context.Context, doctorID, id, status string) (*models.Appointment, error) {
	st, err := models.ParseAppointmentStatus(status)
	if err != nil {
		return nil, apperrors.Invalid("status", err.Error())
	}
	appointment, err := s.owned(ctx, doctorID, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateAppointmentStatus(ctx, id, st); err != nil {
		return nil, errors.Wrap(err, "failed to update appointment status")
	}
	appointment.Status = st
	return appointment, nil
}

func (s *AppointmentService) Delete(ctx context.Context, doctorID, id string) error {
	if _, err := s.owned(ctx, doctorID, id); err != nil {
		return err
	}
	if err := s.store.DeleteAppointment(ctx, id); err != nil {
		return errors.Wrap(err, "failed to delete appointment")
	}
	return nil
}

func (s *AppointmentService) owned(ctx context.Context, doctorID, id string) (*models.Appointment, error) {
	appointment, err := s.store.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.DoctorID != doctorID {
		return nil, errors.Wrapf(apperrors.ErrNotFound, "appointment %s", id)
	}
	return appointment, nil
}
