package repositories

import (
	"context"

	"github.com/diyorbekkd/thDent/models"
)

func (s *GormStore) CreateAppointment(ctx context.Context, a *models.Appointment) error {
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return storageErr(err, "failed to create appointment")
	}
	return nil
}

func (s *GormStore) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := s.db.WithContext(ctx).First(&appointment, "id = ?", id).Error; err != nil {
		return nil, storageErr(err, "failed to get appointment")
	}
	return &appointment, nil
}

func (s *GormStore) ListAppointments(ctx context.Context, f AppointmentFilter) ([]models.Appointment, error) {
	q := s.db.WithContext(ctx).Model(&models.Appointment{})
	if f.DoctorID != "" {
		q = q.Where("doctor_id = ?", f.DoctorID)
	}
	if f.PatientID != "" {
		q = q.Where("patient_id = ?", f.PatientID)
	}
	q = applyRange(q, "scheduled_at", f.Range)

	var appointments []models.Appointment
	if err := q.Order("scheduled_at ASC").Order("id ASC").Find(&appointments).Error; err != nil {
		return nil, storageErr(err, "failed to list appointments")
	}
	return appointments, nil
}

func (s *GormStore) UpdateAppointmentStatus(ctx context.Context, id string, status models.AppointmentStatus) error {
	res := s.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", id).
		Update("status", status)
	return checkAffected(res, "failed to update appointment status")
}

func (s *GormStore) DeleteAppointment(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Appointment{})
	return checkAffected(res, "failed to delete appointment")
}
