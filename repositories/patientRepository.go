package repositories

import (
	"context"

	"github.com/diyorbekkd/thDent/models"

	"gorm.io/gorm"
)

func (s *GormStore) CreatePatient(ctx context.Context, p *models.Patient) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return storageErr(err, "failed to create patient")
	}
	return nil
}

func (s *GormStore) GetPatient(ctx context.Context, id string) (*models.Patient, error) {
	var patient models.Patient
	if err := s.db.WithContext(ctx).First(&patient, "id = ?", id).Error; err != nil {
		return nil, storageErr(err, "failed to get patient")
	}
	return &patient, nil
}

func (s *GormStore) ListPatients(ctx context.Context, doctorID string) ([]models.Patient, error) {
	var patients []models.Patient
	err := s.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("full_name ASC").Order("id ASC").
		Find(&patients).Error
	if err != nil {
		return nil, storageErr(err, "failed to list patients")
	}
	return patients, nil
}

func (s *GormStore) UpdatePatientProfile(ctx context.Context, p *models.Patient) error {
	res := s.db.WithContext(ctx).
		Model(&models.Patient{}).
		Where("id = ?", p.ID).
		Select("full_name", "phone", "birth_date", "gender", "type").
		Updates(p)
	return checkAffected(res, "failed to update patient")
}

func (s *GormStore) DeletePatient(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("patient_id = ?", id).Delete(&models.Treatment{}).Error; err != nil {
			return storageErr(err, "failed to delete patient treatments")
		}
		if err := tx.Where("patient_id = ?", id).Delete(&models.Transaction{}).Error; err != nil {
			return storageErr(err, "failed to delete patient transactions")
		}
		if err := tx.Where("patient_id = ?", id).Delete(&models.Appointment{}).Error; err != nil {
			return storageErr(err, "failed to delete patient appointments")
		}
		return checkAffected(tx.Where("id = ?", id).Delete(&models.Patient{}), "failed to delete patient")
	})
}
