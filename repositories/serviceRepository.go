package repositories

import (
	"context"

	"github.com/diyorbekkd/thDent/models"
)

func (s *GormStore) CreateService(ctx context.Context, svc *models.Service) error {
	if err := s.db.WithContext(ctx).Create(svc).Error; err != nil {
		return storageErr(err, "failed to create service")
	}
	return nil
}

func (s *GormStore) ListServices(ctx context.Context, doctorID string) ([]models.Service, error) {
	var services []models.Service
	err := s.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("name ASC").
		Find(&services).Error
	if err != nil {
		return nil, storageErr(err, "failed to list services")
	}
	return services, nil
}

func (s *GormStore) DeleteService(ctx context.Context, doctorID, id string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND doctor_id = ?", id, doctorID).
		Delete(&models.Service{})
	return checkAffected(res, "failed to delete service")
}
