package repositories

import (
	"context"

	"github.com/diyorbekkd/thDent/models"

	"gorm.io/gorm/clause"
)

func (s *GormStore) GetDoctor(ctx context.Context, id string) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := s.db.WithContext(ctx).First(&doctor, "id = ?", id).Error; err != nil {
		return nil, storageErr(err, "failed to get doctor profile")
	}
	return &doctor, nil
}

// SaveDoctor upserts on the doctor id.
func (s *GormStore) SaveDoctor(ctx context.Context, d *models.Doctor) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"full_name", "phone", "telegram_chat_id", "updated_at"}),
		}).
		Create(d).Error
	if err != nil {
		return storageErr(err, "failed to save doctor profile")
	}
	return nil
}
