package services

import (
	"context"
	"strings"
	"time"

	"github.com/diyorbekkd/thDent/apperrors"
	"github.com/diyorbekkd/thDent/models"
	"github.com/diyorbekkd/thDent/repositories"
	"github.com/diyorbekkd/thDent/utils"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// CatalogService manages the doctor's price list.
type CatalogService struct {
	store repositories.Store
	clock utils.Clock
}

func NewCatalogService(store repositories.Store, clock utils.Clock) *CatalogService {
	if clock == nil {
		clock = utils.SystemClock
	}
	return &CatalogService{store: store, clock: clock}
}

func (s *CatalogService) Create(ctx context.Context, doctorID, name string, price int64) (*models.Service, error) {
	service := &models.Service{
		ID:        uuid.NewString(),
		DoctorID:  doctorID,
		Name:      strings.TrimSpace(name),
		Price:     price,
		CreatedAt: s.clock.Now().UTC().Truncate(time.Microsecond),
	}
	if err := utils.ValidateService(*service); err != nil {
		return nil, apperrors.InvalidInput(err)
	}
	if err := s.store.CreateService(ctx, service); err != nil {
		return nil, errors.Wrap(err, "failed to create service")
	}
	return service, nil
}

func (s *CatalogService) List(ctx context.Context, doctorID string) ([]models.Service, error) {
	return s.store.ListServices(ctx, doctorID)
}

func (s *CatalogService) Delete(ctx context.Context, doctorID, id string) error {
	return s.store.DeleteService(ctx, doctorID, id)
}
