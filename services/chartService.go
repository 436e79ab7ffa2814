package services

import (
	"context"

	"github.com/diyorbekkd/thDent/apperrors"
	"github.com/diyorbekkd/thDent/models"
	"github.com/diyorbekkd/thDent/repositories"

	"github.com/pkg/errors"
)

type ChartService struct {
	store repositories.Store
}

func NewChartService(store repositories.Store) *ChartService {
	return &ChartService{store: store}
}

// PatientChart resolves the chart from one consistent read of the patient
// and their treatments.
func (s *ChartService) PatientChart(ctx context.Context, doctorID, patientID string) (*Chart, error) {
	snap, err := s.store.Snapshot(ctx, repositories.SnapshotQuery{
		PatientID:  patientID,
		Treatments: &repositories.TreatmentFilter{PatientID: patientID},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load treatment history")
	}
	if snap.Patient.DoctorID != doctorID {
		return nil, errors.Wrapf(apperrors.ErrNotFound, "patient %s", patientID)
	}
	return ResolveChart(snap.Patient.Type, snap.Treatments)
}

// ToothHistory lists the treatments of one tooth, newest first.
func (s *ChartService) ToothHistory(ctx context.Context, doctorID, patientID string, tooth int) ([]models.Treatment, error) {
	snap, err := s.store.Snapshot(ctx, repositories.SnapshotQuery{
		PatientID:  patientID,
		Treatments: &repositories.TreatmentFilter{PatientID: patientID, ToothNumber: tooth},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load tooth history")
	}
	if snap.Patient.DoctorID != doctorID {
		return nil, errors.Wrapf(apperrors.ErrNotFound, "patient %s", patientID)
	}
	if !models.ValidTooth(snap.Patient.Type, tooth) {
		return nil, apperrors.Invalid("tooth_number", "tooth is not part of the patient's chart")
	}
	history := snap.Treatments
	reverse(history)
	return history, nil
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
