package services

import (
	"context"
	"time"

	"github.com/diyorbekkd/thDent/apperrors"
	"github.com/diyorbekkd/thDent/cache"
	"github.com/diyorbekkd/thDent/models"
	"github.com/diyorbekkd/thDent/repositories"
	"github.com/diyorbekkd/thDent/utils"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// PatientCacheExpiry bounds how long a cached profile may trail the ledger
// when a cache fill races a balance update.
const PatientCacheExpiry = 30 * time.Second

func patientCacheKey(id string) string {
	return "patient_cache:" + id
}

type PatientService struct {
	store       repositories.Store
	clock       utils.Clock
	cache       *cache.Cache
	phoneRegion string
}

func NewPatientService(store repositories.Store, clock utils.Clock, c *cache.Cache) *PatientService {
	if clock == nil {
		clock = utils.SystemClock
	}
	return &PatientService{store: store, clock: clock, cache: c, phoneRegion: utils.DefaultPhoneRegion}
}

// PatientInput carries the editable profile fields. Balance is not one of
// them.
type PatientInput struct {
	DoctorID  string             `json:"-"`
	FullName  string             `json:"full_name"`
	Phone     string             `json:"phone"`
	BirthDate *time.Time         `json:"birth_date,omitempty"`
	Gender    models.Gender      `json:"gender,omitempty"`
	Type      models.PatientType `json:"type"`
}

func (s *PatientService) Create(ctx context.Context, in PatientInput) (*models.Patient, error) {
	patient := &models.Patient{
		ID:        uuid.NewString(),
		DoctorID:  in.DoctorID,
		CreatedAt: s.clock.Now().UTC().Truncate(time.Microsecond),
	}
	if err := s.applyProfile(patient, in); err != nil {
		return nil, err
	}
	if err := s.store.CreatePatient(ctx, patient); err != nil {
		return nil, errors.Wrap(err, "failed to create patient")
	}
	log.Info().Str("patient_id", patient.ID).Str("doctor_id", patient.DoctorID).Msg("patient created")
	return patient, nil
}

// Get reads through the cache. Cache failures only cost a store read.
func (s *PatientService) Get(ctx context.Context, doctorID, id string) (*models.Patient, error) {
	var patient models.Patient
	hit, err := s.cache.GetJSON(ctx, patientCacheKey(id), &patient)
	if err != nil {
		log.Warn().Err(err).Str("patient_id", id).Msg("failed to get patient from cache")
	}
	if !hit {
		p, err := s.store.GetPatient(ctx, id)
		if err != nil {
			return nil, err
		}
		patient = *p
		if err := s.cache.SetJSON(ctx, patientCacheKey(id), patient, PatientCacheExpiry); err != nil {
			log.Warn().Err(err).Str("patient_id", id).Msg("failed to set patient in cache")
		}
	}
	if patient.DoctorID != doctorID {
		return nil, errors.Wrapf(apperrors.ErrNotFound, "patient %s", id)
	}
	return &patient, nil
}

func (s *PatientService) List(ctx context.Context, doctorID string) ([]models.Patient, error) {
	return s.store.ListPatients(ctx, doctorID)
}

func (s *PatientService) Update(ctx context.Context, doctorID, id string, in PatientInput) (*models.Patient, error) {
	patient, err := s.owned(ctx, doctorID, id)
	if err != nil {
		return nil, err
	}
	in.DoctorID = doctorID
	if err := s.applyProfile(patient, in); err != nil {
		return nil, err
	}
	if err := s.store.UpdatePatientProfile(ctx, patient); err != nil {
		return nil, errors.Wrap(err, "failed to update patient")
	}
	s.invalidate(ctx, id)
	return patient, nil
}

// Delete removes the patient together with their ledger rows and
// appointments.
func (s *PatientService) Delete(ctx context.Context, doctorID, id string) error {
	if _, err := s.owned(ctx, doctorID, id); err != nil {
		return err
	}
	if err := s.store.DeletePatient(ctx, id); err != nil {
		return errors.Wrap(err, "failed to delete patient")
	}
	s.invalidate(ctx, id)
	log.Info().Str("patient_id", id).Msg("patient deleted with related records")
	return nil
}

// PatientHistory is the patient card: profile plus ledger, newest first.
type PatientHistory struct {
	Patient      *models.Patient      `json:"patient"`
	Treatments   []models.Treatment   `json:"treatments"`
	Transactions []models.Transaction `json:"transactions"`
}

func (s *PatientService) History(ctx context.Context, doctorID, id string) (*PatientHistory, error) {
	snap, err := s.store.Snapshot(ctx, repositories.SnapshotQuery{
		PatientID:    id,
		Treatments:   &repositories.TreatmentFilter{PatientID: id},
		Transactions: &repositories.TransactionFilter{PatientID: id},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load patient history")
	}
	if snap.Patient.DoctorID != doctorID {
		return nil, errors.Wrapf(apperrors.ErrNotFound, "patient %s", id)
	}
	reverse(snap.Treatments)
	reverse(snap.Transactions)
	return &PatientHistory{Patient: snap.Patient, Treatments: snap.Treatments, Transactions: snap.Transactions}, nil
}

func (s *PatientService) owned(ctx context.Context, doctorID, id string) (*models.Patient, error) {
	patient, err := s.store.GetPatient(ctx, id)
	if err != nil {
		return nil, err
	}
	if patient.DoctorID != doctorID {
		return nil, errors.Wrapf(apperrors.ErrNotFound, "patient %s", id)
	}
	return patient, nil
}

func (s *PatientService) applyProfile(p *models.Patient, in PatientInput) error {
	p.DoctorID = in.DoctorID
	p.FullName = in.FullName
	p.BirthDate = in.BirthDate
	p.Gender = in.Gender
	p.Type = in.Type
	p.Phone = in.Phone
	if in.Phone != "" {
		phone, err := utils.NormalizePhone(in.Phone, s.phoneRegion)
		if err != nil {
			return apperrors.Invalid("phone", err.Error())
		}
		p.Phone = phone
	}
	if p.BirthDate != nil {
		bd := p.BirthDate.UTC()
		p.BirthDate = &bd
	}
	if err := utils.ValidatePatient(*p); err != nil {
		return apperrors.InvalidInput(err)
	}
	return nil
}

func (s *PatientService) invalidate(ctx context.Context, id string) {
	if err := s.cache.Delete(context.WithoutCancel(ctx), patientCacheKey(id)); err != nil {
		log.Warn().Err(err).Str("patient_id", id).Msg("failed to delete patient cache")
	}
}
