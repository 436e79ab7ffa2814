// Package repositories holds the storage collaborator behind the ledger,
// chart and reporting services, with a gorm implementation for Postgres and
// SQLite and an in-process one.
package repositories

import (
	"context"
	"time"

	"github.com/diyorbekkd/thDent/models"
)

// Store is the storage collaborator. Implementations return
// apperrors.ErrNotFound for missing rows and wrap backend failures in
// apperrors.ErrStorageUnavailable. Lists are ascending by (created_at, seq)
// unless noted.
type Store interface {
	CreatePatient(ctx context.Context, p *models.Patient) error
	GetPatient(ctx context.Context, id string) (*models.Patient, error)
	// ListPatients returns the doctor's patients ordered by full name.
	ListPatients(ctx context.Context, doctorID string) ([]models.Patient, error)
	// UpdatePatientProfile writes every column except balance.
	UpdatePatientProfile(ctx context.Context, p *models.Patient) error
	// DeletePatient removes the patient with its treatments, transactions
	// and appointments.
	DeletePatient(ctx context.Context, id string) error

	// AppendLedger stores entry and adds delta to its patient's balance in one
	// atomic step, assigning the entry its sequence number. It returns the
	// balance after the update.
	AppendLedger(ctx context.Context, entry models.LedgerEntry, delta int64) (int64, error)
	// CreateTransaction stores a transaction that does not move any balance.
	CreateTransaction(ctx context.Context, t *models.Transaction) error
	ListTreatments(ctx context.Context, f TreatmentFilter) ([]models.Treatment, error)
	ListTransactions(ctx context.Context, f TransactionFilter) ([]models.Transaction, error)
	// Snapshot reads everything q asks for from one consistent view.
	Snapshot(ctx context.Context, q SnapshotQuery) (*Snapshot, error)

	CreateAppointment(ctx context.Context, a *models.Appointment) error
	GetAppointment(ctx context.Context, id string) (*models.Appointment, error)
	// ListAppointments is ordered by scheduled time.
	ListAppointments(ctx context.Context, f AppointmentFilter) ([]models.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id string, status models.AppointmentStatus) error
	DeleteAppointment(ctx context.Context, id string) error

	// CreateService returns apperrors.ErrConflict when the doctor already has
	// a service with the same name.
	CreateService(ctx context.Context, s *models.Service) error
	// ListServices is ordered by name.
	ListServices(ctx context.Context, doctorID string) ([]models.Service, error)
	DeleteService(ctx context.Context, doctorID, id string) error

	// GetDoctor returns apperrors.ErrNotFound until the doctor saves a profile.
	GetDoctor(ctx context.Context, id string) (*models.Doctor, error)
	// SaveDoctor creates or replaces the profile.
	SaveDoctor(ctx context.Context, d *models.Doctor) error

	Ping(ctx context.Context) error
	Close() error
}

// TimeRange bounds created_at or scheduled_at. Zero values leave that side
// open; both bounds are inclusive.
type TimeRange struct {
	From time.Time
	To   time.Time
}

func (r TimeRange) contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

type TreatmentFilter struct {
	DoctorID    string
	PatientID   string
	ToothNumber int
	Range       TimeRange
}

func (f TreatmentFilter) Match(t *models.Treatment) bool {
	if f.DoctorID != "" && t.DoctorID != f.DoctorID {
		return false
	}
	if f.PatientID != "" && t.PatientID != f.PatientID {
		return false
	}
	if f.ToothNumber != 0 && t.ToothNumber != f.ToothNumber {
		return false
	}
	return f.Range.contains(t.CreatedAt)
}

type TransactionFilter struct {
	DoctorID  string
	PatientID string
	Type      models.TransactionType
	Range     TimeRange
}

func (f TransactionFilter) Match(t *models.Transaction) bool {
	if f.DoctorID != "" && t.DoctorID != f.DoctorID {
		return false
	}
	if f.PatientID != "" && (t.PatientID == nil || *t.PatientID != f.PatientID) {
		return false
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	return f.Range.contains(t.CreatedAt)
}

type AppointmentFilter struct {
	DoctorID  string
	PatientID string
	Range     TimeRange
}

func (f AppointmentFilter) Match(a *models.Appointment) bool {
	if f.DoctorID != "" && a.DoctorID != f.DoctorID {
		return false
	}
	if f.PatientID != "" && a.PatientID != f.PatientID {
		return false
	}
	return f.Range.contains(a.ScheduledAt)
}

// SnapshotQuery selects what a Snapshot reads. Nil filters are skipped.
type SnapshotQuery struct {
	PatientID    string
	Treatments   *TreatmentFilter
	Transactions *TransactionFilter
}

type Snapshot struct {
	Patient      *models.Patient
	Treatments   []models.Treatment
	Transactions []models.Transaction
}
