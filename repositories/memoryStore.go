package repositories

import (
	"context"
	"sort"
	"sync"

	"github.com/diyorbekkd/thDent/apperrors"
	"github.com/diyorbekkd/thDent/models"

	"github.com/pkg/errors"
)

// MemoryStore keeps everything in process behind one RWMutex. Every method
// hands out copies, so callers can never mutate stored rows.
type MemoryStore struct {
	mu sync.RWMutex

	patients     map[string]*models.Patient
	treatments   []models.Treatment
	transactions []models.Transaction
	appointments map[string]*models.Appointment
	services     map[string]*models.Service
	doctors      map[string]*models.Doctor

	// last sequence per patient (or per doctor for clinic expenses) and table
	seqs map[string]int64
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		patients:     make(map[string]*models.Patient),
		appointments: make(map[string]*models.Appointment),
		services:     make(map[string]*models.Service),
		doctors:      make(map[string]*models.Doctor),
		seqs:         make(map[string]int64),
	}
}

func (s *MemoryStore) Ping(context.Context) error { return nil }
func (s *MemoryStore) Close() error               { return nil }

func (s *MemoryStore) CreatePatient(_ context.Context, p *models.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.patients[p.ID]; exists {
		return errors.Wrapf(apperrors.ErrConflict, "patient %s already exists", p.ID)
	}
	cp := *p
	s.patients[p.ID] = &cp
	return nil
}

func (s *MemoryStore) GetPatient(_ context.Context, id string) (*models.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getPatient(id)
}

func (s *MemoryStore) getPatient(id string) (*models.Patient, error) {
	p, ok := s.patients[id]
	if !ok {
		return nil, errors.Wrapf(apperrors.ErrNotFound, "patient %s", id)
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryStore) ListPatients(_ context.Context, doctorID string) ([]models.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Patient, 0)
	for _, p := range s.patients {
		if p.DoctorID == doctorID {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].FullName != result[j].FullName {
			return result[i].FullName < result[j].FullName
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (s *MemoryStore) UpdatePatientProfile(_ context.Context, p *models.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.patients[p.ID]
	if !ok {
		return errors.Wrapf(apperrors.ErrNotFound, "patient %s", p.ID)
	}
	cur.FullName = p.FullName
	cur.Phone = p.Phone
	cur.BirthDate = p.BirthDate
	cur.Gender = p.Gender
	cur.Type = p.Type
	return nil
}

func (s *MemoryStore) DeletePatient(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.patients[id]; !ok {
		return errors.Wrapf(apperrors.ErrNotFound, "patient %s", id)
	}
	delete(s.patients, id)

	trs := s.treatments[:0]
	for _, t := range s.treatments {
		if t.PatientID != id {
			trs = append(trs, t)
		}
	}
	s.treatments = trs

	txs := s.transactions[:0]
	for _, t := range s.transactions {
		if t.PatientID == nil || *t.PatientID != id {
			txs = append(txs, t)
		}
	}
	s.transactions = txs

	for aid, a := range s.appointments {
		if a.PatientID == id {
			delete(s.appointments, aid)
		}
	}
	return nil
}

func (s *MemoryStore) AppendLedger(_ context.Context, entry models.LedgerEntry, delta int64) (int64, error) {
	patientID := entry.EntryPatientID()
	if patientID == "" {
		return 0, apperrors.Invalid("patient_id", "ledger entries need a patient")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.patients[patientID]
	if !ok {
		return 0, errors.Wrapf(apperrors.ErrNotFound, "patient %s", patientID)
	}

	switch e := entry.(type) {
	case *models.Treatment:
		e.SetSequence(s.nextSeq("treatments:" + patientID))
		s.treatments = append(s.treatments, *e)
	case *models.Transaction:
		e.SetSequence(s.nextSeq("transactions:" + patientID))
		s.transactions = append(s.transactions, cloneTransaction(*e))
	default:
		return 0, errors.Errorf("unsupported ledger entry %T", entry)
	}
	p.Balance += delta
	return p.Balance, nil
}

func (s *MemoryStore) nextSeq(key string) int64 {
	s.seqs[key]++
	return s.seqs[key]
}

func (s *MemoryStore) CreateTransaction(_ context.Context, t *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := "transactions:doctor:" + t.DoctorID
	if t.PatientID != nil {
		if _, ok := s.patients[*t.PatientID]; !ok {
			return errors.Wrapf(apperrors.ErrNotFound, "patient %s", *t.PatientID)
		}
		key = "transactions:" + *t.PatientID
	}
	t.Seq = s.nextSeq(key)
	s.transactions = append(s.transactions, cloneTransaction(*t))
	return nil
}

func (s *MemoryStore) ListTreatments(_ context.Context, f TreatmentFilter) ([]models.Treatment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.treatmentsMatching(f), nil
}

func (s *MemoryStore) ListTransactions(_ context.Context, f TransactionFilter) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transactionsMatching(f), nil
}

func (s *MemoryStore) treatmentsMatching(f TreatmentFilter) []models.Treatment {
	result := make([]models.Treatment, 0)
	for i := range s.treatments {
		if f.Match(&s.treatments[i]) {
			result = append(result, s.treatments[i])
		}
	}
	models.SortTreatments(result)
	return result
}

func (s *MemoryStore) transactionsMatching(f TransactionFilter) []models.Transaction {
	result := make([]models.Transaction, 0)
	for i := range s.transactions {
		if f.Match(&s.transactions[i]) {
			result = append(result, cloneTransaction(s.transactions[i]))
		}
	}
	models.SortTransactions(result)
	return result
}

func cloneTransaction(t models.Transaction) models.Transaction {
	if t.PatientID != nil {
		id := *t.PatientID
		t.PatientID = &id
	}
	return t
}

func (s *MemoryStore) Snapshot(_ context.Context, q SnapshotQuery) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &Snapshot{}
	if q.PatientID != "" {
		p, err := s.getPatient(q.PatientID)
		if err != nil {
			return nil, err
		}
		snap.Patient = p
	}
	if q.Treatments != nil {
		snap.Treatments = s.treatmentsMatching(*q.Treatments)
	}
	if q.Transactions != nil {
		snap.Transactions = s.transactionsMatching(*q.Transactions)
	}
	return snap, nil
}

func (s *MemoryStore) CreateAppointment(_ context.Context, a *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.appointments[a.ID]; exists {
		return errors.Wrapf(apperrors.ErrConflict, "appointment %s already exists", a.ID)
	}
	cp := *a
	s.appointments[a.ID] = &cp
	return nil
}

func (s *MemoryStore) GetAppointment(_ context.Context, id string) (*models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.appointments[id]
	if !ok {
		return nil, errors.Wrapf(apperrors.ErrNotFound, "appointment %s", id)
	}
	cp := *a
	return &cp, nil
}

func (s *MemoryStore) ListAppointments(_ context.Context, f AppointmentFilter) ([]models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Appointment, 0)
	for _, a := range s.appointments {
		if f.Match(a) {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].ScheduledAt.Equal(result[j].ScheduledAt) {
			return result[i].ScheduledAt.Before(result[j].ScheduledAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (s *MemoryStore) UpdateAppointmentStatus(_ context.Context, id string, status models.AppointmentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.appointments[id]
	if !ok {
		return errors.Wrapf(apperrors.ErrNotFound, "appointment %s", id)
	}
	a.Status = status
	return nil
}

func (s *MemoryStore) DeleteAppointment(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.appointments[id]; !ok {
		return errors.Wrapf(apperrors.ErrNotFound, "appointment %s", id)
	}
	delete(s.appointments, id)
	return nil
}

func (s *MemoryStore) CreateService(_ context.Context, svc *models.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.services {
		if existing.DoctorID == svc.DoctorID && existing.Name == svc.Name {
			return errors.Wrapf(apperrors.ErrConflict, "service %q already exists", svc.Name)
		}
	}
	cp := *svc
	s.services[svc.ID] = &cp
	return nil
}

func (s *MemoryStore) ListServices(_ context.Context, doctorID string) ([]models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Service, 0)
	for _, svc := range s.services {
		if svc.DoctorID == doctorID {
			result = append(result, *svc)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (s *MemoryStore) DeleteService(_ context.Context, doctorID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	svc, ok := s.services[id]
	if !ok || svc.DoctorID != doctorID {
		return errors.Wrapf(apperrors.ErrNotFound, "service %s", id)
	}
	delete(s.services, id)
	return nil
}

func (s *MemoryStore) GetDoctor(_ context.Context, id string) (*models.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.doctors[id]
	if !ok {
		return nil, errors.Wrapf(apperrors.ErrNotFound, "doctor %s", id)
	}
	cp := *d
	return &cp, nil
}

func (s *MemoryStore) SaveDoctor(_ context.Context, d *models.Doctor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *d
	s.doctors[d.ID] = &cp
	return nil
}
