package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/diyorbekkd/thDent/apperrors"
	"github.com/diyorbekkd/thDent/cache"
	"github.com/diyorbekkd/thDent/models"
	"github.com/diyorbekkd/thDent/notifications"
	"github.com/diyorbekkd/thDent/repositories"
	"github.com/diyorbekkd/thDent/utils"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const notifyTimeout = 15 * time.Second

// LedgerService is the only writer of patient balances. Every charge or
// payment appends one ledger row and moves the balance in the same store
// transaction, under a per-patient lock.
type LedgerService struct {
	store    repositories.Store
	locker   Locker
	clock    utils.Clock
	notifier notifications.Notifier
	cache    *cache.Cache

	pending sync.WaitGroup
}

// NewLedgerService wires the engine. Nil collaborators fall back to an
// in-process locker, the system clock, no notifications and no cache.
func NewLedgerService(store repositories.Store, locker Locker, clock utils.Clock, notifier notifications.Notifier, c *cache.Cache) *LedgerService {
	if locker == nil {
		locker = NewLocalLocker()
	}
	if clock == nil {
		clock = utils.SystemClock
	}
	if notifier == nil {
		notifier = notifications.Noop{}
	}
	return &LedgerService{store: store, locker: locker, clock: clock, notifier: notifier, cache: c}
}

type ChargeInput struct {
	DoctorID    string                `json:"-"`
	PatientID   string                `json:"patient_id"`
	ToothNumber int                   `json:"tooth_number"`
	Condition   models.ToothCondition `json:"condition"`
	Price       int64                 `json:"price"`
}

func (in ChargeInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.DoctorID, validation.Required),
		validation.Field(&in.PatientID, validation.Required),
		validation.Field(&in.ToothNumber, validation.Required),
		validation.Field(&in.Condition, validation.Required, validation.In(conditionValues()...)),
		validation.Field(&in.Price, validation.Min(int64(0))),
	)
}

type PaymentInput struct {
	DoctorID    string `json:"-"`
	PatientID   string `json:"patient_id"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

func (in PaymentInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.DoctorID, validation.Required),
		validation.Field(&in.PatientID, validation.Required),
		validation.Field(&in.Amount, validation.Required, validation.Min(int64(1))),
		validation.Field(&in.Description, validation.Length(0, 500)),
	)
}

type ExpenseInput struct {
	DoctorID    string                     `json:"-"`
	Amount      int64                      `json:"amount"`
	Category    models.TransactionCategory `json:"category"`
	Description string                     `json:"description"`
	// PatientID optionally links the expense to a patient for reporting.
	PatientID string `json:"patient_id,omitempty"`
}

func (in ExpenseInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.DoctorID, validation.Required),
		validation.Field(&in.Amount, validation.Required, validation.Min(int64(1))),
		validation.Field(&in.Category, validation.Required, validation.In(categoryValues()...)),
		validation.Field(&in.Description, validation.Length(0, 500)),
	)
}

func conditionValues() []interface{} {
	var out []interface{}
	for _, c := range models.ToothConditions() {
		out = append(out, c)
	}
	return out
}

func categoryValues() []interface{} {
	var out []interface{}
	for _, c := range models.TransactionCategories() {
		out = append(out, c)
	}
	return out
}

// ChargeTreatment records a treatment on a tooth and debits its price from
// the patient's balance.
func (s *LedgerService) ChargeTreatment(ctx context.Context, in ChargeInput) (*models.Treatment, int64, error) {
	if err := in.Validate(); err != nil {
		return nil, 0, apperrors.InvalidInput(err)
	}

	unlock, err := s.locker.Lock(ctx, patientLockKey(in.PatientID))
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to lock patient ledger")
	}
	defer unlock()

	patient, err := s.ownedPatient(ctx, in.DoctorID, in.PatientID)
	if err != nil {
		return nil, 0, err
	}
	if !models.ValidTooth(patient.Type, in.ToothNumber) {
		return nil, 0, apperrors.Invalid("tooth_number",
			fmt.Sprintf("tooth %d is not part of the %s chart", in.ToothNumber, patient.Type))
	}

	treatment := &models.Treatment{
		ID:          uuid.NewString(),
		PatientID:   patient.ID,
		DoctorID:    in.DoctorID,
		ToothNumber: in.ToothNumber,
		Condition:   in.Condition,
		Price:       in.Price,
		CreatedAt:   s.now(),
	}
	balance, err := s.store.AppendLedger(ctx, treatment, -in.Price)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to charge treatment")
	}

	log.Info().
		Str("patient_id", patient.ID).
		Int("tooth", treatment.ToothNumber).
		Str("condition", string(treatment.Condition)).
		Int64("price", treatment.Price).
		Int64("balance", balance).
		Msg("treatment charged")

	s.afterCommit(ctx, in.DoctorID, patient.ID, notifications.Message{
		Subject: "Treatment",
		Text: fmt.Sprintf("Patient: %s\nTooth %d: %s\nPrice: %s\nBalance: %s",
			escape(patient.FullName), treatment.ToothNumber, treatment.Condition,
			formatAmount(treatment.Price), formatAmount(balance)),
	})
	return treatment, balance, nil
}

// RecordPayment credits the patient's balance with an income transaction.
func (s *LedgerService) RecordPayment(ctx context.Context, in PaymentInput) (*models.Transaction, int64, error) {
	if err := in.Validate(); err != nil {
		return nil, 0, apperrors.InvalidInput(err)
	}

	unlock, err := s.locker.Lock(ctx, patientLockKey(in.PatientID))
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to lock patient ledger")
	}
	defer unlock()

	patient, err := s.ownedPatient(ctx, in.DoctorID, in.PatientID)
	if err != nil {
		return nil, 0, err
	}

	description := in.Description
	if description == "" {
		description = "Payment: " + patient.FullName
	}
	patientID := patient.ID
	payment := &models.Transaction{
		ID:          uuid.NewString(),
		PatientID:   &patientID,
		DoctorID:    in.DoctorID,
		Amount:      in.Amount,
		Type:        models.TransactionIncome,
		Category:    models.CategoryTreatment,
		Description: description,
		CreatedAt:   s.now(),
	}
	balance, err := s.store.AppendLedger(ctx, payment, in.Amount)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to record payment")
	}

	log.Info().
		Str("patient_id", patient.ID).
		Int64("amount", payment.Amount).
		Int64("balance", balance).
		Msg("payment recorded")

	s.afterCommit(ctx, in.DoctorID, patient.ID, notifications.Message{
		Subject: "Payment",
		Text: fmt.Sprintf("Patient: %s\nAmount: %s\nBalance: %s",
			escape(patient.FullName), formatAmount(payment.Amount), formatAmount(balance)),
	})
	return payment, balance, nil
}

// RecordExpense stores a clinic expense. Expenses never change a patient
// balance, even when linked to a patient.
func (s *LedgerService) RecordExpense(ctx context.Context, in ExpenseInput) (*models.Transaction, error) {
	if err := in.Validate(); err != nil {
		return nil, apperrors.InvalidInput(err)
	}

	expense := &models.Transaction{
		ID:          uuid.NewString(),
		DoctorID:    in.DoctorID,
		Amount:      in.Amount,
		Type:        models.TransactionExpense,
		Category:    in.Category,
		Description: in.Description,
		CreatedAt:   s.now(),
	}
	if in.PatientID != "" {
		patient, err := s.ownedPatient(ctx, in.DoctorID, in.PatientID)
		if err != nil {
			return nil, err
		}
		expense.PatientID = &patient.ID
	}

	if err := s.store.CreateTransaction(ctx, expense); err != nil {
		return nil, errors.Wrap(err, "failed to record expense")
	}
	log.Info().
		Str("category", string(expense.Category)).
		Int64("amount", expense.Amount).
		Msg("expense recorded")
	return expense, nil
}

// Reconciliation compares a stored balance with the one the ledger implies.
type Reconciliation struct {
	PatientID string `json:"patient_id"`
	Stored    int64  `json:"stored"`
	Expected  int64  `json:"expected"`
	Drift     int64  `json:"drift"`
}

// Reconcile recomputes the balance from the patient's ledger rows. When the
// stored balance differs it returns the result together with ErrConflict.
func (s *LedgerService) Reconcile(ctx context.Context, doctorID, patientID string) (*Reconciliation, error) {
	snap, err := s.store.Snapshot(ctx, repositories.SnapshotQuery{
		PatientID:    patientID,
		Treatments:   &repositories.TreatmentFilter{PatientID: patientID},
		Transactions: &repositories.TransactionFilter{PatientID: patientID, Type: models.TransactionIncome},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load ledger")
	}
	if snap.Patient.DoctorID != doctorID {
		return nil, errors.Wrapf(apperrors.ErrNotFound, "patient %s", patientID)
	}

	var expected int64
	for _, t := range snap.Transactions {
		expected += t.Amount
	}
	for _, t := range snap.Treatments {
		expected -= t.Price
	}

	rec := &Reconciliation{
		PatientID: patientID,
		Stored:    snap.Patient.Balance,
		Expected:  expected,
		Drift:     snap.Patient.Balance - expected,
	}
	if rec.Drift != 0 {
		log.Error().Str("patient_id", patientID).Int64("drift", rec.Drift).Msg("balance drift detected")
		return rec, errors.Wrapf(apperrors.ErrConflict, "balance drifted by %d", rec.Drift)
	}
	return rec, nil
}

// Wait blocks until in-flight notifications finish.
func (s *LedgerService) Wait() {
	s.pending.Wait()
}

func (s *LedgerService) ownedPatient(ctx context.Context, doctorID, patientID string) (*models.Patient, error) {
	patient, err := s.store.GetPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if patient.DoctorID != doctorID {
		return nil, errors.Wrapf(apperrors.ErrNotFound, "patient %s", patientID)
	}
	return patient, nil
}

// afterCommit drops stale cache entries and sends the receipt to the
// doctor's own chat, or to the clinic default when the doctor has none.
// Neither step can fail the ledger write that preceded it.
func (s *LedgerService) afterCommit(ctx context.Context, doctorID, patientID string, msg notifications.Message) {
	bg := context.WithoutCancel(ctx)
	if err := s.cache.Delete(bg, patientCacheKey(patientID)); err != nil {
		log.Warn().Err(err).Str("patient_id", patientID).Msg("failed to invalidate patient cache")
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		nctx, cancel := context.WithTimeout(bg, notifyTimeout)
		defer cancel()

		msg.Destination = s.receiptChat(nctx, doctorID)
		if err := s.notifier.Notify(nctx, msg); err != nil {
			log.Warn().Err(err).Str("patient_id", patientID).Msg("failed to send receipt")
		}
	}()
}

func (s *LedgerService) receiptChat(ctx context.Context, doctorID string) string {
	doctor, err := s.store.GetDoctor(ctx, doctorID)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			log.Warn().Err(err).Str("doctor_id", doctorID).Msg("failed to load doctor profile")
		}
		return ""
	}
	return doctor.TelegramChatID
}

func (s *LedgerService) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Microsecond)
}
