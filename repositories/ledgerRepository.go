package repositories

import (
	"context"

	"github.com/diyorbekkd/thDent/apperrors"
	"github.com/diyorbekkd/thDent/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AppendLedger updates the balance first so the patient row stays locked
// for the rest of the transaction; the sequence read below cannot race with
// another append for the same patient.
func (s *GormStore) AppendLedger(ctx context.Context, entry models.LedgerEntry, delta int64) (int64, error) {
	patientID := entry.EntryPatientID()
	if patientID == "" {
		return 0, apperrors.Invalid("patient_id", "ledger entries need a patient")
	}
	table, err := ledgerTable(entry)
	if err != nil {
		return 0, err
	}

	var balance int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Patient{}).
			Where("id = ?", patientID).
			UpdateColumn("balance", gorm.Expr("balance + ?", delta))
		if err := checkAffected(res, "failed to update balance"); err != nil {
			return err
		}

		var seq int64
		if err := tx.Table(table).
			Where("patient_id = ?", patientID).
			Select("COALESCE(MAX(seq), 0)").
			Scan(&seq).Error; err != nil {
			return storageErr(err, "failed to obtain next sequence value")
		}
		entry.SetSequence(seq + 1)

		if err := tx.Create(entry).Error; err != nil {
			return storageErr(err, "failed to append ledger entry")
		}

		var patient models.Patient
		if err := tx.Select("balance").First(&patient, "id = ?", patientID).Error; err != nil {
			return storageErr(err, "failed to read balance")
		}
		balance = patient.Balance
		return nil
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func ledgerTable(entry models.LedgerEntry) (string, error) {
	switch entry.(type) {
	case *models.Treatment:
		return models.Treatment{}.TableName(), nil
	case *models.Transaction:
		return models.Transaction{}.TableName(), nil
	}
	return "", errors.Errorf("unsupported ledger entry %T", entry)
}

// CreateTransaction stores a balance-neutral transaction. Rows tied to a
// patient still take the next sequence number of that patient, under the
// same row lock AppendLedger holds.
func (s *GormStore) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq int64
		q := tx.Model(&models.Transaction{}).Select("COALESCE(MAX(seq), 0)")
		if t.PatientID != nil {
			var locked models.Patient
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Select("id").
				First(&locked, "id = ?", *t.PatientID).Error; err != nil {
				return storageErr(err, "failed to lock patient")
			}
			q = q.Where("patient_id = ?", *t.PatientID)
		} else {
			q = q.Where("patient_id IS NULL AND doctor_id = ?", t.DoctorID)
		}
		if err := q.Scan(&seq).Error; err != nil {
			return storageErr(err, "failed to obtain next sequence value")
		}
		t.Seq = seq + 1
		return tx.Create(t).Error
	})
	if err != nil {
		return storageErr(err, "failed to create transaction")
	}
	return nil
}

func (s *GormStore) ListTreatments(ctx context.Context, f TreatmentFilter) ([]models.Treatment, error) {
	return findTreatments(s.db.WithContext(ctx), f)
}

func (s *GormStore) ListTransactions(ctx context.Context, f TransactionFilter) ([]models.Transaction, error) {
	return findTransactions(s.db.WithContext(ctx), f)
}

func findTreatments(db *gorm.DB, f TreatmentFilter) ([]models.Treatment, error) {
	q := db.Model(&models.Treatment{})
	if f.DoctorID != "" {
		q = q.Where("doctor_id = ?", f.DoctorID)
	}
	if f.PatientID != "" {
		q = q.Where("patient_id = ?", f.PatientID)
	}
	if f.ToothNumber != 0 {
		q = q.Where("tooth_number = ?", f.ToothNumber)
	}
	q = applyRange(q, "created_at", f.Range)

	var treatments []models.Treatment
	if err := q.Order("created_at ASC").Order("seq ASC").Order("id ASC").Find(&treatments).Error; err != nil {
		return nil, storageErr(err, "failed to list treatments")
	}
	return treatments, nil
}

func findTransactions(db *gorm.DB, f TransactionFilter) ([]models.Transaction, error) {
	q := db.Model(&models.Transaction{})
	if f.DoctorID != "" {
		q = q.Where("doctor_id = ?", f.DoctorID)
	}
	if f.PatientID != "" {
		q = q.Where("patient_id = ?", f.PatientID)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	q = applyRange(q, "created_at", f.Range)

	var transactions []models.Transaction
	if err := q.Order("created_at ASC").Order("seq ASC").Order("id ASC").Find(&transactions).Error; err != nil {
		return nil, storageErr(err, "failed to list transactions")
	}
	return transactions, nil
}

func applyRange(q *gorm.DB, column string, r TimeRange) *gorm.DB {
	if !r.From.IsZero() {
		q = q.Where(column+" >= ?", r.From.UTC())
	}
	if !r.To.IsZero() {
		q = q.Where(column+" <= ?", r.To.UTC())
	}
	return q
}
