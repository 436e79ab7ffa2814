package models

import (
	"fmt"
	"sort"
	"time"
)

// ToothCondition is the clinical state recorded by a treatment.
type ToothCondition string

const (
	ConditionCaries     ToothCondition = "caries"
	ConditionFilling    ToothCondition = "filling"
	ConditionImplant    ToothCondition = "implant"
	ConditionCrown      ToothCondition = "crown"
	ConditionMissing    ToothCondition = "missing"
	ConditionExtraction ToothCondition = "extraction"
	ConditionHealthy    ToothCondition = "healthy"
)

// ToothConditions lists every accepted condition.
func ToothConditions() []ToothCondition {
	return []ToothCondition{
		ConditionCaries, ConditionFilling, ConditionImplant, ConditionCrown,
		ConditionMissing, ConditionExtraction, ConditionHealthy,
	}
}

func ParseToothCondition(s string) (ToothCondition, error) {
	for _, c := range ToothConditions() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown tooth condition %q", s)
}

type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

func ParseTransactionType(s string) (TransactionType, error) {
	switch t := TransactionType(s); t {
	case TransactionIncome, TransactionExpense:
		return t, nil
	}
	return "", fmt.Errorf("unknown transaction type %q", s)
}

type TransactionCategory string

const (
	CategoryTreatment TransactionCategory = "treatment"
	CategoryMaterial  TransactionCategory = "material"
	CategoryLunch     TransactionCategory = "lunch"
	CategoryTransport TransactionCategory = "transport"
	CategoryOther     TransactionCategory = "other"
)

func TransactionCategories() []TransactionCategory {
	return []TransactionCategory{CategoryTreatment, CategoryMaterial, CategoryLunch, CategoryTransport, CategoryOther}
}

func ParseTransactionCategory(s string) (TransactionCategory, error) {
	for _, c := range TransactionCategories() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown transaction category %q", s)
}

// LedgerEntry is a balance-affecting record. Seq breaks ties between entries
// of the same patient that share a timestamp.
type LedgerEntry interface {
	EntryPatientID() string
	SetSequence(seq int64)
}

// Treatment model. Rows are append-only.
type Treatment struct {
	ID          string         `gorm:"primaryKey;column:id" json:"id"`
	PatientID   string         `gorm:"column:patient_id;not null;index:idx_treatment_patient_tooth" json:"patient_id"`
	DoctorID    string         `gorm:"column:doctor_id;not null;index" json:"doctor_id"`
	ToothNumber int            `gorm:"column:tooth_number;not null;index:idx_treatment_patient_tooth" json:"tooth_number"`
	Condition   ToothCondition `gorm:"column:condition;not null" json:"condition"`
	Price       int64          `gorm:"column:price;not null;check:price >= 0" json:"price"`
	Seq         int64          `gorm:"column:seq;not null" json:"seq"`
	CreatedAt   time.Time      `gorm:"column:created_at;not null;index" json:"created_at"`
}

func (Treatment) TableName() string {
	return "treatments"
}

func (t *Treatment) EntryPatientID() string { return t.PatientID }
func (t *Treatment) SetSequence(seq int64)  { t.Seq = seq }

// Before reports whether t was recorded before o.
func (t Treatment) Before(o Treatment) bool {
	if !t.CreatedAt.Equal(o.CreatedAt) {
		return t.CreatedAt.Before(o.CreatedAt)
	}
	return t.Seq < o.Seq
}

// Transaction model. PatientID is nil for clinic-level expenses.
type Transaction struct {
	ID          string              `gorm:"primaryKey;column:id" json:"id"`
	PatientID   *string             `gorm:"column:patient_id;index" json:"patient_id,omitempty"`
	DoctorID    string              `gorm:"column:doctor_id;not null;index" json:"doctor_id"`
	Amount      int64               `gorm:"column:amount;not null;check:amount > 0" json:"amount"`
	Type        TransactionType     `gorm:"column:type;check:type IN ('income', 'expense');not null" json:"type"`
	Category    TransactionCategory `gorm:"column:category;not null" json:"category"`
	Description string              `gorm:"column:description" json:"description"`
	Seq         int64               `gorm:"column:seq;not null" json:"seq"`
	CreatedAt   time.Time           `gorm:"column:created_at;not null;index" json:"created_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}

func (t *Transaction) EntryPatientID() string {
	if t.PatientID == nil {
		return ""
	}
	return *t.PatientID
}

func (t *Transaction) SetSequence(seq int64) { t.Seq = seq }

func (t Transaction) Before(o Transaction) bool {
	if !t.CreatedAt.Equal(o.CreatedAt) {
		return t.CreatedAt.Before(o.CreatedAt)
	}
	return t.Seq < o.Seq
}

// SortTreatments orders by creation time, then sequence. Equal keys keep
// their input order.
func SortTreatments(ts []Treatment) {
	sort.SliceStable(ts, func(i, j int) bool { return ts[i].Before(ts[j]) })
}

func SortTransactions(ts []Transaction) {
	sort.SliceStable(ts, func(i, j int) bool { return ts[i].Before(ts[j]) })
}
