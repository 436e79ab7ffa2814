package services

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"github.com/diyorbekkd/thDent/apperrors"
	"github.com/diyorbekkd/thDent/models"
	"github.com/diyorbekkd/thDent/repositories"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChargeThenPay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.patient(t, "Ali", models.PatientAdult)

	// charging tooth 36 for caries puts the patient in debt
	tr, balance, err := f.ledger.ChargeTreatment(ctx, ChargeInput{
		DoctorID: doctorID, PatientID: p.ID, ToothNumber: 36, Condition: models.ConditionCaries, Price: 300000,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-300000), balance)
	assert.Equal(t, int64(-300000), f.balance(t, p.ID))
	assert.Equal(t, 36, tr.ToothNumber)
	assert.Equal(t, t0, tr.CreatedAt)

	chart, err := NewChartService(f.store).PatientChart(ctx, doctorID, p.ID)
	require.NoError(t, err)
	c, err := chart.Condition(36)
	require.NoError(t, err)
	assert.Equal(t, models.ConditionCaries, c)

	// paying it off returns the balance to zero
	pay, balance, err := f.ledger.RecordPayment(ctx, PaymentInput{DoctorID: doctorID, PatientID: p.ID, Amount: 300000})
	require.NoError(t, err)
	assert.Zero(t, balance)
	assert.Zero(t, f.balance(t, p.ID))
	assert.Equal(t, models.TransactionIncome, pay.Type)
	assert.Equal(t, models.CategoryTreatment, pay.Category)
	assert.Equal(t, "Payment: Ali", pay.Description)
	require.NotNil(t, pay.PatientID)
	assert.Equal(t, p.ID, *pay.PatientID)

	f.ledger.Wait()
	msgs := f.notifier.messages()
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0].Text, "Tooth 36: caries")
	assert.Contains(t, msgs[0].Text, "Balance: -300 000")
	assert.Contains(t, msgs[1].Text, "Amount: 300 000")
}

func TestChargeRejectsNegativePrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.patient(t, "Ali", models.PatientAdult)

	_, _, err := f.ledger.ChargeTreatment(ctx, ChargeInput{
		DoctorID: doctorID, PatientID: p.ID, ToothNumber: 11, Condition: models.ConditionFilling, Price: -1,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidArgument(err))

	assert.Zero(t, f.balance(t, p.ID))
	trs, err := f.store.ListTreatments(ctx, repositories.TreatmentFilter{PatientID: p.ID})
	require.NoError(t, err)
	assert.Empty(t, trs)
	f.ledger.Wait()
	assert.Empty(t, f.notifier.messages())
}

func TestChargeValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	adult := f.patient(t, "Ali", models.PatientAdult)
	child := f.patient(t, "Kamola", models.PatientChild)

	tests := []struct {
		name    string
		in      ChargeInput
		invalid bool
		missing bool
	}{
		{"zero price diagnosis", ChargeInput{PatientID: adult.ID, ToothNumber: 11, Condition: models.ConditionCaries}, false, false},
		{"unknown condition", ChargeInput{PatientID: adult.ID, ToothNumber: 11, Condition: "broken", Price: 1}, true, false},
		{"adult tooth 19", ChargeInput{PatientID: adult.ID, ToothNumber: 19, Condition: models.ConditionCaries}, true, false},
		{"primary tooth on adult", ChargeInput{PatientID: adult.ID, ToothNumber: 55, Condition: models.ConditionCaries}, true, false},
		{"permanent tooth on child", ChargeInput{PatientID: child.ID, ToothNumber: 36, Condition: models.ConditionCaries}, true, false},
		{"primary tooth on child", ChargeInput{PatientID: child.ID, ToothNumber: 75, Condition: models.ConditionCrown, Price: 10}, false, false},
		{"unknown patient", ChargeInput{PatientID: "nobody", ToothNumber: 11, Condition: models.ConditionCaries}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.DoctorID = doctorID
			_, _, err := f.ledger.ChargeTreatment(ctx, tt.in)
			switch {
			case tt.invalid:
				assert.True(t, apperrors.IsInvalidArgument(err), "got %v", err)
			case tt.missing:
				assert.True(t, apperrors.IsNotFound(err), "got %v", err)
			default:
				assert.NoError(t, err)
			}
		})
	}
	assert.Equal(t, int64(0), f.balance(t, adult.ID))
	assert.Equal(t, int64(-10), f.balance(t, child.ID))
}

func TestLedgerHidesOtherDoctorsPatients(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.patient(t, "Ali", models.PatientAdult)

	_, _, err := f.ledger.RecordPayment(ctx, PaymentInput{DoctorID: "doc-2", PatientID: p.ID, Amount: 1000})
	assert.True(t, apperrors.IsNotFound(err))
	_, _, err = f.ledger.ChargeTreatment(ctx, ChargeInput{DoctorID: "doc-2", PatientID: p.ID, ToothNumber: 11, Condition: models.ConditionCaries})
	assert.True(t, apperrors.IsNotFound(err))
	assert.Zero(t, f.balance(t, p.ID))
}

func TestRecordPaymentValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.patient(t, "Ali", models.PatientAdult)

	for _, amount := range []int64{0, -5} {
		_, _, err := f.ledger.RecordPayment(ctx, PaymentInput{DoctorID: doctorID, PatientID: p.ID, Amount: amount})
		assert.True(t, apperrors.IsInvalidArgument(err), "amount %d", amount)
	}
	_, _, err := f.ledger.RecordPayment(ctx, PaymentInput{DoctorID: doctorID, PatientID: "nobody", Amount: 5})
	assert.True(t, apperrors.IsNotFound(err))

	tx, balance, err := f.ledger.RecordPayment(ctx, PaymentInput{DoctorID: doctorID, PatientID: p.ID, Amount: 50000, Description: "advance"})
	require.NoError(t, err)
	assert.Equal(t, "advance", tx.Description)
	assert.Equal(t, int64(50000), balance, "overpayment is held as credit")
}

func TestRecordExpenseNeverTouchesBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.patient(t, "Ali", models.PatientAdult)

	clinic, err := f.ledger.RecordExpense(ctx, ExpenseInput{DoctorID: doctorID, Amount: 120000, Category: models.CategoryMaterial, Description: "composite"})
	require.NoError(t, err)
	assert.Nil(t, clinic.PatientID)
	assert.Equal(t, models.TransactionExpense, clinic.Type)

	linked, err := f.ledger.RecordExpense(ctx, ExpenseInput{DoctorID: doctorID, Amount: 30000, Category: models.CategoryOther, PatientID: p.ID})
	require.NoError(t, err)
	require.NotNil(t, linked.PatientID)
	assert.Zero(t, f.balance(t, p.ID))

	_, err = f.ledger.RecordExpense(ctx, ExpenseInput{DoctorID: doctorID, Amount: 1, Category: "payment"})
	assert.True(t, apperrors.IsInvalidArgument(err))
	_, err = f.ledger.RecordExpense(ctx, ExpenseInput{DoctorID: doctorID, Amount: 0, Category: models.CategoryLunch})
	assert.True(t, apperrors.IsInvalidArgument(err))
	_, err = f.ledger.RecordExpense(ctx, ExpenseInput{DoctorID: doctorID, Amount: 1, Category: models.CategoryLunch, PatientID: "nobody"})
	assert.True(t, apperrors.IsNotFound(err))

	rec, err := f.ledger.Reconcile(ctx, doctorID, p.ID)
	require.NoError(t, err)
	assert.Zero(t, rec.Drift)
}

func TestBalanceMatchesLedger(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.patient(t, "Ali", models.PatientAdult)
	rng := rand.New(rand.NewSource(7))
	teeth := []int{11, 16, 21, 36, 48}
	conditions := models.ToothConditions()

	var want int64
	for i := 0; i < 200; i++ {
		if rng.Intn(2) == 0 {
			price := int64(rng.Intn(500)) * 1000
			_, _, err := f.ledger.ChargeTreatment(ctx, ChargeInput{
				DoctorID: doctorID, PatientID: p.ID,
				ToothNumber: teeth[rng.Intn(len(teeth))],
				Condition:   conditions[rng.Intn(len(conditions))],
				Price:       price,
			})
			require.NoError(t, err)
			want -= price
		} else {
			amount := int64(rng.Intn(500)+1) * 1000
			_, _, err := f.ledger.RecordPayment(ctx, PaymentInput{DoctorID: doctorID, PatientID: p.ID, Amount: amount})
			require.NoError(t, err)
			want += amount
		}
	}

	assert.Equal(t, want, f.balance(t, p.ID))
	rec, err := f.ledger.Reconcile(ctx, doctorID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, want, rec.Expected)
}

func TestConcurrentLedgerWrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.patient(t, "Ali", models.PatientAdult)

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _, err := f.ledger.ChargeTreatment(ctx, ChargeInput{
				DoctorID: doctorID, PatientID: p.ID, ToothNumber: 16, Condition: models.ConditionFilling, Price: 7000,
			})
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, _, err := f.ledger.RecordPayment(ctx, PaymentInput{DoctorID: doctorID, PatientID: p.ID, Amount: 3000})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(workers*(3000-7000)), f.balance(t, p.ID))
	trs, err := f.store.ListTreatments(ctx, repositories.TreatmentFilter{PatientID: p.ID})
	require.NoError(t, err)
	require.Len(t, trs, workers)
	seen := make(map[int64]bool)
	for _, tr := range trs {
		assert.False(t, seen[tr.Seq], "sequence %d assigned twice", tr.Seq)
		seen[tr.Seq] = true
	}
}

func TestReconcileReportsDrift(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.patient(t, "Ali", models.PatientAdult)
	_, _, err := f.ledger.ChargeTreatment(ctx, ChargeInput{DoctorID: doctorID, PatientID: p.ID, ToothNumber: 11, Condition: models.ConditionCrown, Price: 1000})
	require.NoError(t, err)

	// a payment row that bypassed the balance update
	id := p.ID
	require.NoError(t, f.store.CreateTransaction(ctx, &models.Transaction{
		ID: "stray", PatientID: &id, DoctorID: doctorID, Amount: 400,
		Type: models.TransactionIncome, Category: models.CategoryTreatment, CreatedAt: t0,
	}))

	rec, err := f.ledger.Reconcile(ctx, doctorID, p.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
	assert.Equal(t, int64(-1000), rec.Stored)
	assert.Equal(t, int64(-600), rec.Expected)
	assert.Equal(t, int64(-400), rec.Drift)
}

func TestNotifierFailureKeepsLedgerWrite(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("telegram down")
	ctx := context.Background()
	p := f.patient(t, "Ali", models.PatientAdult)

	_, balance, err := f.ledger.RecordPayment(ctx, PaymentInput{DoctorID: doctorID, PatientID: p.ID, Amount: 1000})
	require.NoError(t, err)
	assert.Equal(t, int64(1000), balance)
	f.ledger.Wait()
	assert.Len(t, f.notifier.messages(), 1)
}

type failingLocker struct{}

func (failingLocker) Lock(context.Context, string) (func(), error) {
	return nil, errors.Wrap(apperrors.ErrConflict, "lock is busy")
}

func TestLockFailureIsRetryableConflict(t *testing.T) {
	store := repositories.NewMemoryStore()
	ledger := NewLedgerService(store, failingLocker{}, fixedClock(t0), nil, nil)
	require.NoError(t, store.CreatePatient(context.Background(), &models.Patient{ID: "p", DoctorID: doctorID, FullName: "Ali", Type: models.PatientAdult}))

	_, _, err := ledger.RecordPayment(context.Background(), PaymentInput{DoctorID: doctorID, PatientID: "p", Amount: 1})
	assert.True(t, apperrors.IsConflict(err))
	assert.True(t, apperrors.IsRetryable(err))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0", formatAmount(0))
	assert.Equal(t, "999", formatAmount(999))
	assert.Equal(t, "1 000", formatAmount(1000))
	assert.Equal(t, "-1 250 000", formatAmount(-1250000))
}
