package services

import (
	"context"
	"testing"
	"time"

	"github.com/diyorbekkd/thDent/apperrors"
	"github.com/diyorbekkd/thDent/models"
	"github.com/diyorbekkd/thDent/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatientService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewPatientService(f.store, fixedClock(t0), nil)

	p, err := svc.Create(ctx, PatientInput{DoctorID: doctorID, FullName: "Ali Valiyev", Phone: "90 123 45 67", Type: models.PatientAdult})
	require.NoError(t, err)
	assert.Equal(t, "+998901234567", p.Phone)
	assert.Zero(t, p.Balance)
	assert.Equal(t, t0, p.CreatedAt)

	_, err = svc.Create(ctx, PatientInput{DoctorID: doctorID, FullName: "Bad Phone", Phone: "12", Type: models.PatientAdult})
	assert.True(t, apperrors.IsInvalidArgument(err))
	_, err = svc.Create(ctx, PatientInput{DoctorID: doctorID, FullName: "No Type", Phone: "+998901234567"})
	assert.True(t, apperrors.IsInvalidArgument(err))

	_, _, err = f.ledger.ChargeTreatment(ctx, ChargeInput{DoctorID: doctorID, PatientID: p.ID, ToothNumber: 11, Condition: models.ConditionCaries, Price: 1000})
	require.NoError(t, err)
	_, _, err = f.ledger.RecordPayment(ctx, PaymentInput{DoctorID: doctorID, PatientID: p.ID, Amount: 400})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, doctorID, p.ID, PatientInput{FullName: "Ali Valiev", Phone: "+998901234567", Type: models.PatientAdult, Gender: models.GenderMale})
	require.NoError(t, err)
	assert.Equal(t, "Ali Valiev", updated.FullName)
	assert.Equal(t, int64(-600), updated.Balance, "profile edits keep the ledger balance")

	got, err := svc.Get(ctx, doctorID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GenderMale, got.Gender)
	_, err = svc.Get(ctx, "doc-2", p.ID)
	assert.True(t, apperrors.IsNotFound(err))

	history, err := svc.History(ctx, doctorID, p.ID)
	require.NoError(t, err)
	assert.Len(t, history.Treatments, 1)
	require.Len(t, history.Transactions, 1)
	assert.Equal(t, int64(-600), history.Patient.Balance)

	list, err := svc.List(ctx, doctorID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, doctorID, p.ID))
	_, err = svc.Get(ctx, doctorID, p.ID)
	assert.True(t, apperrors.IsNotFound(err))
	trs, err := f.store.ListTreatments(ctx, repositories.TreatmentFilter{PatientID: p.ID})
	require.NoError(t, err)
	assert.Empty(t, trs)
}

func TestHistoryIsNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.patient(t, "Ali", models.PatientAdult)
	for _, c := range []models.ToothCondition{models.ConditionCaries, models.ConditionFilling, models.ConditionCrown} {
		_, _, err := f.ledger.ChargeTreatment(ctx, ChargeInput{DoctorID: doctorID, PatientID: p.ID, ToothNumber: 11, Condition: c})
		require.NoError(t, err)
	}

	history, err := NewPatientService(f.store, nil, nil).History(ctx, doctorID, p.ID)
	require.NoError(t, err)
	require.Len(t, history.Treatments, 3)
	assert.Equal(t, models.ConditionCrown, history.Treatments[0].Condition)
	assert.Equal(t, models.ConditionCaries, history.Treatments[2].Condition)
}

func TestAppointmentService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.patient(t, "Ali", models.PatientAdult)
	svc := NewAppointmentService(f.store, fixedClock(t0))

	afternoon, err := svc.Create(ctx, AppointmentInput{DoctorID: doctorID, PatientID: p.ID, ScheduledAt: t0.Add(5 * time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentScheduled, afternoon.Status)
	morning, err := svc.Create(ctx, AppointmentInput{DoctorID: doctorID, PatientID: p.ID, ScheduledAt: t0.Add(-time.Hour), Notes: "cleaning"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, AppointmentInput{DoctorID: doctorID, PatientID: p.ID, ScheduledAt: t0.Add(24 * time.Hour)})
	require.NoError(t, err)

	_, err = svc.Create(ctx, AppointmentInput{DoctorID: doctorID, PatientID: "nobody", ScheduledAt: t0})
	assert.True(t, apperrors.IsNotFound(err))
	_, err = svc.Create(ctx, AppointmentInput{DoctorID: doctorID, PatientID: p.ID})
	assert.True(t, apperrors.IsInvalidArgument(err))

	today, err := svc.Today(ctx, doctorID)
	require.NoError(t, err)
	require.Len(t, today, 2)
	assert.Equal(t, morning.ID, today[0].ID)
	assert.Equal(t, afternoon.ID, today[1].ID)

	all, err := svc.ListForPatient(ctx, doctorID, p.ID)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	done, err := svc.UpdateStatus(ctx, doctorID, morning.ID, "completed")
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentCompleted, done.Status)
	_, err = svc.UpdateStatus(ctx, doctorID, morning.ID, "finished")
	assert.True(t, apperrors.IsInvalidArgument(err))
	_, err = svc.UpdateStatus(ctx, "doc-2", morning.ID, "cancelled")
	assert.True(t, apperrors.IsNotFound(err))

	require.NoError(t, svc.Delete(ctx, doctorID, afternoon.ID))
	assert.True(t, apperrors.IsNotFound(svc.Delete(ctx, doctorID, afternoon.ID)))
	assert.Zero(t, f.balance(t, p.ID), "appointments are not financial")
}

func TestCatalogService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewCatalogService(f.store, fixedClock(t0))

	filling, err := svc.Create(ctx, doctorID, "  Filling ", 250000)
	require.NoError(t, err)
	assert.Equal(t, "Filling", filling.Name)

	_, err = svc.Create(ctx, doctorID, "Filling", 1)
	assert.True(t, apperrors.IsConflict(err))
	_, err = svc.Create(ctx, doctorID, "Crown", -1)
	assert.True(t, apperrors.IsInvalidArgument(err))
	_, err = svc.Create(ctx, doctorID, "", 1)
	assert.True(t, apperrors.IsInvalidArgument(err))

	list, err := svc.List(ctx, doctorID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	require.NoError(t, svc.Delete(ctx, doctorID, filling.ID))
}

func TestLocalLocker(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "a")
	require.NoError(t, err)

	other, err := l.Lock(ctx, "b")
	require.NoError(t, err, "keys are independent")
	other()

	timeout, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(timeout, "a")
	assert.True(t, apperrors.IsConflict(err))

	unlock()
	unlock() // second call is a no-op
	again, err := l.Lock(ctx, "a")
	require.NoError(t, err)
	again()
	assert.Empty(t, l.locks)
}
