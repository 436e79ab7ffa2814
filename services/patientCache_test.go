package services

import (
	"context"
	"testing"
	"time"

	"github.com/diyorbekkd/thDent/cache"
	"github.com/diyorbekkd/thDent/models"
	"github.com/diyorbekkd/thDent/notifications"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCachePrefix = "thdent:"

func newCachedFixture(t *testing.T) (*fixture, *PatientService, *cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	c, err := cache.NewCache(client, testCachePrefix)
	require.NoError(t, err)

	f := newFixture(t)
	f.ledger = NewLedgerService(f.store, NewLocalLocker(), f.clock, f.notifier, c)
	t.Cleanup(f.ledger.Wait)
	return f, NewPatientService(f.store, f.clock, c), c, mr
}

func TestCachedBalanceFollowsLedger(t *testing.T) {
	f, patients, _, mr := newCachedFixture(t)
	ctx := context.Background()
	p := f.patient(t, "Ali", models.PatientAdult)

	got, err := patients.Get(ctx, doctorID, p.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Balance)
	require.True(t, mr.Exists(testCachePrefix+patientCacheKey(p.ID)))
	assert.Equal(t, PatientCacheExpiry, mr.TTL(testCachePrefix+patientCacheKey(p.ID)))

	_, _, err = f.ledger.ChargeTreatment(ctx, ChargeInput{
		DoctorID: doctorID, PatientID: p.ID, ToothNumber: 36, Condition: models.ConditionCaries, Price: 300000,
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists(testCachePrefix+patientCacheKey(p.ID)))

	got, err = patients.Get(ctx, doctorID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(-300000), got.Balance)
}

func TestStaleCacheFillExpires(t *testing.T) {
	f, patients, c, mr := newCachedFixture(t)
	ctx := context.Background()
	p := f.patient(t, "Ali", models.PatientAdult)

	// a reader that loaded the row before a payment committed writes it
	// back after the invalidation
	stale := *p
	_, _, err := f.ledger.RecordPayment(ctx, PaymentInput{DoctorID: doctorID, PatientID: p.ID, Amount: 5000})
	require.NoError(t, err)
	require.NoError(t, c.SetJSON(ctx, patientCacheKey(p.ID), stale, PatientCacheExpiry))

	got, err := patients.Get(ctx, doctorID, p.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Balance)

	mr.FastForward(PatientCacheExpiry + time.Second)
	got, err = patients.Get(ctx, doctorID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), got.Balance)
}

func TestInvalidationSurvivesCancelledRequest(t *testing.T) {
	f, patients, _, mr := newCachedFixture(t)
	p := f.patient(t, "Ali", models.PatientAdult)

	_, err := patients.Get(context.Background(), doctorID, p.ID)
	require.NoError(t, err)
	require.True(t, mr.Exists(testCachePrefix+patientCacheKey(p.ID)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f.ledger.afterCommit(ctx, doctorID, p.ID, notifications.Message{Text: "paid"})
	f.ledger.Wait()

	assert.False(t, mr.Exists(testCachePrefix+patientCacheKey(p.ID)))
	require.Len(t, f.notifier.messages(), 1)
}
