package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/diyorbekkd/thDent/models"
	"github.com/diyorbekkd/thDent/notifications"
	"github.com/diyorbekkd/thDent/repositories"
	"github.com/diyorbekkd/thDent/utils"

	"github.com/stretchr/testify/require"
)

const doctorID = "doc-1"

var t0 = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC) // a Wednesday

// stepClock advances by one second on every read.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock(start time.Time) *stepClock {
	return &stepClock{now: start}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now
	c.now = c.now.Add(time.Second)
	return now
}

func fixedClock(t time.Time) utils.Clock {
	return utils.ClockFunc(func() time.Time { return t })
}

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []notifications.Message
	err  error
}

func (r *recordingNotifier) Notify(_ context.Context, msg notifications.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	return r.err
}

func (r *recordingNotifier) messages() []notifications.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notifications.Message(nil), r.msgs...)
}

type fixture struct {
	store    *repositories.MemoryStore
	ledger   *LedgerService
	notifier *recordingNotifier
	clock    *stepClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repositories.NewMemoryStore()
	clock := newStepClock(t0)
	notifier := &recordingNotifier{}
	ledger := NewLedgerService(store, NewLocalLocker(), clock, notifier, nil)
	t.Cleanup(ledger.Wait)
	return &fixture{store: store, ledger: ledger, notifier: notifier, clock: clock}
}

func (f *fixture) patient(t *testing.T, name string, typ models.PatientType) *models.Patient {
	t.Helper()
	p := &models.Patient{
		ID:        "p-" + name,
		DoctorID:  doctorID,
		FullName:  name,
		Phone:     "+998901234567",
		Type:      typ,
		CreatedAt: t0,
	}
	require.NoError(t, f.store.CreatePatient(context.Background(), p))
	return p
}

func (f *fixture) balance(t *testing.T, id string) int64 {
	t.Helper()
	p, err := f.store.GetPatient(context.Background(), id)
	require.NoError(t, err)
	return p.Balance
}
