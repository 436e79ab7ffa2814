package services

import (
	"context"

	"github.com/diyorbekkd/thDent/models"
	"github.com/diyorbekkd/thDent/repositories"
	"github.com/diyorbekkd/thDent/utils"

	"github.com/pkg/errors"
)

// ReportService answers the dashboard's windowed questions. It never writes.
type ReportService struct {
	store repositories.Store
	clock utils.Clock
	opts  SummaryOptions
}

func NewReportService(store repositories.Store, clock utils.Clock, opts SummaryOptions) *ReportService {
	if clock == nil {
		clock = utils.SystemClock
	}
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}
	return &ReportService{store: store, clock: clock, opts: opts}
}

func (s *ReportService) Summary(ctx context.Context, doctorID string, p Period) (*Summary, error) {
	iv, err := PeriodInterval(p, s.clock.Now(), s.opts.EndExclusive)
	if err != nil {
		return nil, err
	}
	return s.SummaryFor(ctx, doctorID, iv)
}

// SummaryFor summarizes an explicit window.
func (s *ReportService) SummaryFor(ctx context.Context, doctorID string, iv Interval) (*Summary, error) {
	if err := iv.Validate(); err != nil {
		return nil, err
	}
	snap, err := s.window(ctx, doctorID, iv, true)
	if err != nil {
		return nil, err
	}
	return Summarize(snap.Transactions, snap.Treatments, iv, s.opts)
}

// Daily returns per-day income and expense for the period.
func (s *ReportService) Daily(ctx context.Context, doctorID string, p Period) ([]DailyTotal, error) {
	now := s.clock.Now()
	iv, err := PeriodInterval(p, now, s.opts.EndExclusive)
	if err != nil {
		return nil, err
	}
	snap, err := s.window(ctx, doctorID, iv, false)
	if err != nil {
		return nil, err
	}
	return DailyTotals(snap.Transactions, iv, s.opts, now.Location())
}

func (s *ReportService) window(ctx context.Context, doctorID string, iv Interval, withTreatments bool) (*repositories.Snapshot, error) {
	r := repositories.TimeRange{From: iv.Start, To: iv.End}
	q := repositories.SnapshotQuery{
		Transactions: &repositories.TransactionFilter{DoctorID: doctorID, Range: r},
	}
	if withTreatments {
		q.Treatments = &repositories.TreatmentFilter{DoctorID: doctorID, Range: r}
	}
	snap, err := s.store.Snapshot(ctx, q)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load report window")
	}
	return snap, nil
}

// Transactions lists the money movements of the period, oldest first.
// An empty typ lists both income and expenses.
func (s *ReportService) Transactions(ctx context.Context, doctorID string, p Period, typ models.TransactionType) ([]models.Transaction, error) {
	iv, err := PeriodInterval(p, s.clock.Now(), s.opts.EndExclusive)
	if err != nil {
		return nil, err
	}
	txs, err := s.store.ListTransactions(ctx, repositories.TransactionFilter{
		DoctorID: doctorID,
		Type:     typ,
		Range:    repositories.TimeRange{From: iv.Start, To: iv.End},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list transactions")
	}
	out := txs[:0]
	for _, t := range txs {
		if iv.Contains(t.CreatedAt, s.opts.EndExclusive) {
			out = append(out, t)
		}
	}
	return out, nil
}
