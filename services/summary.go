package services

import (
	"sort"
	"time"

	"github.com/diyorbekkd/thDent/apperrors"
	"github.com/diyorbekkd/thDent/models"
)

// DefaultTopN is the length of the top services ranking when unset.
const DefaultTopN = 5

// Interval is a reporting window. Start is always inclusive; whether End is
// inclusive is decided by SummaryOptions.EndExclusive.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (iv Interval) Validate() error {
	if iv.Start.IsZero() || iv.End.IsZero() {
		return apperrors.Invalid("interval", "start and end are required")
	}
	if iv.End.Before(iv.Start) {
		return apperrors.Invalid("interval", "end is before start")
	}
	return nil
}

func (iv Interval) Contains(t time.Time, endExclusive bool) bool {
	if t.Before(iv.Start) {
		return false
	}
	if endExclusive {
		return t.Before(iv.End)
	}
	return !t.After(iv.End)
}

type SummaryOptions struct {
	TopN         int
	EndExclusive bool
}

// ServiceStat aggregates the treatments of one condition.
type ServiceStat struct {
	Condition models.ToothCondition `json:"condition"`
	Count     int                   `json:"count"`
	Revenue   int64                 `json:"revenue"`
}

type Summary struct {
	Interval       Interval      `json:"interval"`
	TotalIncome    int64         `json:"total_income"`
	TotalExpense   int64         `json:"total_expense"`
	Net            int64         `json:"net"`
	UniquePatients int           `json:"unique_patients"`
	AverageIncome  int64         `json:"average_income"`
	TopServices    []ServiceStat `json:"top_services"`
}

// Summarize aggregates the rows that fall inside iv. Patients are counted
// across both collections; conditions are ranked by revenue, ties keeping
// the order in which a condition first appeared.
func Summarize(txs []models.Transaction, trs []models.Treatment, iv Interval, opts SummaryOptions) (*Summary, error) {
	if err := iv.Validate(); err != nil {
		return nil, err
	}
	topN := opts.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}

	sum := &Summary{Interval: iv, TopServices: []ServiceStat{}}
	patients := make(map[string]struct{})

	for _, t := range txs {
		if !iv.Contains(t.CreatedAt, opts.EndExclusive) {
			continue
		}
		switch t.Type {
		case models.TransactionIncome:
			sum.TotalIncome += t.Amount
		case models.TransactionExpense:
			sum.TotalExpense += t.Amount
		}
		if t.PatientID != nil && *t.PatientID != "" {
			patients[*t.PatientID] = struct{}{}
		}
	}

	byCondition := make(map[models.ToothCondition]int)
	for _, t := range trs {
		if !iv.Contains(t.CreatedAt, opts.EndExclusive) {
			continue
		}
		patients[t.PatientID] = struct{}{}

		i, ok := byCondition[t.Condition]
		if !ok {
			i = len(sum.TopServices)
			byCondition[t.Condition] = i
			sum.TopServices = append(sum.TopServices, ServiceStat{Condition: t.Condition})
		}
		sum.TopServices[i].Count++
		sum.TopServices[i].Revenue += t.Price
	}

	sort.SliceStable(sum.TopServices, func(i, j int) bool {
		return sum.TopServices[i].Revenue > sum.TopServices[j].Revenue
	})
	if len(sum.TopServices) > topN {
		sum.TopServices = sum.TopServices[:topN]
	}

	sum.Net = sum.TotalIncome - sum.TotalExpense
	sum.UniquePatients = len(patients)
	if sum.UniquePatients > 0 {
		sum.AverageIncome = sum.TotalIncome / int64(sum.UniquePatients)
	}
	return sum, nil
}

// DailyTotal is the money moved on one calendar day.
type DailyTotal struct {
	Date    string `json:"date"`
	Income  int64  `json:"income"`
	Expense int64  `json:"expense"`
}

// DailyTotals buckets transactions per calendar day in loc. Every day of the
// window gets a bucket, including empty ones.
func DailyTotals(txs []models.Transaction, iv Interval, opts SummaryOptions, loc *time.Location) ([]DailyTotal, error) {
	if err := iv.Validate(); err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.UTC
	}

	var days []DailyTotal
	index := make(map[string]int)
	first := startOfDay(iv.Start.In(loc))
	end := iv.End.In(loc)
	for d := first; d.Before(end) || (!opts.EndExclusive && d.Equal(end)); d = d.AddDate(0, 0, 1) {
		key := d.Format(time.DateOnly)
		index[key] = len(days)
		days = append(days, DailyTotal{Date: key})
	}

	for _, t := range txs {
		if !iv.Contains(t.CreatedAt, opts.EndExclusive) {
			continue
		}
		i, ok := index[t.CreatedAt.In(loc).Format(time.DateOnly)]
		if !ok {
			continue
		}
		switch t.Type {
		case models.TransactionIncome:
			days[i].Income += t.Amount
		case models.TransactionExpense:
			days[i].Expense += t.Amount
		}
	}
	return days, nil
}
