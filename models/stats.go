package models

import "github.com/shopspring/decimal"

// StatsBucket accumulates one payment mode's totals. Values are only ever
// incremented during a run.
type StatsBucket struct {
	Total        int
	Paid         int
	PaidAmount   decimal.Decimal
	UnpaidAmount decimal.Decimal
}

func (b StatsBucket) Unpaid() int {
	return b.Total - b.Paid
}

// InactiveCustomer is collected for the deactivation section of the report.
type InactiveCustomer struct {
	Name       string
	Number     string
	Smartcards []string
}

// RunStats is the run-scoped aggregator. A fresh one is built per run so no
// counter survives between runs.
type RunStats struct {
	Online  StatsBucket
	Offline StatsBucket

	RemindersSent    int // customers with at least one confirmed send
	RemindersSkipped int // suppressed by same-day dedup
	RowsSkipped      int // no phone / skip-until rows

	Inactive       []InactiveCustomer
	PaidSmartcards []string // deactivation-exempt
}

func NewRunStats() *RunStats {
	return &RunStats{}
}

func (s *RunStats) Bucket(mode PaymentMode) *StatsBucket {
	if mode == ModeOnline {
		return &s.Online
	}
	return &s.Offline
}

// Apply folds one classification into the run totals. Each record lands in
// exactly one bucket, or in the inactive list, or in the skip counter.
func (s *RunStats) Apply(rec *CustomerRecord, c Classification) {
	switch c.Decision {
	case DecisionSkipped:
		s.RowsSkipped++
	case DecisionInactive:
		number := ""
		if nums := rec.Numbers(); len(nums) > 0 {
			number = nums[0]
		}
		s.Inactive = append(s.Inactive, InactiveCustomer{
			Name:       rec.Name,
			Number:     number,
			Smartcards: rec.Smartcards(),
		})
	default:
		b := s.Bucket(c.Mode)
		b.Total++
		if c.Decision == DecisionPaid {
			b.Paid++
			b.PaidAmount = b.PaidAmount.Add(c.Amount)
			s.PaidSmartcards = append(s.PaidSmartcards, rec.Smartcards()...)
		} else {
			b.UnpaidAmount = b.UnpaidAmount.Add(c.Amount)
		}
	}
}

func (s *RunStats) TotalCustomers() int {
	return s.Online.Total + s.Offline.Total
}

func (s *RunStats) TotalCollected() decimal.Decimal {
	return s.Online.PaidAmount.Add(s.Offline.PaidAmount)
}

func (s *RunStats) TotalPending() decimal.Decimal {
	return s.Online.UnpaidAmount.Add(s.Offline.UnpaidAmount)
}

func (s *RunStats) TotalExpected() decimal.Decimal {
	return s.TotalCollected().Add(s.TotalPending())
}
