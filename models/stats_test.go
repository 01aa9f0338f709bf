package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRunStats_BucketSumInvariant(t *testing.T) {
	cl := testClassifier()
	stats := NewRunStats()

	records := []*CustomerRecord{
		{Name: "A", RawNumbers: "9444047656", RawAmount: "500", RawMode: "gpay", RawStatus: "unpaid"},
		{Name: "B", RawNumbers: "9876543210", RawAmount: "300", RawMode: "offline", RawStatus: "paid"},
		{Name: "C", RawNumbers: "9123456789", RawAmount: "250", RawMode: "upi", RawStatus: "paid"},
		{Name: "D", RawNumbers: "9123456780", RawAmount: "150", RawMode: "cash", RawStatus: "unpaid"},
		{Name: "E", RawNumbers: "9123456781", RawAmount: "999", RawMode: "gpay", RawStatus: "Inactive"}, // excluded
		{Name: "F", RawNumbers: "", RawAmount: "777", RawMode: "gpay", RawStatus: "unpaid"},             // skipped
	}

	processed := decimal.Zero
	for _, rec := range records {
		c := cl.Classify(rec)
		stats.Apply(rec, c)
		if c.Decision != DecisionInactive && c.Decision != DecisionSkipped {
			processed = processed.Add(c.Amount)
		}
	}

	if !stats.TotalExpected().Equal(processed) {
		t.Errorf("bucket sum %s != processed sum %s", stats.TotalExpected(), processed)
	}
	if !stats.TotalExpected().Equal(decimal.NewFromInt(1200)) {
		t.Errorf("bucket sum = %s, want 1200", stats.TotalExpected())
	}
	if stats.RowsSkipped != 1 {
		t.Errorf("RowsSkipped = %d, want 1", stats.RowsSkipped)
	}
}

func TestRunStats_InactiveContributesNothing(t *testing.T) {
	cl := testClassifier()
	stats := NewRunStats()

	rec := &CustomerRecord{
		Name:       "Ravi",
		RawNumbers: "9444047656",
		RawAmount:  "450",
		RawMode:    "gpay",
		RawStatus:  "Inactive",
		Smartcard:  "SC-1",
		Smartcard2: "SC-2",
	}
	stats.Apply(rec, cl.Classify(rec))

	if stats.TotalCustomers() != 0 {
		t.Errorf("TotalCustomers = %d, want 0", stats.TotalCustomers())
	}
	if !stats.TotalExpected().IsZero() {
		t.Errorf("TotalExpected = %s, want 0", stats.TotalExpected())
	}
	if len(stats.Inactive) != 1 {
		t.Fatalf("Inactive = %+v, want one entry", stats.Inactive)
	}
	if got := stats.Inactive[0].Smartcards; len(got) != 2 {
		t.Errorf("Smartcards = %v, want both cards", got)
	}
}

func TestRunStats_PaidSmartcardsCollected(t *testing.T) {
	cl := testClassifier()
	stats := NewRunStats()

	rec := &CustomerRecord{Name: "Ravi", RawNumbers: "9444047656", RawAmount: "450", RawMode: "gpay", RawStatus: "paid", Smartcard: "SC-9"}
	stats.Apply(rec, cl.Classify(rec))

	if len(stats.PaidSmartcards) != 1 || stats.PaidSmartcards[0] != "SC-9" {
		t.Errorf("PaidSmartcards = %v", stats.PaidSmartcards)
	}
}

func TestCustomerRecord_ID(t *testing.T) {
	withPhone := &CustomerRecord{Name: "Ravi", RawNumbers: "+91 9444-047656"}
	if got := withPhone.ID(); got != "919444047656" {
		t.Errorf("ID = %q, want digits of the first number", got)
	}

	noPhone := &CustomerRecord{Name: "Ravi", Cycle: "September"}
	id1 := noPhone.ID()
	id2 := (&CustomerRecord{Name: "ravi ", Cycle: "September"}).ID()
	if id1 == "" {
		t.Fatal("fallback ID must not be empty")
	}
	if id1 != id2 {
		t.Errorf("fallback ID must be stable under case/whitespace: %q vs %q", id1, id2)
	}
}
