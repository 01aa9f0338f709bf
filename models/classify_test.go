package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func testClassifier() *Classifier {
	return &Classifier{
		CountryCode: "IN",
		Now: func() time.Time {
			return time.Date(2026, 9, 1, 11, 0, 0, 0, time.Local)
		},
	}
}

func TestClassify_ModeSynonyms(t *testing.T) {
	cases := []struct {
		mode     string
		want     PaymentMode
		warnings int
	}{
		{"online", ModeOnline, 0},
		{"gpay", ModeOnline, 0},
		{"G-Pay", ModeOnline, 0},
		{"Google Pay", ModeOnline, 0},
		{"PHONEPE", ModeOnline, 0},
		{"Paytm", ModeOnline, 0},
		{"UPI", ModeOnline, 0},
		{"NEFT", ModeOnline, 0},
		{"net banking", ModeOnline, 0},
		{"offline", ModeOffline, 0},
		{"cash", ModeOffline, 0},
		{"cheque", ModeOffline, 1}, // unknown defaults to offline with a warning
		{"", ModeOffline, 1},
	}
	cl := testClassifier()
	for _, c := range cases {
		rec := &CustomerRecord{
			Name:       "Ravi",
			RawNumbers: "9444047656",
			RawAmount:  "450",
			Cycle:      "September",
			RawMode:    c.mode,
			RawStatus:  "unpaid",
		}
		got := cl.Classify(rec)
		if got.Mode != c.want {
			t.Errorf("mode %q: got %s, want %s", c.mode, got.Mode, c.want)
		}
		if len(got.Warnings) != c.warnings {
			t.Errorf("mode %q: got %d warnings (%v), want %d", c.mode, len(got.Warnings), got.Warnings, c.warnings)
		}
	}
}

func TestClassify_AmountNeverFails(t *testing.T) {
	cases := []struct {
		amount   string
		want     string
		warnings int
	}{
		{"450", "450", 0},
		{"450.50", "450.5", 0},
		{"", "0", 1},
		{"abc", "0", 1},
		{"-10", "0", 1},
	}
	cl := testClassifier()
	for _, c := range cases {
		rec := &CustomerRecord{
			Name:       "Ravi",
			RawNumbers: "9444047656",
			RawAmount:  c.amount,
			Cycle:      "September",
			RawMode:    "gpay",
			RawStatus:  "unpaid",
		}
		got := cl.Classify(rec)
		if got.Amount.String() != c.want {
			t.Errorf("amount %q: got %s, want %s", c.amount, got.Amount, c.want)
		}
		if len(got.Warnings) != c.warnings {
			t.Errorf("amount %q: got %d warnings, want %d", c.amount, len(got.Warnings), c.warnings)
		}
	}
}

func TestClassify_StatusPaid(t *testing.T) {
	cl := testClassifier()
	rec := &CustomerRecord{Name: "Ravi", RawNumbers: "9444047656", RawAmount: "450", RawMode: "gpay", RawStatus: " PAID "}
	if got := cl.Classify(rec); got.Decision != DecisionPaid {
		t.Errorf("got %s, want %s", got.Decision, DecisionPaid)
	}

	rec.RawStatus = "unpaid"
	if got := cl.Classify(rec); got.Decision != DecisionUnpaidOnline {
		t.Errorf("got %s, want %s", got.Decision, DecisionUnpaidOnline)
	}

	rec.RawMode = "cash"
	if got := cl.Classify(rec); got.Decision != DecisionUnpaidOffline {
		t.Errorf("got %s, want %s", got.Decision, DecisionUnpaidOffline)
	}
}

func TestClassify_InactiveMarkers(t *testing.T) {
	cl := testClassifier()
	cases := []*CustomerRecord{
		{Name: "A", RawNumbers: "9444047656", RawStatus: "Inactive"},
		{Name: "B", RawNumbers: "9444047656", RawStatus: "unpaid", CustomerStatus: "Cancelled"},
		{Name: "C", RawNumbers: "9444047656", RawStatus: "unpaid", CustomerStatus: "connection deactivated"},
		{Name: "D", RawNumbers: "9444047656", RawStatus: "Disconnected in July"},
	}
	for _, rec := range cases {
		if got := cl.Classify(rec); got.Decision != DecisionInactive {
			t.Errorf("%s: got %s, want %s", rec.Name, got.Decision, DecisionInactive)
		}
	}

	// "active" must not match the inactive markers.
	rec := &CustomerRecord{Name: "E", RawNumbers: "9444047656", RawAmount: "100", RawMode: "gpay", RawStatus: "unpaid", CustomerStatus: "active"}
	if got := cl.Classify(rec); got.Decision != DecisionUnpaidOnline {
		t.Errorf("active customer: got %s, want %s", got.Decision, DecisionUnpaidOnline)
	}
}

func TestClassify_MissingPhoneSkips(t *testing.T) {
	cl := testClassifier()
	for _, numbers := range []string{"", "   ", "n/a", "12"} {
		rec := &CustomerRecord{Name: "Ravi", RawNumbers: numbers, RawAmount: "450", RawMode: "gpay", RawStatus: "unpaid"}
		got := cl.Classify(rec)
		if got.Decision != DecisionSkipped {
			t.Errorf("numbers %q: got %s, want %s", numbers, got.Decision, DecisionSkipped)
		}
		if len(got.Warnings) == 0 {
			t.Errorf("numbers %q: expected a warning", numbers)
		}
	}
}

func TestClassify_SkipUntil(t *testing.T) {
	cl := testClassifier() // today is 1/9/2026

	cases := []struct {
		skipUntil string
		want      Decision
		warnings  int
	}{
		{"15/10/2026", DecisionSkipped, 0},      // future
		{"1/9/2026", DecisionSkipped, 0},        // today counts as still skipped
		{"15/8/2026", DecisionUnpaidOnline, 0},  // past, processed normally
		{"not-a-date", DecisionUnpaidOnline, 1}, // unparseable, warned and ignored
	}
	for _, c := range cases {
		rec := &CustomerRecord{
			Name:         "Ravi",
			RawNumbers:   "9444047656",
			RawAmount:    "450",
			RawMode:      "gpay",
			RawStatus:    "unpaid",
			RawSkipUntil: c.skipUntil,
		}
		got := cl.Classify(rec)
		if got.Decision != c.want {
			t.Errorf("skip-until %q: got %s, want %s", c.skipUntil, got.Decision, c.want)
		}
		if len(got.Warnings) != c.warnings {
			t.Errorf("skip-until %q: got %d warnings, want %d", c.skipUntil, len(got.Warnings), c.warnings)
		}
	}
}

func TestClassify_EndToEndThreeRecords(t *testing.T) {
	cl := testClassifier()
	stats := NewRunStats()

	a := &CustomerRecord{Name: "A", RawNumbers: "9444047656", RawAmount: "500", Cycle: "September", RawMode: "gpay", RawStatus: "unpaid"}
	b := &CustomerRecord{Name: "B", RawNumbers: "9876543210", RawAmount: "300", Cycle: "September", RawMode: "offline", RawStatus: "paid"}
	c := &CustomerRecord{Name: "C", RawNumbers: "9123456789", RawAmount: "200", Cycle: "September", RawMode: "gpay", RawStatus: "Inactive", Smartcard: "SC-100"}

	var decisions []Decision
	for _, rec := range []*CustomerRecord{a, b, c} {
		cls := cl.Classify(rec)
		decisions = append(decisions, cls.Decision)
		stats.Apply(rec, cls)
	}

	want := []Decision{DecisionUnpaidOnline, DecisionPaid, DecisionInactive}
	for i := range want {
		if decisions[i] != want[i] {
			t.Errorf("record %d: got %s, want %s", i, decisions[i], want[i])
		}
	}

	if stats.Online.Total != 1 || stats.Online.Paid != 0 || stats.Online.UnpaidAmount.String() != "500" {
		t.Errorf("online bucket = %+v", stats.Online)
	}
	if stats.Offline.Total != 1 || stats.Offline.Paid != 1 || stats.Offline.PaidAmount.String() != "300" {
		t.Errorf("offline bucket = %+v", stats.Offline)
	}
	if len(stats.Inactive) != 1 || stats.Inactive[0].Name != "C" {
		t.Errorf("inactive = %+v", stats.Inactive)
	}
	if len(stats.Inactive) == 1 && len(stats.Inactive[0].Smartcards) != 1 {
		t.Errorf("inactive smartcards = %v", stats.Inactive[0].Smartcards)
	}
	if !stats.TotalExpected().Equal(decimal.NewFromInt(800)) {
		t.Errorf("total expected = %s, want 800", stats.TotalExpected())
	}
}
