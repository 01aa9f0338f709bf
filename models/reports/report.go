// Package reports renders the daily collection report and its exports.
package reports

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/payment_reminder/models"
)

// Input is everything the report needs; it is assembled after the retry pass
// so the failure section reflects what is genuinely still undelivered.
type Input struct {
	Date   time.Time
	Stats  *models.RunStats
	Failed []models.FailedMessage
}

// BuildDailyReport renders the deterministic text report delivered to admins
// and written to the dated report file.
func BuildDailyReport(in Input) string {
	s := in.Stats
	online := s.Online
	offline := s.Offline

	var b strings.Builder
	fmt.Fprintf(&b, "DAILY COLLECTION REPORT %s\n", in.Date.Format("2006-01-02"))
	b.WriteString("----------------------------------------\n")
	fmt.Fprintf(&b, "TOTAL CUSTOMERS: %d\n", s.TotalCustomers())
	fmt.Fprintf(&b, "ONLINE CUSTOMERS: %d\n", online.Total)
	fmt.Fprintf(&b, "OFFLINE CUSTOMERS: %d\n\n", offline.Total)

	fmt.Fprintf(&b, "PAYMENT REQUESTS SENT: %d\n", s.RemindersSent)
	fmt.Fprintf(&b, "REQUESTS SKIPPED (ALREADY SENT TODAY): %d\n", s.RemindersSkipped)
	fmt.Fprintf(&b, "IGNORED (PAID/OFFLINE): %d\n\n", online.Paid+offline.Total)

	b.WriteString("ONLINE COLLECTIONS:\n")
	fmt.Fprintf(&b, "Collected: Rs %s (%d customers)\n", online.PaidAmount.String(), online.Paid)
	fmt.Fprintf(&b, "Pending: Rs %s (%d customers)\n\n", online.UnpaidAmount.String(), online.Unpaid())

	b.WriteString("OFFLINE COLLECTIONS:\n")
	fmt.Fprintf(&b, "Collected: Rs %s (%d customers)\n", offline.PaidAmount.String(), offline.Paid)
	fmt.Fprintf(&b, "Pending: Rs %s (%d customers)\n\n", offline.UnpaidAmount.String(), offline.Unpaid())

	fmt.Fprintf(&b, "TOTAL EXPECTED: Rs %s\n", s.TotalExpected().String())
	fmt.Fprintf(&b, "TOTAL COLLECTED: Rs %s\n", s.TotalCollected().String())
	fmt.Fprintf(&b, "TOTAL PENDING: Rs %s\n", s.TotalPending().String())
	fmt.Fprintf(&b, "COLLECTION RATE: %s\n", collectionRate(s))

	b.WriteString("\nSMARTCARDS PAID (KEEP ACTIVE):\n")
	writeList(&b, s.PaidSmartcards)

	b.WriteString("\nINACTIVE CUSTOMERS (DEACTIVATE SMARTCARDS):\n")
	if len(s.Inactive) == 0 {
		b.WriteString("none\n")
	}
	for _, c := range s.Inactive {
		cards := "no smartcards on record"
		if len(c.Smartcards) > 0 {
			cards = strings.Join(c.Smartcards, ", ")
		}
		fmt.Fprintf(&b, "%s (%s): %s\n", c.Name, c.Number, cards)
	}

	if len(in.Failed) > 0 {
		b.WriteString("\nFAILED MESSAGES:\n")
		for _, m := range in.Failed {
			fmt.Fprintf(&b, "%s (%s): %s\n", m.Name, m.Number, m.Err)
		}
	}

	return b.String()
}

// collectionRate guards the zero-expected case; a sheet of all-zero amounts
// must not divide by zero.
func collectionRate(s *models.RunStats) string {
	expected := s.TotalExpected()
	if expected.IsZero() {
		return "n/a"
	}
	rate := s.TotalCollected().Div(expected).Mul(hundred)
	return rate.Round(1).String() + "%"
}

var hundred = decimal.NewFromInt(100)

func writeList(b *strings.Builder, items []string) {
	if len(items) == 0 {
		b.WriteString("none\n")
		return
	}
	for _, it := range items {
		b.WriteString(it)
		b.WriteString("\n")
	}
}

// ReportFileName is the dated report file, one per day.
func ReportFileName(date time.Time) string {
	return fmt.Sprintf("report_%s.txt", date.Format("20060102"))
}

func WriteReportFile(dir string, date time.Time, content string) (string, error) {
	path := filepath.Join(dir, ReportFileName(date))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", err
	}
	return path, nil
}
