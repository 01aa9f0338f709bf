package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/payment_reminder/utils"
)

type Decision string

const (
	DecisionPaid          Decision = "Paid"
	DecisionUnpaidOnline  Decision = "UnpaidOnline"
	DecisionUnpaidOffline Decision = "UnpaidOffline"
	DecisionInactive      Decision = "Inactive"
	DecisionSkipped       Decision = "Skipped"
)

type PaymentMode string

const (
	ModeOnline  PaymentMode = "online"
	ModeOffline PaymentMode = "offline"
)

// onlineModeSynonyms maps the payment-channel spellings operators actually
// type into the sheet onto the online mode.
var onlineModeSynonyms = map[string]bool{
	"online":        true,
	"gpay":          true,
	"g-pay":         true,
	"g pay":         true,
	"google pay":    true,
	"googlepay":     true,
	"phonepe":       true,
	"phone pe":      true,
	"paytm":         true,
	"upi":           true,
	"bank":          true,
	"bank transfer": true,
	"neft":          true,
	"imps":          true,
	"netbanking":    true,
	"net banking":   true,
}

var offlineModeSynonyms = map[string]bool{
	"offline":    true,
	"cash":       true,
	"collection": true,
}

var inactiveMarkers = []string{
	"inactive",
	"deactivat", // deactivate / deactivated
	"cancel",    // cancelled / canceled
	"closed",
	"disconnect",
}

// Classification is the tagged outcome of classifying one record. A single
// consumer (RunStats.Apply) acts on the decision, so the online and offline
// paths cannot drift apart.
type Classification struct {
	Decision Decision
	Mode     PaymentMode
	Amount   decimal.Decimal
	Warnings []string
}

type Classifier struct {
	CountryCode string
	Now         func() time.Time // nil means time.Now
}

func (cl *Classifier) now() time.Time {
	if cl.Now != nil {
		return cl.Now()
	}
	return time.Now()
}

// NormalizeMode folds a raw mode cell to online/offline. The second return is
// false when the spelling is unrecognized; callers default those to offline.
func NormalizeMode(raw string) (PaymentMode, bool) {
	m := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case onlineModeSynonyms[m]:
		return ModeOnline, true
	case offlineModeSynonyms[m]:
		return ModeOffline, true
	default:
		return ModeOffline, false
	}
}

func hasInactiveMarker(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return false
	}
	for _, marker := range inactiveMarkers {
		if strings.Contains(v, marker) {
			return true
		}
	}
	return false
}

// Classify resolves one record to a tagged decision plus normalized mode and
// amount. It never returns an error: a bad amount or date degrades to a
// warning and a safe default so one row cannot abort the batch.
func (cl *Classifier) Classify(rec *CustomerRecord) Classification {
	out := Classification{Mode: ModeOffline}

	numbers := rec.Numbers()
	if len(numbers) == 0 {
		out.Decision = DecisionSkipped
		out.Warnings = append(out.Warnings, "no phone number, skipping row")
		return out
	}
	usable := false
	for _, n := range numbers {
		if strings.HasPrefix(strings.TrimSpace(n), "+") || utils.ValidatePhoneNumber(n, cl.CountryCode) == nil {
			usable = true
			break
		}
	}
	if !usable {
		out.Decision = DecisionSkipped
		out.Warnings = append(out.Warnings, fmt.Sprintf("no usable phone number in %q, skipping row", rec.RawNumbers))
		return out
	}

	if hasInactiveMarker(rec.RawStatus) || hasInactiveMarker(rec.CustomerStatus) {
		out.Decision = DecisionInactive
		return out
	}

	if strings.TrimSpace(rec.RawSkipUntil) != "" {
		until, ok := rec.SkipUntil()
		if !ok {
			out.Warnings = append(out.Warnings, fmt.Sprintf("unparseable skip-until date %q, ignoring it", rec.RawSkipUntil))
		} else {
			today := utils.DateOnly(cl.now())
			// The parsed date carries no timezone; anchor it to today's.
			limit := time.Date(until.Year(), until.Month(), until.Day(), 0, 0, 0, 0, today.Location())
			if !today.After(limit) {
				out.Decision = DecisionSkipped
				return out
			}
		}
	}

	mode, known := NormalizeMode(rec.RawMode)
	if !known {
		out.Warnings = append(out.Warnings, fmt.Sprintf("unknown payment mode %q, defaulting to offline", rec.RawMode))
	}
	out.Mode = mode

	amount, err := utils.ParseDecimal(rec.RawAmount)
	if err != nil || amount.IsNegative() {
		out.Warnings = append(out.Warnings, fmt.Sprintf("unparseable amount %q, using 0", rec.RawAmount))
		amount = decimal.Zero
	}
	out.Amount = amount

	status := strings.ToLower(strings.TrimSpace(rec.RawStatus))
	switch {
	case status == "paid":
		out.Decision = DecisionPaid
	case mode == ModeOnline:
		out.Decision = DecisionUnpaidOnline
	default:
		out.Decision = DecisionUnpaidOffline
	}
	return out
}
