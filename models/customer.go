package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"bitbucket.org/mmdatafocus/payment_reminder/utils"
)

// idNamespace keeps hash-fallback customer ids stable across runs.
var idNamespace = uuid.MustParse("7c9e1f4a-30d2-4c45-9a8e-5b1f08d6b2c1")

// CustomerRecord is one loaded row. Raw* fields keep the source text;
// normalization happens in the classifier so a bad cell never fails the load.
type CustomerRecord struct {
	Name           string
	RawNumbers     string // semicolon-delimited multi-value
	RawAmount      string
	Cycle          string
	RawMode        string
	RawStatus      string
	Smartcard      string
	Smartcard2     string
	CustomerStatus string // secondary inactivity signal
	RawSkipUntil   string // day/month/year
	Row            int    // 1-based source row, for log context
}

// Numbers splits the semicolon-delimited phone field into individual values.
func (c *CustomerRecord) Numbers() []string {
	parts := strings.Split(c.RawNumbers, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ID derives customer identity from the first phone number's digits. Records
// without digits fall back to a name+cycle hash so the history file still has
// a stable key for them.
func (c *CustomerRecord) ID() string {
	for _, n := range c.Numbers() {
		if d := utils.DigitsOnly(n); d != "" {
			return d
		}
	}
	key := strings.ToLower(strings.TrimSpace(c.Name)) + "|" + strings.TrimSpace(c.Cycle)
	return uuid.NewSHA1(idNamespace, []byte(key)).String()
}

// Smartcards returns the non-empty smartcard identifiers on the record.
func (c *CustomerRecord) Smartcards() []string {
	out := make([]string, 0, 2)
	for _, s := range []string{c.Smartcard, c.Smartcard2} {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SkipUntil parses the optional skip-until date. The second return is false
// when the column is empty or unparseable.
func (c *CustomerRecord) SkipUntil() (time.Time, bool) {
	if strings.TrimSpace(c.RawSkipUntil) == "" {
		return time.Time{}, false
	}
	t, err := utils.ParseDayMonthYear(c.RawSkipUntil)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
