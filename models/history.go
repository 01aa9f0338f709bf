package models

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/payment_reminder/utils"
)

// ReminderSnapshot is what the customer looked like when the reminder went
// out. A changed snapshot re-arms the reminder within the same day.
type ReminderSnapshot struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Cycle  string          `json:"cycle"`
	Status string          `json:"status"`
}

func (s ReminderSnapshot) Equal(o ReminderSnapshot) bool {
	return s.Name == o.Name &&
		s.Amount.Equal(o.Amount) &&
		s.Cycle == o.Cycle &&
		s.Status == o.Status
}

type ReminderHistoryEntry struct {
	SentAt   time.Time        `json:"sent_at"`
	Snapshot ReminderSnapshot `json:"snapshot"`
}

// ReminderHistory is the dedup store: one entry per customer id, overwritten
// on each confirmed send. It lives in a flat JSON file so operators can
// inspect and hand-edit it.
type ReminderHistory struct {
	entries map[string]ReminderHistoryEntry
}

// LoadReminderHistory reads the history file. A missing file is a first run,
// not an error; a corrupt file is fatal rather than silently re-spamming
// every customer.
func LoadReminderHistory(path string) (*ReminderHistory, error) {
	h := &ReminderHistory{entries: map[string]ReminderHistoryEntry{}}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return h, nil
	}
	if err != nil {
		return nil, err
	}
	if err := utils.UnmarshalFromJSON(data, &h.entries); err != nil {
		return nil, fmt.Errorf("reminder history %s is corrupt: %w", path, err)
	}
	return h, nil
}

// ShouldRemind reports whether a reminder is owed today. The rule is
// calendar-day based: an entry from an earlier day always re-arms, a same-day
// entry suppresses unless the snapshot changed since it was written. The
// configured hours setting is deliberately not consulted here.
func (h *ReminderHistory) ShouldRemind(customerID string, snap ReminderSnapshot, today time.Time) bool {
	e, ok := h.entries[customerID]
	if !ok {
		return true
	}
	if utils.DateOnly(e.SentAt.In(today.Location())).Before(utils.DateOnly(today)) {
		return true
	}
	return !e.Snapshot.Equal(snap)
}

// RecordSent overwrites the customer's entry. Call only after a confirmed
// successful send.
func (h *ReminderHistory) RecordSent(customerID string, snap ReminderSnapshot, now time.Time) {
	h.entries[customerID] = ReminderHistoryEntry{SentAt: now, Snapshot: snap}
}

func (h *ReminderHistory) Len() int {
	return len(h.entries)
}

// Save writes the whole map once, at the end of a fully successful run. A
// crash mid-run therefore loses that run's updates but never corrupts the
// file.
func (h *ReminderHistory) Save(path string) error {
	return utils.WriteJSONFile(path, h.entries)
}
