package models

import "github.com/shopspring/decimal"

// FailedMessage captures everything needed to retry one send and to report it
// if the retry also fails.
type FailedMessage struct {
	CustomerID string
	Name       string
	Number     string
	Amount     decimal.Decimal
	Cycle      string
	Mode       PaymentMode
	Status     string
	Err        string
}

// FailureQueue buffers failed sends for the single retry pass.
type FailureQueue struct {
	items []FailedMessage
}

func (q *FailureQueue) Add(m FailedMessage) {
	q.items = append(q.items, m)
}

// Drain returns the queued messages and clears the queue, so retry failures
// can be re-added for the report without being retried again.
func (q *FailureQueue) Drain() []FailedMessage {
	items := q.items
	q.items = nil
	return items
}

func (q *FailureQueue) Items() []FailedMessage {
	return q.items
}

func (q *FailureQueue) Len() int {
	return len(q.items)
}
