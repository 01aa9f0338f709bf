// Package notify holds the outbound messaging capability. The reminder core
// only depends on the Notifier interface; how a message physically reaches
// WhatsApp lives behind it.
package notify

import "context"

// Notifier delivers one message to one destination per call. Failures are
// per-destination: an implementation must return an error for the failed
// destination and stay usable for the next call.
type Notifier interface {
	Send(ctx context.Context, destination, message string) error
}
