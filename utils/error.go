package utils

import "fmt"

// ConfigError aborts startup. Nothing recovers from it.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// DataLoadError means the customer source itself is unusable (missing file,
// missing required column). Bad values on individual rows are recovered
// per-row and never produce this.
type DataLoadError struct {
	Source string
	Reason string
	Err    error
}

func (e *DataLoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load %s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("load %s: %s", e.Source, e.Reason)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// SendError is a per-destination delivery failure. The caller queues it for
// one retry pass instead of aborting the batch.
type SendError struct {
	Destination string
	Err         error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("send to %s: %v", e.Destination, e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }
