package monitor

import (
	"errors"
	"fmt"
)

// ErrProcessNotFound is returned when a registered process has no heartbeat hash,
// which happens once the process stopped beating and its hash expired.
var ErrProcessNotFound = errors.New("process not found")

// AssemblyError names the store key, and the record inside it, that could not be
// turned into a domain value.
type AssemblyError struct {
	Key    string
	Record string
	Err    error
}

func (e *AssemblyError) Error() string {
	if e.Record == "" {
		return fmt.Sprintf("monitor: assemble %q: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("monitor: assemble %q record %q: %v", e.Key, e.Record, e.Err)
}

func (e *AssemblyError) Unwrap() error { return e.Err }
