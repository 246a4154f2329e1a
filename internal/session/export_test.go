package session

import "time"

// Test hooks for deterministic time and ids.

func (o *Orchestrator) SetClock(now func() time.Time) {
	o.now = now
}

func (o *Orchestrator) SetIDGenerator(newID func() string) {
	o.newID = newID
}
