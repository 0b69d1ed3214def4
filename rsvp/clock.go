package rsvp

import "time"

// Timer is a pending one-shot callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Clock schedules the engine's word advances. Tests substitute a fake to
// drive playback without sleeping.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
	Now() time.Time
}

// SystemClock is the default Clock backed by the time package.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (systemClock) Now() time.Time {
	return time.Now()
}
