package clock

import "time"

// Clock is the single source of authoritative time. Every stored state
// transition is timestamped through it; client wall-clocks are never trusted.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// System returns a Clock backed by the server's own clock, in UTC.
func System() Clock {
	return systemClock{}
}

// Fixed returns a Clock frozen at t. Used in tests so nothing sleeps on
// wall-clock time.
func Fixed(t time.Time) Clock {
	return fixedClock{t: t}
}

type fixedClock struct {
	t time.Time
}

func (f fixedClock) Now() time.Time {
	return f.t.UTC()
}
