package types

import "time"

// DateRange is a closed interval of time: both Start and End are inclusive.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether start <= t <= end.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}
