package types

import "time"

// Point is a single timestamped observation.
type Point[V any] struct {
	Time  time.Time
	Value V
}

// TimeSeries is an ordered sequence of points, ascending by time.
//
// Location is the timezone every point is expressed in. A nil Location marks a naive
// series: its timestamps carry no offset and are stored as wall-clock values in UTC.
type TimeSeries[V any] struct {
	Name     string
	Location *time.Location
	Points   []Point[V]
}

// NewSeries creates an empty series with the given name and location.
func NewSeries[V any](name string, loc *time.Location) TimeSeries[V] {
	return TimeSeries[V]{
		Name:     name,
		Location: loc,
		Points:   nil,
	}
}

// Append adds a point at t. Aware series convert t into their location;
// naive series keep t's wall clock and drop its offset.
func (s *TimeSeries[V]) Append(t time.Time, value V) {
	if s.Location != nil {
		t = t.In(s.Location)
	} else {
		t = StripZone(t)
	}

	s.Points = append(s.Points, Point[V]{Time: t, Value: value})
}

// Len returns the number of points.
func (s TimeSeries[V]) Len() int {
	return len(s.Points)
}

// IsEmpty reports whether the series has no points.
func (s TimeSeries[V]) IsEmpty() bool {
	return len(s.Points) == 0
}

// IsNaive reports whether the series timestamps carry no offset.
func (s TimeSeries[V]) IsNaive() bool {
	return s.Location == nil
}

// Clone returns a copy that shares no backing array with s.
func (s TimeSeries[V]) Clone() TimeSeries[V] {
	out := s
	if s.Points != nil {
		out.Points = make([]Point[V], len(s.Points))
		copy(out.Points, s.Points)
	}

	return out
}

// WithPoints returns a series with s's metadata and the given points.
func (s TimeSeries[V]) WithPoints(points []Point[V]) TimeSeries[V] {
	return TimeSeries[V]{
		Name:     s.Name,
		Location: s.Location,
		Points:   points,
	}
}

// StripZone keeps t's wall clock and re-expresses it as a naive UTC value.
func StripZone(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
