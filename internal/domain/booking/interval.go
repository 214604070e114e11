package booking

import "time"

// Interval is a half-open time window [Start, End).
// The end instant is excluded, so back-to-back bookings do not collide.
type Interval struct {
	Start time.Time `json:"start_time"`
	End   time.Time `json:"end_time"`
}

// NewInterval builds an interval without validating it
func NewInterval(start, end time.Time) Interval {
	return Interval{Start: start, End: end}
}

// Validate returns ErrInvalidInterval unless Start < End
func (iv Interval) Validate() error {
	if !iv.End.After(iv.Start) {
		return ErrInvalidInterval
	}
	return nil
}

// Overlaps reports whether two half-open intervals intersect.
// Touching endpoints do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Duration returns the length of the interval
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Contains reports whether t falls inside the interval (start inclusive, end exclusive)
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}
