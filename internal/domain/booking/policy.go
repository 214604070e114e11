package booking

import "time"

// CancellationPolicy decides whether a booking may still be cancelled.
// Kept separate from the service so the rule can grow (grace periods,
// per-space notice windows) without touching the orchestration.
type CancellationPolicy struct {
	// MinNotice is how long before the start a cancellation must arrive.
	// Zero means cancellation is allowed up to the start instant.
	MinNotice time.Duration
}

// CanCancel returns true if the booking is confirmed and its start,
// less the required notice, is still in the future
func (p CancellationPolicy) CanCancel(b *Booking, now time.Time) bool {
	if b.Status != StatusConfirmed {
		return false
	}
	return b.StartTime.Add(-p.MinNotice).After(now)
}
