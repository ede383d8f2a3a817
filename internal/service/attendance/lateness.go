package attendance

import "time"

// Cutoff is the time of day after which a check-in counts as late.
type Cutoff struct {
	Hour   int
	Minute int
}

// On anchors the cutoff to the calendar day of t, in t's location.
func (c Cutoff) On(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), c.Hour, c.Minute, 0, 0, t.Location())
}

// Lateness returns how late a check-in is relative to the cutoff on that
// day. Checking in exactly at the cutoff is on time.
func Lateness(checkIn time.Time, cutoff Cutoff) (time.Duration, bool) {
	deadline := cutoff.On(checkIn)
	if !checkIn.After(deadline) {
		return 0, false
	}
	return checkIn.Sub(deadline), true
}
