package domain

import "time"

// AvailableSlot represents a bookable window of the hourly grid
type AvailableSlot struct {
	Start time.Time
	End   time.Time
}

// Label returns the 12-hour clock label of the slot start, e.g. "1:00 PM"
func (s AvailableSlot) Label() string {
	return s.Start.Format(SlotLabelFormat)
}

// Range returns the slot as a half-open range
func (s AvailableSlot) Range() TimeRange {
	return TimeRange{Start: s.Start, End: s.End}
}
