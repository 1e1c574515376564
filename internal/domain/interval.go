package domain

import "time"

// TimeRange is a half-open interval [Start, End)
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether the ranges share any instant.
// Touching endpoints are not an overlap
func (r TimeRange) Overlaps(o TimeRange) bool {
	return r.Start.Before(o.End) && r.End.After(o.Start)
}

// Conflicts проверка точечной валидации: начало внутри существующего интервала,
// конец внутри, предложение содержит существующий или содержится в нем
func (r TimeRange) Conflicts(existing TimeRange) bool {
	startInside := !r.Start.Before(existing.Start) && r.Start.Before(existing.End)
	endInside := r.End.After(existing.Start) && !r.End.After(existing.End)
	containsExisting := !r.Start.After(existing.Start) && !r.End.Before(existing.End)
	containedByExisting := !existing.Start.After(r.Start) && !existing.End.Before(r.End)

	return startInside || endInside || containsExisting || containedByExisting
}

// Projection effective range of an interval on one date
type Projection struct {
	Range TimeRange
	// Projected дневное окно многодневного интервала перенесено на дату
	Projected bool
	// FullDay интервал с start >= end, блокирует весь день
	FullDay bool
}

// ProjectOnto resolves the range that interval [start, end) occupies on day.
//
// Same-date intervals are returned unchanged. An interval spanning several
// dates is a recurring daily window from start's clock time to end's clock
// time, re-anchored onto day; a window that wraps past midnight ends on the
// next day. A window of 24h or more (the clock times are equal) is kept as
// the literal range. start >= end blocks the whole day
func ProjectOnto(start, end, day time.Time) Projection {
	if !start.Before(end) {
		return fullDay(day)
	}

	if IsSameDate(start, end) {
		return Projection{Range: TimeRange{Start: start, End: end}}
	}

	windowStart := At(day, start)
	windowEnd := At(day, end)
	if !windowEnd.After(windowStart) {
		windowEnd = windowEnd.AddDate(0, 0, 1)
	}

	if windowEnd.Sub(windowStart) >= 24*time.Hour {
		return Projection{Range: TimeRange{Start: start, End: end}}
	}

	return Projection{Range: TimeRange{Start: windowStart, End: windowEnd}, Projected: true}
}

// LiteralOn range of the interval without projection; start >= end blocks the whole day
func LiteralOn(start, end, day time.Time) Projection {
	if !start.Before(end) {
		return fullDay(day)
	}
	return Projection{Range: TimeRange{Start: start, End: end}}
}

func fullDay(day time.Time) Projection {
	dayStart := DayStart(day)
	return Projection{
		Range:   TimeRange{Start: dayStart, End: dayStart.AddDate(0, 0, 1)},
		FullDay: true,
	}
}

// DayStart returns midnight of t's date in t's location
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayRange returns [day 00:00, next day 00:00)
func DayRange(day time.Time) TimeRange {
	start := DayStart(day)
	return TimeRange{Start: start, End: start.AddDate(0, 0, 1)}
}

// At returns day's date combined with clock's time of day, in day's location
func At(day, clock time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, clock.Hour(), clock.Minute(), clock.Second(), clock.Nanosecond(), day.Location())
}

// IsSameDate reports whether a and b fall on the same calendar date
func IsSameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DatesBetween returns every calendar date from start's to end's, inclusive
func DatesBetween(start, end time.Time) []time.Time {
	dates := make([]time.Time, 0, 1)
	last := DayStart(end)
	for d := DayStart(start); !d.After(last); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}
