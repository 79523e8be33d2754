// Package scheduling holds the reservation rules: interval arithmetic, the
// isolation buffer, request validation, conflict detection, the daily
// availability grid and status derivation. Everything here is pure and works
// on snapshots supplied by the caller.
package scheduling

import "time"

const (
	// BufferMinutes is the isolation margin kept around every existing reservation.
	BufferMinutes = 10

	// MinDurationMinutes and MaxDurationMinutes bound the length of a reservation, both inclusive.
	MinDurationMinutes = 15
	MaxDurationMinutes = 120

	// OpenHour and CloseHour delimit the bookable day (UTC). Slots start on a
	// SlotStrideMinutes grid and default to DefaultSlotDurationMinutes.
	OpenHour                   = 9
	CloseHour                  = 18
	SlotStrideMinutes          = 30
	DefaultSlotDurationMinutes = 60

	// MaxSlotDurationMinutes is the longest slot that fits between opening and closing.
	MaxSlotDurationMinutes = (CloseHour - OpenHour) * 60

	// DateLayout is the calendar date format used by filters and availability queries.
	DateLayout = "2006-01-02"
)

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Intervals that only touch at an endpoint do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ExpandByBuffer widens an interval by bufferMinutes on both sides.
func ExpandByBuffer(start, end time.Time, bufferMinutes int) (time.Time, time.Time) {
	buffer := time.Duration(bufferMinutes) * time.Minute
	return start.Add(-buffer), end.Add(buffer)
}
