package scheduling

import (
	"time"

	"github.com/Domenick1991/resourcebooking/internal/domain"
)

type Availability struct {
	Resource         string            `json:"resource"`
	Date             string            `json:"date"`
	DurationMinutes  int               `json:"duration"`
	AvailableSlots   []domain.TimeSlot `json:"availableSlots"`
	TotalSlots       int               `json:"totalSlots"`
	ExistingBookings int               `json:"existingBookings"`
}

// ComputeAvailableSlots walks the day's grid (09:00 to 18:00, 30-minute
// stride) and keeps the slots of durationMinutes that clear every buffered
// reservation of resource on that date and end no later than 18:00.
// Only the calendar date of date is used; the day is taken in UTC. A duration
// that is not positive or longer than the opening hours yields no slots.
func ComputeAvailableSlots(resource string, date time.Time, durationMinutes int, existing []domain.Reservation) Availability {
	y, m, d := date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	dayKey := day.Format(DateLayout)

	var booked []domain.Reservation
	for _, r := range existing {
		if r.Resource == resource && r.StartTime.UTC().Format(DateLayout) == dayKey {
			booked = append(booked, r)
		}
	}

	slots := make([]domain.TimeSlot, 0)
	if durationMinutes <= 0 || durationMinutes > MaxSlotDurationMinutes {
		return Availability{
			Resource:         resource,
			Date:             dayKey,
			DurationMinutes:  durationMinutes,
			AvailableSlots:   slots,
			ExistingBookings: len(booked),
		}
	}

	opening := day.Add(OpenHour * time.Hour)
	closing := day.Add(CloseHour * time.Hour)
	duration := time.Duration(durationMinutes) * time.Minute

	for slotStart := opening; slotStart.Before(closing); slotStart = slotStart.Add(SlotStrideMinutes * time.Minute) {
		slotEnd := slotStart.Add(duration)
		if slotEnd.After(closing) {
			continue
		}
		if slotBlocked(slotStart, slotEnd, booked) {
			continue
		}
		slots = append(slots, domain.TimeSlot{StartTime: slotStart, EndTime: slotEnd, DurationMinutes: durationMinutes})
	}

	return Availability{
		Resource:         resource,
		Date:             dayKey,
		DurationMinutes:  durationMinutes,
		AvailableSlots:   slots,
		TotalSlots:       len(slots),
		ExistingBookings: len(booked),
	}
}

func slotBlocked(start, end time.Time, booked []domain.Reservation) bool {
	for _, r := range booked {
		bufferedStart, bufferedEnd := ExpandByBuffer(r.StartTime, r.EndTime, BufferMinutes)
		if Overlaps(start, end, bufferedStart, bufferedEnd) {
			return true
		}
	}
	return false
}
