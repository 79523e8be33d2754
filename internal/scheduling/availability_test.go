package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Domenick1991/resourcebooking/internal/domain"
)

func slotStarts(slots []domain.TimeSlot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.StartTime.Format("15:04"))
	}
	return out
}

func TestComputeAvailableSlots_EmptyDay(t *testing.T) {
	result := ComputeAvailableSlots("Room A", at(0, 0), 60, nil)

	require.Len(t, result.AvailableSlots, 17)
	assert.Equal(t, 17, result.TotalSlots)
	assert.Equal(t, 0, result.ExistingBookings)
	assert.Equal(t, "2030-03-14", result.Date)
	assert.Equal(t, at(9, 0), result.AvailableSlots[0].StartTime)
	assert.Equal(t, at(10, 0), result.AvailableSlots[0].EndTime)
	assert.Equal(t, at(17, 0), result.AvailableSlots[16].StartTime)
	assert.Equal(t, at(18, 0), result.AvailableSlots[16].EndTime)
	for _, slot := range result.AvailableSlots {
		assert.Equal(t, 60, slot.DurationMinutes)
	}
}

func TestComputeAvailableSlots_WithReservation(t *testing.T) {
	existing := []domain.Reservation{reservation("r1", "Room A", at(12, 0), at(13, 0))}

	result := ComputeAvailableSlots("Room A", at(0, 0), 60, existing)

	assert.Equal(t, []string{
		"09:00", "09:30", "10:00", "10:30",
		"13:30", "14:00", "14:30", "15:00", "15:30", "16:00", "16:30", "17:00",
	}, slotStarts(result.AvailableSlots))
	assert.Equal(t, 12, result.TotalSlots)
	assert.Equal(t, 1, result.ExistingBookings)
}

func TestComputeAvailableSlots_IgnoresOtherResourcesAndDays(t *testing.T) {
	existing := []domain.Reservation{
		reservation("r1", "Projector", at(12, 0), at(13, 0)),
		reservation("r2", "Room A", at(12, 0).AddDate(0, 0, 1), at(13, 0).AddDate(0, 0, 1)),
	}

	result := ComputeAvailableSlots("Room A", at(0, 0), 60, existing)

	assert.Equal(t, 17, result.TotalSlots)
	assert.Equal(t, 0, result.ExistingBookings)
}

func TestComputeAvailableSlots_RejectsSlotsPastClosing(t *testing.T) {
	result := ComputeAvailableSlots("Room A", at(0, 0), 90, nil)

	starts := slotStarts(result.AvailableSlots)
	assert.Equal(t, "16:30", starts[len(starts)-1])
	for _, slot := range result.AvailableSlots {
		assert.False(t, slot.EndTime.After(at(18, 0)))
	}
}

func TestComputeAvailableSlots_ShortSlotsFillTheGrid(t *testing.T) {
	result := ComputeAvailableSlots("Room A", at(0, 0), 30, nil)

	assert.Equal(t, 18, result.TotalSlots)
	assert.Equal(t, "17:30", slotStarts(result.AvailableSlots)[17])
}

func TestComputeAvailableSlots_AscendingOrder(t *testing.T) {
	existing := []domain.Reservation{
		reservation("r1", "Room A", at(10, 0), at(10, 30)),
		reservation("r2", "Room A", at(15, 0), at(16, 0)),
	}

	result := ComputeAvailableSlots("Room A", at(0, 0), 30, existing)

	for i := 1; i < len(result.AvailableSlots); i++ {
		assert.True(t, result.AvailableSlots[i-1].StartTime.Before(result.AvailableSlots[i].StartTime))
	}
}

func TestComputeAvailableSlots_UsesCalendarDateOfInput(t *testing.T) {
	date := time.Date(2030, time.March, 14, 23, 30, 0, 0, time.UTC)

	result := ComputeAvailableSlots("Room A", date, 60, nil)

	assert.Equal(t, "2030-03-14", result.Date)
	assert.Equal(t, at(9, 0), result.AvailableSlots[0].StartTime)
}

func TestComputeAvailableSlots_FullDaySlot(t *testing.T) {
	result := ComputeAvailableSlots("Room A", at(0, 0), MaxSlotDurationMinutes, nil)

	require.Len(t, result.AvailableSlots, 1)
	assert.Equal(t, at(9, 0), result.AvailableSlots[0].StartTime)
	assert.Equal(t, at(18, 0), result.AvailableSlots[0].EndTime)
}

func TestComputeAvailableSlots_OutOfRangeDuration(t *testing.T) {
	existing := []domain.Reservation{reservation("r1", "Room A", at(12, 0), at(13, 0))}

	for _, minutes := range []int{0, -30, MaxSlotDurationMinutes + 1, 200_000_000} {
		result := ComputeAvailableSlots("Room A", at(0, 0), minutes, existing)

		assert.NotNil(t, result.AvailableSlots)
		assert.Empty(t, result.AvailableSlots, "duration %d", minutes)
		assert.Equal(t, 0, result.TotalSlots)
		assert.Equal(t, 1, result.ExistingBookings)
	}
}
