package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Domenick1991/resourcebooking/internal/domain"
)

func TestResolveStatus(t *testing.T) {
	r := reservation("r1", "Room A", at(14, 0), at(15, 0))

	testCases := []struct {
		name     string
		now      time.Time
		expected domain.ReservationStatus
	}{
		{name: "before start", now: at(13, 59), expected: domain.ReservationStatusUpcoming},
		{name: "at start", now: at(14, 0), expected: domain.ReservationStatusOngoing},
		{name: "midway", now: at(14, 30), expected: domain.ReservationStatusOngoing},
		{name: "at end", now: at(15, 0), expected: domain.ReservationStatusOngoing},
		{name: "just after end", now: at(15, 0).Add(time.Millisecond), expected: domain.ReservationStatusPast},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ResolveStatus(r, tc.now))
		})
	}
}

func TestView(t *testing.T) {
	r := reservation("r1", "Room A", at(14, 0), at(15, 0))

	view := View(r, at(16, 0))

	assert.Equal(t, r, view.Reservation)
	assert.Equal(t, domain.ReservationStatusPast, view.Status)
}
