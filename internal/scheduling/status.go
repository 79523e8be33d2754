package scheduling

import (
	"time"

	"github.com/Domenick1991/resourcebooking/internal/domain"
)

// ResolveStatus derives the lifecycle state of r at now. Both ends of the
// reservation count as ongoing.
func ResolveStatus(r domain.Reservation, now time.Time) domain.ReservationStatus {
	switch {
	case now.Before(r.StartTime):
		return domain.ReservationStatusUpcoming
	case !now.After(r.EndTime):
		return domain.ReservationStatusOngoing
	default:
		return domain.ReservationStatusPast
	}
}

func View(r domain.Reservation, now time.Time) domain.ReservationView {
	return domain.ReservationView{Reservation: r, Status: ResolveStatus(r, now)}
}
