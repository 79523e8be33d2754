package scheduling

import (
	"slices"

	"github.com/Domenick1991/resourcebooking/internal/domain"
)

// Filter narrows a reservation listing. Empty fields match everything; Date
// is a YYYY-MM-DD calendar date compared against the UTC start date.
type Filter struct {
	Resource string
	Date     string
}

func FilterReservations(reservations []domain.Reservation, f Filter) []domain.Reservation {
	out := make([]domain.Reservation, 0, len(reservations))
	for _, r := range reservations {
		if f.Resource != "" && r.Resource != f.Resource {
			continue
		}
		if f.Date != "" && r.StartTime.UTC().Format(DateLayout) != f.Date {
			continue
		}
		out = append(out, r)
	}
	return out
}

// SortByStartTime returns a copy ordered by ascending start. Ties keep their input order.
func SortByStartTime(reservations []domain.Reservation) []domain.Reservation {
	out := slices.Clone(reservations)
	slices.SortStableFunc(out, func(a, b domain.Reservation) int {
		return a.StartTime.Compare(b.StartTime)
	})
	return out
}
