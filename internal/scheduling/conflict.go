package scheduling

import (
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/resourcebooking/internal/domain"
)

// Candidate is the interval someone wants to book.
type Candidate struct {
	Resource  string
	StartTime time.Time
	EndTime   time.Time
}

type ConflictResult struct {
	HasConflict         bool                 `json:"hasConflict"`
	ConflictingBookings []domain.Reservation `json:"conflictingBookings,omitempty"`
	Message             string               `json:"message,omitempty"`
}

// DetectConflict checks the candidate against every reservation of the same
// resource. The buffer is applied to the existing reservations only; the
// candidate is compared with its raw span. A non-empty excludeID skips that
// reservation. All collisions are reported, not only the first one.
func DetectConflict(candidate Candidate, existing []domain.Reservation, excludeID string) ConflictResult {
	var conflicting []domain.Reservation
	for _, r := range existing {
		if r.Resource != candidate.Resource {
			continue
		}
		if excludeID != "" && r.ID == excludeID {
			continue
		}
		bufferedStart, bufferedEnd := ExpandByBuffer(r.StartTime, r.EndTime, BufferMinutes)
		if Overlaps(candidate.StartTime, candidate.EndTime, bufferedStart, bufferedEnd) {
			conflicting = append(conflicting, r)
		}
	}

	if len(conflicting) == 0 {
		return ConflictResult{}
	}
	return ConflictResult{
		HasConflict:         true,
		ConflictingBookings: conflicting,
		Message:             conflictMessage(conflicting),
	}
}

// Err converts a positive result into a *domain.ConflictError.
func (r ConflictResult) Err() error {
	if !r.HasConflict {
		return nil
	}
	return &domain.ConflictError{ConflictingBookings: r.ConflictingBookings, Message: r.Message}
}

func conflictMessage(conflicting []domain.Reservation) string {
	spans := make([]string, 0, len(conflicting))
	for _, r := range conflicting {
		spans = append(spans, fmt.Sprintf("%s - %s", r.StartTime.UTC().Format(time.RFC3339), r.EndTime.UTC().Format(time.RFC3339)))
	}
	return fmt.Sprintf(
		"Booking conflicts with existing reservations (including %d-minute buffer time). Conflicting bookings: %s",
		BufferMinutes,
		strings.Join(spans, ", "),
	)
}
