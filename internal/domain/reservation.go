package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusUpcoming ReservationStatus = "upcoming"
	ReservationStatusOngoing  ReservationStatus = "ongoing"
	ReservationStatusPast     ReservationStatus = "past"
)

// DefaultResources is the bookable catalog used when the configuration does not name one.
var DefaultResources = []string{
	"Conference Room A",
	"Conference Room B",
	"Projector",
	"Laptop Cart",
	"Video Equipment",
}

type Reservation struct {
	ID          string    `json:"id"`
	Resource    string    `json:"resource"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	RequestedBy string    `json:"requestedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ReservationView is a reservation together with the status derived at read time.
type ReservationView struct {
	Reservation
	Status ReservationStatus `json:"status"`
}

type TimeSlot struct {
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	DurationMinutes int       `json:"duration"`
}
