package availability

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/resourcebooking/internal/cache"
	"github.com/Domenick1991/resourcebooking/internal/domain"
	"github.com/Domenick1991/resourcebooking/internal/repository"
	"github.com/Domenick1991/resourcebooking/internal/scheduling"
)

type AvailabilityUseCase interface {
	AvailableSlots(ctx context.Context, query Query) (*scheduling.Availability, error)
	Resources() []string
}

type AvailabilityService struct {
	repo      repository.ReservationRepository
	cache     cache.SnapshotStore
	validator *scheduling.Validator
	resources []string
}

// Query asks for the free slots of one resource on one date. A zero
// DurationMinutes means the default slot length.
type Query struct {
	Resource        string
	Date            string
	DurationMinutes int
}

// NewAvailabilityService builds the availability queries; snapshots may be nil.
func NewAvailabilityService(repo repository.ReservationRepository, snapshots cache.SnapshotStore, resources []string) *AvailabilityService {
	return &AvailabilityService{
		repo:      repo,
		cache:     snapshots,
		validator: scheduling.NewValidator(domain.SystemClock{}, resources...),
		resources: resources,
	}
}

func (s *AvailabilityService) AvailableSlots(ctx context.Context, query Query) (*scheduling.Availability, error) {
	resource := strings.TrimSpace(query.Resource)
	date, err := s.validate(resource, query)
	if err != nil {
		return nil, err
	}

	duration := query.DurationMinutes
	if duration == 0 {
		duration = scheduling.DefaultSlotDurationMinutes
	}

	existing, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	availability := scheduling.ComputeAvailableSlots(resource, date, duration, existing)
	return &availability, nil
}

// Resources returns the bookable catalog in configuration order.
func (s *AvailabilityService) Resources() []string {
	out := make([]string, len(s.resources))
	copy(out, s.resources)
	return out
}

func (s *AvailabilityService) validate(resource string, query Query) (time.Time, error) {
	var errs []string
	if resource == "" {
		errs = append(errs, "Resource parameter is required")
	} else if !s.validator.KnownResource(resource) {
		errs = append(errs, "Unknown resource: "+resource)
	}

	var date time.Time
	rawDate := strings.TrimSpace(query.Date)
	if rawDate == "" {
		errs = append(errs, "Date parameter is required (YYYY-MM-DD format)")
	} else {
		parsed, err := time.Parse(scheduling.DateLayout, rawDate)
		if err != nil {
			errs = append(errs, "Invalid date")
		}
		date = parsed
	}

	if query.DurationMinutes < 0 {
		errs = append(errs, "Duration must be a positive number of minutes")
	} else if query.DurationMinutes > scheduling.MaxSlotDurationMinutes {
		errs = append(errs, fmt.Sprintf("Duration cannot exceed %d minutes", scheduling.MaxSlotDurationMinutes))
	}

	if len(errs) > 0 {
		return time.Time{}, &domain.ValidationError{Errors: errs}
	}
	return date, nil
}

func (s *AvailabilityService) snapshot(ctx context.Context) ([]domain.Reservation, error) {
	return cache.LoadSnapshot(ctx, s.cache, s.repo.ListAll)
}

var _ AvailabilityUseCase = (*AvailabilityService)(nil)
