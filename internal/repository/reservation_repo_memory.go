package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/Domenick1991/resourcebooking/internal/domain"
)

// MemoryReservationRepository keeps reservations in process memory in
// insertion order. Readers always get a copy of the current state.
type MemoryReservationRepository struct {
	mu           sync.RWMutex
	reservations []domain.Reservation
}

func NewMemoryReservationRepository(seed ...domain.Reservation) *MemoryReservationRepository {
	return &MemoryReservationRepository{reservations: slices.Clone(seed)}
}

func (r *MemoryReservationRepository) ListAll(ctx context.Context) ([]domain.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Reservation, len(r.reservations))
	copy(out, r.reservations)
	return out, nil
}

func (r *MemoryReservationRepository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, res := range r.reservations {
		if res.ID == id {
			found := res
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MemoryReservationRepository) Add(ctx context.Context, res domain.Reservation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reservations = append(r.reservations, res)
	return nil
}

func (r *MemoryReservationRepository) Remove(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := slices.IndexFunc(r.reservations, func(res domain.Reservation) bool { return res.ID == id })
	if idx < 0 {
		return false, nil
	}
	r.reservations = slices.Delete(r.reservations, idx, idx+1)
	return true, nil
}

// SampleReservations returns the two demo bookings the service starts with
// when seeding is enabled: one in two hours, one tomorrow.
func SampleReservations(now time.Time) []domain.Reservation {
	now = now.UTC()
	return []domain.Reservation{
		{
			ID:          "1",
			Resource:    "Conference Room A",
			StartTime:   now.Add(2 * time.Hour),
			EndTime:     now.Add(3 * time.Hour),
			RequestedBy: "John Doe",
			CreatedAt:   now,
		},
		{
			ID:          "2",
			Resource:    "Projector",
			StartTime:   now.Add(24 * time.Hour),
			EndTime:     now.Add(26 * time.Hour),
			RequestedBy: "Jane Smith",
			CreatedAt:   now,
		},
	}
}

var _ ReservationRepository = (*MemoryReservationRepository)(nil)
