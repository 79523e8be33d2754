package cache

import (
	"context"
	"fmt"

	"github.com/Domenick1991/resourcebooking/internal/domain"
)

// SnapshotStore is the read-through part of the reservation cache.
type SnapshotStore interface {
	GetReservations(ctx context.Context) ([]domain.Reservation, int64, error)
	SetReservations(ctx context.Context, reservations []domain.Reservation, generation int64) (bool, error)
}

// LoadSnapshot serves the reservation list from store when cached and falls
// back to load otherwise. The generation is read before load runs, so a
// snapshot that raced with an invalidation is never cached. store may be nil.
func LoadSnapshot(ctx context.Context, store SnapshotStore, load func(context.Context) ([]domain.Reservation, error)) ([]domain.Reservation, error) {
	var (
		generation int64
		cacheable  bool
	)
	if store != nil {
		cached, gen, err := store.GetReservations(ctx)
		if err == nil {
			if cached != nil {
				return cached, nil
			}
			generation, cacheable = gen, true
		}
	}

	reservations, err := load(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	if cacheable {
		_, _ = store.SetReservations(ctx, reservations, generation)
	}
	return reservations, nil
}
