package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/resourcebooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReservationRepository owns the canonical set of reservations.
type ReservationRepository interface {
	ListAll(ctx context.Context) ([]domain.Reservation, error)
	GetByID(ctx context.Context, id string) (*domain.Reservation, error)
	Add(ctx context.Context, reservation domain.Reservation) error
	Remove(ctx context.Context, id string) (bool, error)
}

type PGReservationRepository struct {
	db *pgxpool.Pool
}

func NewReservationRepository(db *pgxpool.Pool) ReservationRepository {
	return &PGReservationRepository{db: db}
}

const reservationColumns = `id, resource, start_time, end_time, requested_by, created_at`

func (r *PGReservationRepository) ListAll(ctx context.Context) ([]domain.Reservation, error) {
	rows, err := r.db.Query(ctx, `SELECT `+reservationColumns+` FROM reservations ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	reservations := make([]domain.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}

func (r *PGReservationRepository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	row := r.db.QueryRow(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id=$1`, id)
	res, err := scanReservation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}

func (r *PGReservationRepository) Add(ctx context.Context, res domain.Reservation) error {
	_, err := r.db.Exec(ctx, `INSERT INTO reservations (id, resource, start_time, end_time, requested_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		res.ID, res.Resource, res.StartTime, res.EndTime, res.RequestedBy, res.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert reservation %s: %w", res.ID, err)
	}
	return nil
}

func (r *PGReservationRepository) Remove(ctx context.Context, id string) (bool, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM reservations WHERE id=$1`, id)
	if err != nil {
		return false, fmt.Errorf("delete reservation %s: %w", id, err)
	}
	return cmd.RowsAffected() > 0, nil
}

func scanReservation(row pgx.Row) (domain.Reservation, error) {
	var res domain.Reservation
	if err := row.Scan(&res.ID, &res.Resource, &res.StartTime, &res.EndTime, &res.RequestedBy, &res.CreatedAt); err != nil {
		return domain.Reservation{}, err
	}
	res.StartTime = res.StartTime.UTC()
	res.EndTime = res.EndTime.UTC()
	res.CreatedAt = res.CreatedAt.UTC()
	return res, nil
}

var _ ReservationRepository = (*PGReservationRepository)(nil)
