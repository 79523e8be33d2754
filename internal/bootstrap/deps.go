package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/resourcebooking/config"
	"github.com/Domenick1991/resourcebooking/internal/cache"
	"github.com/Domenick1991/resourcebooking/internal/domain"
	"github.com/Domenick1991/resourcebooking/internal/kafka"
	"github.com/Domenick1991/resourcebooking/internal/repository"
	"github.com/Domenick1991/resourcebooking/internal/service/availability"
	"github.com/Domenick1991/resourcebooking/internal/service/reservation"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Deps holds the storage and messaging clients shared by the API and the worker.
type Deps struct {
	Reservations repository.ReservationRepository

	cfg      *config.Config
	logger   *zap.Logger
	pool     *pgxpool.Pool
	cache    *cache.RedisCache
	producer *kafka.Producer
}

// Open connects the configured backends. Redis and Kafka are optional; an
// unreachable Redis is logged and skipped.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Deps, error) {
	d := &Deps{cfg: cfg, logger: logger}

	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		pool, err := OpenPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		d.pool = pool
		if cfg.Storage.RunMigrations {
			if err := repository.Migrate(ctx, pool, logger); err != nil {
				pool.Close()
				return nil, err
			}
		}
		d.Reservations = repository.NewReservationRepository(pool)
	default:
		var seed []domain.Reservation
		if cfg.Storage.SeedSampleData {
			seed = repository.SampleReservations(time.Now().UTC())
		}
		d.Reservations = repository.NewMemoryReservationRepository(seed...)
	}

	if cfg.Redis.Enabled() {
		redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.SnapshotTTL())
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warn("redis unavailable, running without cache", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			_ = redisCache.Close()
		} else {
			d.cache = redisCache
		}
	}

	if cfg.Kafka.Enabled() {
		d.producer = kafka.NewProducer(cfg.Kafka.Brokers, logger)
		if err := d.producer.CheckConnection(ctx); err != nil {
			logger.Warn("kafka not reachable, event publishing may fail", zap.Error(err))
		}
	}

	logger.Info("dependencies ready",
		zap.String("storage", cfg.Storage.Driver),
		zap.Bool("redis", d.cache != nil),
		zap.Bool("kafka", d.producer != nil),
	)
	return d, nil
}

func OpenPostgres(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

func (d *Deps) ReservationService() *reservation.ReservationService {
	var c reservation.Cache
	if d.cache != nil {
		c = d.cache
	}
	var p reservation.Producer
	if d.producer != nil {
		p = d.producer
	}

	opts := []reservation.ReservationServiceOption{
		reservation.WithNotificationsTopic(d.cfg.Kafka.NotificationsTopic),
		reservation.WithLockTiming(d.cfg.Booking.LockTTL(), d.cfg.Booking.LockWait()),
		reservation.WithLogger(d.logger),
	}
	// Shared storage needs a lock every instance sees, with or without Redis.
	if d.pool != nil {
		opts = append(opts, reservation.WithResourceLocker(repository.NewResourceLocker(d.pool)))
	}

	return reservation.NewReservationService(
		d.Reservations,
		c,
		p,
		d.cfg.Kafka.ReservationTopic,
		d.cfg.Booking.Resources,
		opts...,
	)
}

func (d *Deps) AvailabilityService() *availability.AvailabilityService {
	var c cache.SnapshotStore
	if d.cache != nil {
		c = d.cache
	}
	return availability.NewAvailabilityService(d.Reservations, c, d.cfg.Booking.Resources)
}

func (d *Deps) Close() {
	if d.producer != nil {
		if err := d.producer.Close(); err != nil {
			d.logger.Warn("close kafka producer", zap.Error(err))
		}
	}
	if d.cache != nil {
		if err := d.cache.Close(); err != nil {
			d.logger.Warn("close redis", zap.Error(err))
		}
	}
	if d.pool != nil {
		d.pool.Close()
	}
}
