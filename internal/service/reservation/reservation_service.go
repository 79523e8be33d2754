package reservation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Domenick1991/resourcebooking/internal/cache"
	"github.com/Domenick1991/resourcebooking/internal/domain"
	"github.com/Domenick1991/resourcebooking/internal/kafka"
	"github.com/Domenick1991/resourcebooking/internal/repository"
	"github.com/Domenick1991/resourcebooking/internal/scheduling"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const lockPollInterval = 25 * time.Millisecond

type ReservationUseCase interface {
	CreateReservation(ctx context.Context, input CreateReservationInput) (*domain.Reservation, error)
	CancelReservation(ctx context.Context, id string) (*domain.Reservation, error)
	GetReservation(ctx context.Context, id string) (*domain.ReservationView, error)
	ListReservations(ctx context.Context, filter scheduling.Filter) ([]domain.ReservationView, error)
	SendReminders(ctx context.Context, lead time.Duration) ([]domain.Reservation, error)
}

type Cache interface {
	AcquireResourceLock(ctx context.Context, resource, token string, ttl time.Duration) (bool, error)
	ReleaseResourceLock(ctx context.Context, resource, token string) error
	GetReservations(ctx context.Context) ([]domain.Reservation, int64, error)
	SetReservations(ctx context.Context, reservations []domain.Reservation, generation int64) (bool, error)
	InvalidateReservations(ctx context.Context) error
	MarkReminderSent(ctx context.Context, id string, ttl time.Duration) (bool, error)
	ClearReminderSent(ctx context.Context, id string) error
}

// ResourceLocker is a cross-process lock held in the storage backend.
// TryLockResource never blocks; release must be called once when acquired.
type ResourceLocker interface {
	TryLockResource(ctx context.Context, resource string) (release func(), acquired bool, err error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type ReservationService struct {
	reservations       repository.ReservationRepository
	validator          *scheduling.Validator
	resources          []string
	cache              Cache
	locker             ResourceLocker
	producer           Producer
	reservationTopic   string
	notificationsTopic string
	lockTTL            time.Duration
	lockWait           time.Duration
	clock              domain.Clock
	newID              func() string
	logger             *zap.Logger

	locks *resourceLocks
	// reminded maps reservation ID to end time when no cache is configured.
	reminded sync.Map
}

type CreateReservationInput struct {
	Resource    string `json:"resource"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	RequestedBy string `json:"requestedBy"`
}

type ReservationServiceOption func(*ReservationService)

func WithNotificationsTopic(topic string) ReservationServiceOption {
	return func(s *ReservationService) {
		s.notificationsTopic = topic
	}
}

func WithClock(clock domain.Clock) ReservationServiceOption {
	return func(s *ReservationService) {
		s.clock = clock
	}
}

func WithIDGenerator(newID func() string) ReservationServiceOption {
	return func(s *ReservationService) {
		s.newID = newID
	}
}

func WithLogger(logger *zap.Logger) ReservationServiceOption {
	return func(s *ReservationService) {
		s.logger = logger
	}
}

// WithResourceLocker adds a storage-level lock taken on every create and cancel.
func WithResourceLocker(locker ResourceLocker) ReservationServiceOption {
	return func(s *ReservationService) {
		s.locker = locker
	}
}

// WithLockTiming sets how long the distributed resource lock lives and how
// long a create or cancel waits for it before giving up.
func WithLockTiming(ttl, wait time.Duration) ReservationServiceOption {
	return func(s *ReservationService) {
		s.lockTTL = ttl
		s.lockWait = wait
	}
}

// NewReservationService wires the booking use cases. store and producer may
// be nil; resources is the bookable catalog (empty accepts any name).
func NewReservationService(
	reservations repository.ReservationRepository,
	store Cache,
	producer Producer,
	reservationTopic string,
	resources []string,
	opts ...ReservationServiceOption,
) *ReservationService {
	service := &ReservationService{
		reservations:     reservations,
		resources:        resources,
		cache:            store,
		producer:         producer,
		reservationTopic: reservationTopic,
		lockTTL:          5 * time.Second,
		lockWait:         2 * time.Second,
		clock:            domain.SystemClock{},
		newID:            uuid.NewString,
		logger:           zap.NewNop(),
		locks:            newResourceLocks(),
	}
	for _, opt := range opts {
		opt(service)
	}
	service.validator = scheduling.NewValidator(service.clock, resources...)
	return service
}

func (s *ReservationService) CreateReservation(ctx context.Context, input CreateReservationInput) (*domain.Reservation, error) {
	result := s.validator.Validate(scheduling.Request{
		Resource:    input.Resource,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		RequestedBy: input.RequestedBy,
	})
	if err := result.Err(); err != nil {
		return nil, err
	}

	// Validation succeeded, so both times parse.
	start, _ := scheduling.ParseTime(input.StartTime)
	end, _ := scheduling.ParseTime(input.EndTime)
	resource := strings.TrimSpace(input.Resource)

	unlock, err := s.lockResource(ctx, resource)
	if err != nil {
		return nil, err
	}
	defer unlock()

	existing, err := s.reservations.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}

	candidate := scheduling.Candidate{Resource: resource, StartTime: start, EndTime: end}
	if err := scheduling.DetectConflict(candidate, existing, "").Err(); err != nil {
		s.logger.Info("reservation rejected: conflict",
			zap.String("resource", resource),
			zap.Time("start", start),
			zap.Time("end", end),
		)
		return nil, err
	}

	reservation := domain.Reservation{
		ID:          s.newID(),
		Resource:    resource,
		StartTime:   start.UTC(),
		EndTime:     end.UTC(),
		RequestedBy: strings.TrimSpace(input.RequestedBy),
		CreatedAt:   s.clock.Now().UTC(),
	}
	if err := s.reservations.Add(ctx, reservation); err != nil {
		return nil, fmt.Errorf("add reservation: %w", err)
	}
	s.invalidateSnapshot(ctx)

	s.logger.Info("reservation created", zap.String("id", reservation.ID), zap.String("resource", resource))
	if err := s.publish(ctx, kafka.EventReservationCreated, reservation); err != nil {
		s.logger.Warn("failed to publish event", zap.String("type", kafka.EventReservationCreated), zap.String("id", reservation.ID), zap.Error(err))
	}
	return &reservation, nil
}

func (s *ReservationService) CancelReservation(ctx context.Context, id string) (*domain.Reservation, error) {
	current, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	unlock, err := s.lockResource(ctx, current.Resource)
	if err != nil {
		return nil, err
	}
	defer unlock()

	// Re-read under the lock; a concurrent cancel may have won the race.
	current, err = s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.StartTime.Before(s.clock.Now()) {
		return nil, domain.ErrPastReservation
	}

	removed, err := s.reservations.Remove(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("remove reservation: %w", err)
	}
	if !removed {
		return nil, domain.ErrNotFound
	}
	s.invalidateSnapshot(ctx)

	s.logger.Info("reservation cancelled", zap.String("id", id), zap.String("resource", current.Resource))
	if err := s.publish(ctx, kafka.EventReservationCancelled, *current); err != nil {
		s.logger.Warn("failed to publish event", zap.String("type", kafka.EventReservationCancelled), zap.String("id", id), zap.Error(err))
	}
	return current, nil
}

func (s *ReservationService) GetReservation(ctx context.Context, id string) (*domain.ReservationView, error) {
	current, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := scheduling.View(*current, s.clock.Now())
	return &view, nil
}

// ListReservations returns the filtered reservations ordered by start time,
// each with its status as of now.
func (s *ReservationService) ListReservations(ctx context.Context, filter scheduling.Filter) ([]domain.ReservationView, error) {
	all, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	sorted := scheduling.SortByStartTime(scheduling.FilterReservations(all, filter))
	views := make([]domain.ReservationView, 0, len(sorted))
	for _, r := range sorted {
		views = append(views, scheduling.View(r, now))
	}
	return views, nil
}

// SendReminders publishes one reminder for every upcoming reservation that
// starts within lead. Reservations already reminded are skipped. Without a
// producer nothing is sent and nothing is marked.
func (s *ReservationService) SendReminders(ctx context.Context, lead time.Duration) ([]domain.Reservation, error) {
	if s.producer == nil || s.reservationTopic == "" {
		s.logger.Debug("reminders skipped: no event producer configured")
		return nil, nil
	}

	all, err := s.reservations.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}

	now := s.clock.Now()
	s.forgetFinishedReminders(now)

	var reminded []domain.Reservation
	for _, r := range scheduling.SortByStartTime(all) {
		if scheduling.ResolveStatus(r, now) != domain.ReservationStatusUpcoming || r.StartTime.Sub(now) > lead {
			continue
		}
		first, err := s.markReminded(ctx, r, now)
		if err != nil {
			s.logger.Warn("reminder bookkeeping failed", zap.String("id", r.ID), zap.Error(err))
			continue
		}
		if !first {
			continue
		}
		if err := s.publish(ctx, kafka.EventReservationReminder, r); err != nil {
			s.logger.Warn("failed to publish event", zap.String("type", kafka.EventReservationReminder), zap.String("id", r.ID), zap.Error(err))
			s.unmarkReminded(ctx, r)
			continue
		}
		reminded = append(reminded, r)
	}
	return reminded, nil
}

func (s *ReservationService) markReminded(ctx context.Context, r domain.Reservation, now time.Time) (bool, error) {
	if s.cache != nil {
		return s.cache.MarkReminderSent(ctx, r.ID, r.EndTime.Sub(now)+time.Hour)
	}
	_, loaded := s.reminded.LoadOrStore(r.ID, r.EndTime)
	return !loaded, nil
}

// unmarkReminded lets the next sweep retry a reminder whose event was not delivered.
func (s *ReservationService) unmarkReminded(ctx context.Context, r domain.Reservation) {
	if s.cache == nil {
		s.reminded.Delete(r.ID)
		return
	}
	if err := s.cache.ClearReminderSent(ctx, r.ID); err != nil {
		s.logger.Warn("failed to clear reminder mark", zap.String("id", r.ID), zap.Error(err))
	}
}

func (s *ReservationService) forgetFinishedReminders(now time.Time) {
	s.reminded.Range(func(key, value interface{}) bool {
		if end, ok := value.(time.Time); ok && end.Before(now) {
			s.reminded.Delete(key)
		}
		return true
	})
}

func (s *ReservationService) snapshot(ctx context.Context) ([]domain.Reservation, error) {
	return cache.LoadSnapshot(ctx, s.cache, s.reservations.ListAll)
}

func (s *ReservationService) invalidateSnapshot(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateReservations(ctx); err != nil {
		s.logger.Warn("failed to invalidate reservation snapshot", zap.Error(err))
	}
}

// lockResource serialises mutations of one resource: always within this
// process, and across processes through the cache lock and the storage lock
// when they are configured. The returned func releases all of them.
func (s *ReservationService) lockResource(ctx context.Context, resource string) (func(), error) {
	releases := []func(){s.locks.lock(resource)}
	releaseAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}

	if s.cache != nil {
		token := uuid.NewString()
		err := s.acquireWithin(ctx, func() (bool, error) {
			return s.cache.AcquireResourceLock(ctx, resource, token, s.lockTTL)
		})
		if err != nil {
			releaseAll()
			return nil, err
		}
		releases = append(releases, func() {
			if err := s.cache.ReleaseResourceLock(context.WithoutCancel(ctx), resource, token); err != nil {
				s.logger.Warn("failed to release resource lock", zap.String("resource", resource), zap.Error(err))
			}
		})
	}

	if s.locker != nil {
		var unlock func()
		err := s.acquireWithin(ctx, func() (bool, error) {
			release, ok, err := s.locker.TryLockResource(ctx, resource)
			if ok {
				unlock = release
			}
			return ok, err
		})
		if err != nil {
			releaseAll()
			return nil, err
		}
		releases = append(releases, unlock)
	}

	return releaseAll, nil
}

// acquireWithin polls try until it succeeds or lockWait runs out.
func (s *ReservationService) acquireWithin(ctx context.Context, try func() (bool, error)) error {
	deadline := time.NewTimer(s.lockWait)
	defer deadline.Stop()

	for {
		ok, err := try()
		if err != nil {
			return fmt.Errorf("acquire resource lock: %w", err)
		}
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return domain.ErrResourceBusy
		case <-time.After(lockPollInterval):
		}
	}
}

func (s *ReservationService) publish(ctx context.Context, eventType string, r domain.Reservation) error {
	if s.producer == nil || s.reservationTopic == "" {
		return nil
	}
	now := s.clock.Now()
	event := kafka.ReservationEvent{
		Type:        eventType,
		ID:          r.ID,
		Resource:    r.Resource,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		RequestedBy: r.RequestedBy,
		Status:      string(scheduling.ResolveStatus(r, now)),
		OccurredAt:  now,
	}
	if err := s.producer.Publish(ctx, s.reservationTopic, r.ID, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, r.ID, event)
	}
	return nil
}

var _ ReservationUseCase = (*ReservationService)(nil)
