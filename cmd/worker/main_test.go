package main

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Domenick1991/resourcebooking/config"
	"github.com/Domenick1991/resourcebooking/internal/domain"
	"github.com/Domenick1991/resourcebooking/internal/service/reservation"
)

type countingReminders struct {
	reservation.ReservationUseCase
	calls atomic.Int32
}

func (c *countingReminders) SendReminders(ctx context.Context, lead time.Duration) ([]domain.Reservation, error) {
	c.calls.Add(1)
	return nil, nil
}

func workerConfig(driver string, brokers ...string) *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{Driver: driver},
		Kafka:   config.KafkaConfig{Brokers: brokers, ReservationTopic: "reservations"},
		Booking: config.BookingConfig{ReminderLeadMinutes: 15},
		Worker:  config.WorkerConfig{ReminderSweepMinutes: 1},
	}
}

func TestReminderSweepDisabledReason(t *testing.T) {
	assert.Contains(t, reminderSweepDisabledReason(workerConfig(config.StorageMemory, "localhost:9092")), "memory storage")
	assert.Contains(t, reminderSweepDisabledReason(workerConfig(config.StoragePostgres)), "kafka")

	noTopic := workerConfig(config.StoragePostgres, "localhost:9092")
	noTopic.Kafka.ReservationTopic = ""
	assert.NotEmpty(t, reminderSweepDisabledReason(noTopic))

	assert.Empty(t, reminderSweepDisabledReason(workerConfig(config.StoragePostgres, "localhost:9092")))
}

func TestRunReminders_MemoryStorageSkipsSweep(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	svc := &countingReminders{}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	runReminders(ctx, svc, workerConfig(config.StorageMemory, "localhost:9092"), zap.New(core))

	assert.Equal(t, int32(0), svc.calls.Load())
	entries := logs.FilterMessage("reminder sweep disabled").All()
	if assert.Len(t, entries, 1) {
		assert.Contains(t, entries[0].ContextMap()["reason"], "memory storage")
	}
}

func TestSweepReminders_Ticks(t *testing.T) {
	svc := &countingReminders{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sweepReminders(ctx, svc, 5*time.Millisecond, 15*time.Minute, zap.NewNop())
		close(done)
	}()

	assert.Eventually(t, func() bool { return svc.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}
