package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/resourcebooking/config"
	"github.com/Domenick1991/resourcebooking/internal/bootstrap"
	"github.com/Domenick1991/resourcebooking/internal/kafka"
	"github.com/Domenick1991/resourcebooking/internal/notification"
	"github.com/Domenick1991/resourcebooking/internal/observability"
	"github.com/Domenick1991/resourcebooking/internal/service/reservation"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	var configPath string

	cmd := &cobra.Command{
		Use:          "booking-worker",
		Short:        "Deliver reservation notifications and send start reminders",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to config file (default $CONFIG_PATH or config.yaml)")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadConfig(config.Path(configPath))
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := bootstrap.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	reservationService := deps.ReservationService()
	sender := notification.NewSender(logger)

	if cfg.Kafka.Enabled() {
		topic := cfg.Kafka.NotificationsTopic
		if topic == "" {
			topic = cfg.Kafka.ReservationTopic
		}
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, topic)
		defer consumer.Close()

		go func() {
			if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
				event, err := kafka.DecodeReservationEvent(msg)
				if err != nil {
					logger.Warn("decode event error", zap.Error(err))
					return nil
				}
				return sender.Send(ctx, event)
			}); err != nil && ctx.Err() == nil {
				logger.Error("consumer stopped", zap.Error(err))
			}
		}()
	} else {
		logger.Info("kafka disabled, notifications are not consumed")
	}

	runReminders(ctx, reservationService, cfg, logger)
	return nil
}

// reminderSweepDisabledReason explains why this worker must not send
// reminders, or returns "" when it may.
func reminderSweepDisabledReason(cfg *config.Config) string {
	if cfg.Storage.Driver == config.StorageMemory {
		return "memory storage is private to each process; the worker cannot see the API's reservations"
	}
	if !cfg.Kafka.Enabled() || cfg.Kafka.ReservationTopic == "" {
		return "kafka is not configured; reminders have nowhere to go"
	}
	return ""
}

// runReminders sweeps for due reminders until ctx is done.
func runReminders(ctx context.Context, svc reservation.ReservationUseCase, cfg *config.Config, logger *zap.Logger) {
	if reason := reminderSweepDisabledReason(cfg); reason != "" {
		logger.Warn("reminder sweep disabled", zap.String("reason", reason))
		<-ctx.Done()
		logger.Info("shutting down worker")
		return
	}
	sweepReminders(ctx, svc, time.Duration(cfg.Worker.ReminderSweepMinutes)*time.Minute, cfg.Booking.ReminderLead(), logger)
}

func sweepReminders(ctx context.Context, svc reservation.ReservationUseCase, every, lead time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			reminded, err := svc.SendReminders(ctx, lead)
			if err != nil {
				logger.Error("send reminders error", zap.Error(err))
				continue
			}
			if len(reminded) > 0 {
				logger.Info("reminders sent", zap.Int("count", len(reminded)))
			}
		case <-ctx.Done():
			logger.Info("shutting down worker")
			return
		}
	}
}
