package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/resourcebooking/internal/kafka"
	"go.uber.org/zap"
)

// Sender delivers reservation notifications. Delivery is a structured log
// line until a real channel is configured.
type Sender struct {
	logger *zap.Logger
}

func NewSender(logger *zap.Logger) *Sender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sender{logger: logger}
}

func (s *Sender) Send(ctx context.Context, event kafka.ReservationEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.logger.Info("notify",
		zap.String("to", event.RequestedBy),
		zap.String("reservation_id", event.ID),
		zap.String("type", event.Type),
		zap.String("text", Message(event)),
	)
	return nil
}

// Message renders the human readable text for an event.
func Message(event kafka.ReservationEvent) string {
	span := fmt.Sprintf("%s from %s to %s", event.Resource,
		event.StartTime.UTC().Format(time.RFC3339), event.EndTime.UTC().Format(time.RFC3339))
	switch event.Type {
	case kafka.EventReservationCreated:
		return "Your booking of " + span + " is confirmed."
	case kafka.EventReservationCancelled:
		return "Your booking of " + span + " was cancelled."
	case kafka.EventReservationReminder:
		return "Reminder: your booking of " + span + " starts soon."
	default:
		return fmt.Sprintf("Update (%s) for your booking of %s.", event.Type, span)
	}
}
