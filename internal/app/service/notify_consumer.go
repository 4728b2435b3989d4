package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmadden452/SlotLink/internal/app/model"
	apprepository "github.com/jmadden452/SlotLink/internal/app/repository"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Notifier delivers a booking notification to the advisor. Implementations
// live at the collaborator boundary; delivery failures are recorded, never
// surfaced to the booker.
type Notifier interface {
	Notify(ctx context.Context, event *model.BookingEvent) error
}

// LogNotifier is the default Notifier: it only logs the notification. The
// real delivery channel (email etc.) is a drop-in replacement.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier that records notifications in the log.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, event *model.BookingEvent) error {
	n.logger.Info("booking notification",
		zap.String("advisor_email", event.AdvisorEmail),
		zap.String("client_email", event.ClientEmail),
		zap.Time("start", event.StartTime),
		zap.Time("end", event.EndTime),
		zap.String("link_token", event.LinkToken),
	)
	return nil
}

// NotifyConsumer consumes booking events from NATS JetStream, invokes the
// Notifier and records the delivery outcome.
type NotifyConsumer struct {
	js       nats.JetStreamContext
	logger   *zap.Logger
	repo     apprepository.BookingEventRepository
	notifier Notifier
}

// NewNotifyConsumer creates a new booking event consumer.
func NewNotifyConsumer(js nats.JetStreamContext, logger *zap.Logger, repo apprepository.BookingEventRepository, notifier Notifier) *NotifyConsumer {
	return &NotifyConsumer{js: js, logger: logger, repo: repo, notifier: notifier}
}

// Start begins consuming booking events.
func (c *NotifyConsumer) Start() error {
	// Create stream if not exists
	_, err := c.js.StreamInfo(model.BookingStreamName)
	if err != nil {
		_, err = c.js.AddStream(&nats.StreamConfig{
			Name:     model.BookingStreamName,
			Subjects: []string{model.BookingStreamSubject},
			MaxBytes: model.BookingStreamMaxBytes,
		})
		if err != nil {
			return fmt.Errorf("failed to create stream: %w", err)
		}
	}

	// Create consumer if not exists
	_, err = c.js.ConsumerInfo(model.BookingStreamName, model.BookingConsumerName)
	if err != nil {
		_, err = c.js.AddConsumer(model.BookingStreamName, &nats.ConsumerConfig{
			Durable:   model.BookingConsumerName,
			AckPolicy: nats.AckExplicitPolicy,
		})
		if err != nil {
			return fmt.Errorf("failed to create consumer: %w", err)
		}
	}

	sub, err := c.js.PullSubscribe(model.BookingStreamSubject, model.BookingConsumerName)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	go c.consume(sub)
	return nil
}

func (c *NotifyConsumer) consume(sub *nats.Subscription) {
	ctx := context.Background()
	for {
		msgs, err := sub.Fetch(10, nats.MaxWait(5*time.Second))
		if err != nil && err != nats.ErrTimeout {
			c.logger.Error("failed to fetch booking events", zap.Error(err))
			continue
		}

		for _, msg := range msgs {
			var event model.BookingEvent
			if err := json.Unmarshal(msg.Data, &event); err != nil {
				c.logger.Error("failed to unmarshal booking event", zap.Error(err))
				msg.Nak()
				continue
			}

			if err := c.repo.Create(ctx, &event); err != nil {
				c.logger.Error("failed to store booking event",
					zap.String("id", event.ID),
					zap.String("link_token", event.LinkToken),
					zap.Error(err))
				msg.Nak()
				continue
			}

			status := model.BookingEventSent
			if err := c.notifier.Notify(ctx, &event); err != nil {
				// Delivery failure stays inside the pipeline; the
				// booking itself succeeded long ago.
				c.logger.Warn("failed to deliver booking notification",
					zap.String("id", event.ID),
					zap.String("advisor_email", event.AdvisorEmail),
					zap.Error(err))
				status = model.BookingEventFailed
			}

			if err := c.repo.UpdateStatus(ctx, event.ID, status); err != nil {
				c.logger.Error("failed to update booking event status",
					zap.String("id", event.ID),
					zap.Error(err))
			}

			msg.Ack()
		}
	}
}
