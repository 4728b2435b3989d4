package service

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmadden452/SlotLink/internal/app/model"
	"github.com/nats-io/nats.go"
)

// BookingPublisher publishes committed bookings to NATS JetStream for the
// notification consumer.
type BookingPublisher struct {
	js nats.JetStreamContext
}

// NewBookingPublisher creates a new booking event publisher.
func NewBookingPublisher(js nats.JetStreamContext) *BookingPublisher {
	return &BookingPublisher{js: js}
}

// Publish emits a pending booking event for the given meeting.
func (p *BookingPublisher) Publish(meeting *model.Meeting, advisorEmail string) error {
	event := model.BookingEvent{
		ID:           uuid.New().String(),
		LinkToken:    meeting.LinkToken,
		MeetingID:    meeting.ID,
		AdvisorEmail: advisorEmail,
		ClientEmail:  meeting.ClientEmail,
		StartTime:    meeting.StartTime,
		EndTime:      meeting.EndTime,
		Status:       model.BookingEventPending,
		Timestamp:    time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	_, err = p.js.Publish(model.BookingStreamSubject, data)
	return err
}
