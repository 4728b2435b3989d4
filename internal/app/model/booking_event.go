package model

import "time"

// Notification delivery states for a booking event.
const (
	BookingEventPending = "pending"
	BookingEventSent    = "sent"
	BookingEventFailed  = "failed"
)

// BookingEvent is the post-commit record of a successful booking that the
// notification consumer processes. Delivery is fire-and-forget from the
// transactor's point of view; this row only tracks what happened to it.
type BookingEvent struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	LinkToken    string    `json:"link_token" gorm:"size:64;index"`
	MeetingID    int64     `json:"meeting_id"`
	AdvisorEmail string    `json:"advisor_email" gorm:"size:255"`
	ClientEmail  string    `json:"client_email" gorm:"size:255"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Status       string    `json:"status" gorm:"size:16;index"`
	Timestamp    time.Time `json:"timestamp"`
}

const (
	BookingStreamName     = "BOOKINGS"
	BookingStreamSubject  = "bookings.confirmed"
	BookingConsumerName   = "booking-notifier"
	BookingStreamMaxBytes = 1024 * 1024 * 100 // 100MB
)
