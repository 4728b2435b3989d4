package model

import "time"

// SchedulingLink is a shareable, policy-bounded booking token.
// UsageLimit and ExpiresAt are nil when the link is unlimited / never expires;
// an exhausted or expired link is rejected at booking time, never deleted.
type SchedulingLink struct {
	ID                  int64      `json:"id" gorm:"primaryKey"`
	AdvisorID           int64      `json:"advisor_id" gorm:"index;not null"`
	Token               string     `json:"token" gorm:"size:64;not null;uniqueIndex"`
	UsageLimit          *int       `json:"usage_limit"`
	ExpiresAt           *time.Time `json:"expires_at" gorm:"index"`
	MeetingLengthMin    int        `json:"meeting_length_minutes" gorm:"not null"`
	AdvanceScheduleDays int        `json:"advance_schedule_days" gorm:"not null"`
	Questions           []string   `json:"questions" gorm:"serializer:json;type:jsonb"`
	CreatedAt           time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt           time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// Expired reports whether the link can no longer be booked due to its
// expiration timestamp.
func (l *SchedulingLink) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && l.ExpiresAt.Before(now)
}

// Exhausted reports whether the link's usage limit has been consumed.
func (l *SchedulingLink) Exhausted() bool {
	return l.UsageLimit != nil && *l.UsageLimit <= 0
}
