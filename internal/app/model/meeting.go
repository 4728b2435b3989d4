package model

import "time"

// Meeting is a committed booking against a scheduling link. Rows are
// immutable after creation; enrichment fields are resolved before the booking
// transaction and stored with it, they never change the slot or the client
// identity. No two meetings on the same link token may overlap on
// [StartTime, EndTime).
type Meeting struct {
	ID               int64      `json:"id" gorm:"primaryKey"`
	AdvisorID        int64      `json:"advisor_id" gorm:"index;not null"`
	LinkToken        string     `json:"link_token" gorm:"size:64;not null;index"`
	StartTime        time.Time  `json:"start_time" gorm:"not null;index"`
	EndTime          time.Time  `json:"end_time" gorm:"not null"`
	ClientEmail      string     `json:"client_email" gorm:"size:255;not null"`
	ClientProfileURL *string    `json:"client_profile_url" gorm:"size:512"`
	Answers          []string   `json:"answers" gorm:"serializer:json;type:jsonb"`
	CRMNotes         *string    `json:"crm_notes" gorm:"type:text"`
	ProfileSummary   *string    `json:"profile_summary" gorm:"type:text"`
	CreatedAt        time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

// Overlaps reports whether the meeting's interval intersects
// [start, end) using half-open interval semantics.
func (m *Meeting) Overlaps(start, end time.Time) bool {
	return m.StartTime.Before(end) && m.EndTime.After(start)
}
