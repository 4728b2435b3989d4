package model

import (
	"fmt"
	"time"
)

// TimeWindow is a recurring weekly availability interval owned by an advisor.
// Start and end are minutes from midnight; 0 = Sunday for Weekday, matching
// time.Weekday. Windows on the same weekday may overlap.
type TimeWindow struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	AdvisorID   int64     `json:"advisor_id" gorm:"index;not null"`
	Weekday     int       `json:"weekday" gorm:"not null;index"`
	StartMinute int       `json:"start_minute" gorm:"not null"`
	EndMinute   int       `json:"end_minute" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// ClockLabel formats a minute-of-day value as HH:MM.
func ClockLabel(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
