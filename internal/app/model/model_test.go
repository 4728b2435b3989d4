package model

import (
	"testing"
	"time"
)

func TestMeetingOverlaps(t *testing.T) {
	base := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	meeting := &Meeting{
		StartTime: base,
		EndTime:   base.Add(30 * time.Minute),
	}

	cases := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"identical", base, base.Add(30 * time.Minute), true},
		{"straddles", base.Add(15 * time.Minute), base.Add(45 * time.Minute), true},
		{"contained", base.Add(5 * time.Minute), base.Add(10 * time.Minute), true},
		{"back to back after", base.Add(30 * time.Minute), base.Add(60 * time.Minute), false},
		{"back to back before", base.Add(-30 * time.Minute), base, false},
		{"disjoint", base.Add(2 * time.Hour), base.Add(3 * time.Hour), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := meeting.Overlaps(tc.start, tc.end); got != tc.want {
				t.Fatalf("Overlaps(%v, %v) = %v, want %v", tc.start, tc.end, got, tc.want)
			}
		})
	}
}

func TestSchedulingLinkExpired(t *testing.T) {
	now := time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	if (&SchedulingLink{}).Expired(now) {
		t.Fatal("expected link without expiration to never expire")
	}
	if !(&SchedulingLink{ExpiresAt: &past}).Expired(now) {
		t.Fatal("expected past expiration to expire")
	}
	if (&SchedulingLink{ExpiresAt: &future}).Expired(now) {
		t.Fatal("expected future expiration to remain open")
	}
}

func TestSchedulingLinkExhausted(t *testing.T) {
	zero := 0
	one := 1

	if (&SchedulingLink{}).Exhausted() {
		t.Fatal("expected unlimited link to never exhaust")
	}
	if !(&SchedulingLink{UsageLimit: &zero}).Exhausted() {
		t.Fatal("expected zero remaining uses to exhaust")
	}
	if (&SchedulingLink{UsageLimit: &one}).Exhausted() {
		t.Fatal("expected one remaining use to stay open")
	}
}

func TestClockLabel(t *testing.T) {
	cases := map[int]string{
		0:    "00:00",
		540:  "09:00",
		555:  "09:15",
		1439: "23:59",
	}
	for minute, want := range cases {
		if got := ClockLabel(minute); got != want {
			t.Fatalf("ClockLabel(%d) = %s, want %s", minute, got, want)
		}
	}
}
