package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/jmadden452/SlotLink/internal/app/model"
	"github.com/jmadden452/SlotLink/internal/app/repository"
	"github.com/jmadden452/SlotLink/internal/infra/metrics"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const availabilityCacheTTL = 30 * time.Second

// Slot is a candidate bookable interval derived from a window and the link's
// meeting length.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DayAvailability holds the ordered slots of one calendar day. Days without
// slots are omitted from schedules entirely.
type DayAvailability struct {
	Date  string `json:"date"`
	Slots []Slot `json:"slots"`
}

// ComputeSlots derives bookable slots for a link from its advisor's recurring
// windows and the meetings already committed on the link. For each day within
// the advance-schedule horizon (inclusive, starting at now's calendar date
// regardless of time of day), every window matching that weekday tiles its own
// grid at meeting-length stride from the window start; a candidate survives
// only if slot end fits in the window and no existing meeting overlaps it.
// Overlapping windows are tiled independently, so they can contribute
// near-duplicate slots; slots within a day are sorted by start time.
// The function is pure: fixed inputs always yield the same output.
func ComputeSlots(link *model.SchedulingLink, windows []model.TimeWindow, now time.Time, meetings []model.Meeting) []DayAvailability {
	length := time.Duration(link.MeetingLengthMin) * time.Minute
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var days []DayAvailability
	for offset := 0; offset <= link.AdvanceScheduleDays; offset++ {
		day := today.AddDate(0, 0, offset)
		weekday := int(day.Weekday())

		var slots []Slot
		for _, w := range windows {
			if w.Weekday != weekday {
				continue
			}
			for m := w.StartMinute; m+link.MeetingLengthMin <= w.EndMinute; m += link.MeetingLengthMin {
				start := day.Add(time.Duration(m) * time.Minute)
				end := start.Add(length)
				if overlapsAny(meetings, start, end) {
					continue
				}
				slots = append(slots, Slot{Start: start, End: end})
			}
		}
		if len(slots) == 0 {
			continue
		}

		sort.SliceStable(slots, func(i, j int) bool {
			return slots[i].Start.Before(slots[j].Start)
		})
		days = append(days, DayAvailability{
			Date:  day.Format("2006-01-02"),
			Slots: slots,
		})
	}

	return days
}

func overlapsAny(meetings []model.Meeting, start, end time.Time) bool {
	for i := range meetings {
		if meetings[i].Overlaps(start, end) {
			return true
		}
	}
	return false
}

// SchedulePayload is the public availability view of a scheduling link.
type SchedulePayload struct {
	LinkToken     string            `json:"link_token"`
	AdvisorName   string            `json:"advisor_name"`
	MeetingLength int               `json:"meeting_length"`
	Questions     []string          `json:"questions"`
	Days          []DayAvailability `json:"days"`
}

// AvailabilityService computes the public schedule view for a link.
type AvailabilityService interface {
	LinkSchedule(ctx context.Context, token string) (*SchedulePayload, error)
}

type availabilityService struct {
	links    repository.LinkRepository
	windows  repository.WindowRepository
	meetings repository.MeetingRepository
	advisors repository.AdvisorRepository
	tokens   *TokenFilter
	cache    *SlotCache
	logger   *zap.Logger
	now      func() time.Time
}

// AvailabilityDeps groups dependencies for the availability service. TokenFilter,
// SlotCache and Logger are optional.
type AvailabilityDeps struct {
	Links    repository.LinkRepository
	Windows  repository.WindowRepository
	Meetings repository.MeetingRepository
	Advisors repository.AdvisorRepository
	Tokens   *TokenFilter
	Cache    *SlotCache
	Logger   *zap.Logger
}

// NewAvailabilityService returns an availability service backed by the given
// repositories.
func NewAvailabilityService(deps AvailabilityDeps) AvailabilityService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &availabilityService{
		links:    deps.Links,
		windows:  deps.Windows,
		meetings: deps.Meetings,
		advisors: deps.Advisors,
		tokens:   deps.Tokens,
		cache:    deps.Cache,
		logger:   logger,
		now:      time.Now,
	}
}

// LinkSchedule loads the link, its advisor's windows and a snapshot of
// existing meetings over the horizon, and computes the bookable slots.
// Reads take no lock; staleness between the schedule shown and a later booking
// attempt is resolved by the booking-time conflict check. Expired and
// exhausted links still resolve here but are reported as errors so callers
// can explain why the link is closed; the booking transactor remains the
// write-time enforcement point.
func (s *availabilityService) LinkSchedule(ctx context.Context, token string) (*SchedulePayload, error) {
	if s.tokens != nil && !s.tokens.MightContain(token) {
		return nil, repository.ErrLinkNotFound
	}

	if payload := s.cache.Get(ctx, token); payload != nil {
		return payload, nil
	}

	link, err := s.links.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if link.Expired(now) {
		return nil, repository.ErrLinkExpired
	}
	if link.Exhausted() {
		return nil, repository.ErrLinkExhausted
	}

	windows, err := s.windows.ListByAdvisor(ctx, link.AdvisorID)
	if err != nil {
		return nil, err
	}

	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, link.AdvanceScheduleDays+1)
	meetings, err := s.meetings.ListByLink(ctx, token, from, to)
	if err != nil {
		return nil, err
	}

	advisorName := "Advisor"
	if advisor, err := s.advisors.GetByID(ctx, link.AdvisorID); err == nil {
		advisorName = advisor.Name
	}

	metrics.ScheduleComputations.Inc()

	payload := &SchedulePayload{
		LinkToken:     link.Token,
		AdvisorName:   advisorName,
		MeetingLength: link.MeetingLengthMin,
		Questions:     link.Questions,
		Days:          ComputeSlots(link, windows, now, meetings),
	}

	s.cache.Set(ctx, token, payload)
	return payload, nil
}

// SlotCache keeps rendered schedule payloads in Redis for a short TTL so
// hot public links do not hammer Postgres. A nil cache is a no-op.
type SlotCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewSlotCache returns a Redis-backed schedule payload cache.
func NewSlotCache(client *redis.Client, logger *zap.Logger) *SlotCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SlotCache{client: client, ttl: availabilityCacheTTL, logger: logger}
}

func (c *SlotCache) key(token string) string {
	return "availability:" + token
}

// Get returns a cached payload, or nil on miss or any Redis error.
func (c *SlotCache) Get(ctx context.Context, token string) *SchedulePayload {
	if c == nil || c.client == nil {
		return nil
	}
	data, err := c.client.Get(ctx, c.key(token)).Bytes()
	if err != nil {
		return nil
	}
	var payload SchedulePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		c.logger.Warn("failed to decode cached schedule", zap.String("token", token), zap.Error(err))
		return nil
	}
	return &payload
}

// Set stores a payload with the cache TTL. Failures are logged and ignored.
func (c *SlotCache) Set(ctx context.Context, token string, payload *SchedulePayload) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(token), data, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to cache schedule", zap.String("token", token), zap.Error(err))
	}
}

// Invalidate drops the cached payload for a token, typically after a booking
// consumed one of its slots.
func (c *SlotCache) Invalidate(ctx context.Context, token string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, c.key(token)).Err(); err != nil {
		c.logger.Warn("failed to invalidate schedule cache", zap.String("token", token), zap.Error(err))
	}
}
