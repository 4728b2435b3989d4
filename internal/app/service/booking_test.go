package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jmadden452/SlotLink/internal/app/model"
	"github.com/jmadden452/SlotLink/internal/app/repository"
)

type mockPublisher struct {
	publishFn func(meeting *model.Meeting, advisorEmail string) error
}

func (m *mockPublisher) Publish(meeting *model.Meeting, advisorEmail string) error {
	if m.publishFn != nil {
		return m.publishFn(meeting, advisorEmail)
	}
	return nil
}

func newTestBookingService(deps BookingDeps, now time.Time) BookingService {
	svc := NewBookingService(deps).(*bookingService)
	svc.now = func() time.Time { return now }
	return svc
}

func openLink(token string) *model.SchedulingLink {
	return &model.SchedulingLink{
		ID:               1,
		AdvisorID:        7,
		Token:            token,
		MeetingLengthMin: 30,
	}
}

func linkRepoReturning(link *model.SchedulingLink) *mockLinkRepository {
	return &mockLinkRepository{
		getByTokenFn: func(ctx context.Context, token string) (*model.SchedulingLink, error) {
			copied := *link
			return &copied, nil
		},
	}
}

func TestBook_MissingFields(t *testing.T) {
	svc := newTestBookingService(BookingDeps{
		Links:    &mockLinkRepository{},
		Meetings: &mockMeetingRepository{},
		Advisors: &mockAdvisorRepository{},
	}, monday)

	cases := []BookingInput{
		{Start: monday, ClientEmail: "a@b.com"},
		{LinkToken: "tok", ClientEmail: "a@b.com"},
		{LinkToken: "tok", Start: monday},
	}
	for _, input := range cases {
		if _, err := svc.Book(context.Background(), input); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument for %+v, got %v", input, err)
		}
	}
}

func TestBook_LinkNotFound(t *testing.T) {
	svc := newTestBookingService(BookingDeps{
		Links:    &mockLinkRepository{},
		Meetings: &mockMeetingRepository{},
		Advisors: &mockAdvisorRepository{},
	}, monday)

	_, err := svc.Book(context.Background(), BookingInput{
		LinkToken:   "missing",
		Start:       monday,
		ClientEmail: "client@example.com",
	})
	if !errors.Is(err, repository.ErrLinkNotFound) {
		t.Fatalf("expected ErrLinkNotFound, got %v", err)
	}
}

func TestBook_ExpiredBeforeExhausted(t *testing.T) {
	// A link that is both expired and exhausted must report expiry first.
	expired := monday.Add(-time.Hour)
	zero := 0
	link := openLink("tok")
	link.ExpiresAt = &expired
	link.UsageLimit = &zero

	booked := false
	svc := newTestBookingService(BookingDeps{
		Links: linkRepoReturning(link),
		Meetings: &mockMeetingRepository{
			bookFn: func(ctx context.Context, meeting *model.Meeting) error {
				booked = true
				return nil
			},
		},
		Advisors: &mockAdvisorRepository{},
	}, monday)

	_, err := svc.Book(context.Background(), BookingInput{
		LinkToken:   "tok",
		Start:       monday,
		ClientEmail: "client@example.com",
	})
	if !errors.Is(err, repository.ErrLinkExpired) {
		t.Fatalf("expected ErrLinkExpired, got %v", err)
	}
	if booked {
		t.Fatal("expected no booking attempt on an expired link")
	}
}

func TestBook_ExhaustedLink(t *testing.T) {
	zero := 0
	link := openLink("tok")
	link.UsageLimit = &zero

	svc := newTestBookingService(BookingDeps{
		Links:    linkRepoReturning(link),
		Meetings: &mockMeetingRepository{},
		Advisors: &mockAdvisorRepository{},
	}, monday)

	_, err := svc.Book(context.Background(), BookingInput{
		LinkToken:   "tok",
		Start:       monday,
		ClientEmail: "client@example.com",
	})
	if !errors.Is(err, repository.ErrLinkExhausted) {
		t.Fatalf("expected ErrLinkExhausted, got %v", err)
	}
}

func TestBook_EndMismatch(t *testing.T) {
	svc := newTestBookingService(BookingDeps{
		Links:    linkRepoReturning(openLink("tok")),
		Meetings: &mockMeetingRepository{},
		Advisors: &mockAdvisorRepository{},
	}, monday)

	_, err := svc.Book(context.Background(), BookingInput{
		LinkToken:   "tok",
		Start:       monday,
		End:         monday.Add(45 * time.Minute),
		ClientEmail: "client@example.com",
	})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for mismatched end, got %v", err)
	}
}

func TestBook_TooManyAnswers(t *testing.T) {
	link := openLink("tok")
	link.Questions = []string{"one"}

	svc := newTestBookingService(BookingDeps{
		Links:    linkRepoReturning(link),
		Meetings: &mockMeetingRepository{},
		Advisors: &mockAdvisorRepository{},
	}, monday)

	_, err := svc.Book(context.Background(), BookingInput{
		LinkToken:   "tok",
		Start:       monday,
		ClientEmail: "client@example.com",
		Answers:     []string{"a", "b"},
	})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for excess answers, got %v", err)
	}
}

func TestBook_SlotConflict(t *testing.T) {
	svc := newTestBookingService(BookingDeps{
		Links: linkRepoReturning(openLink("tok")),
		Meetings: &mockMeetingRepository{
			bookFn: func(ctx context.Context, meeting *model.Meeting) error {
				return repository.ErrSlotTaken
			},
		},
		Advisors: &mockAdvisorRepository{},
	}, monday)

	_, err := svc.Book(context.Background(), BookingInput{
		LinkToken:   "tok",
		Start:       monday,
		ClientEmail: "client@example.com",
	})
	if !errors.Is(err, repository.ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}
}

func TestBook_DerivesEndAndStoresEnrichment(t *testing.T) {
	notes := "long-time client"
	summary := "engineering manager"

	var stored *model.Meeting
	svc := newTestBookingService(BookingDeps{
		Links: linkRepoReturning(openLink("tok")),
		Meetings: &mockMeetingRepository{
			bookFn: func(ctx context.Context, meeting *model.Meeting) error {
				stored = meeting
				return nil
			},
		},
		Advisors: &mockAdvisorRepository{},
	}, monday)

	meeting, err := svc.Book(context.Background(), BookingInput{
		LinkToken:   "tok",
		Start:       monday,
		ClientEmail: "client@example.com",
		Answers:     []string{},
		Enrichment:  Enrichment{CRMNotes: &notes, ProfileSummary: &summary},
	})
	if err != nil {
		t.Fatalf("Book error: %v", err)
	}
	if stored == nil {
		t.Fatal("expected meeting to reach the repository")
	}
	if !meeting.EndTime.Equal(monday.Add(30 * time.Minute)) {
		t.Fatalf("expected end derived from meeting length, got %v", meeting.EndTime)
	}
	if meeting.CRMNotes == nil || *meeting.CRMNotes != notes {
		t.Fatal("expected CRM notes to be stored verbatim")
	}
	if meeting.ProfileSummary == nil || *meeting.ProfileSummary != summary {
		t.Fatal("expected profile summary to be stored verbatim")
	}
	if meeting.AdvisorID != 7 {
		t.Fatalf("expected advisor id from link, got %d", meeting.AdvisorID)
	}
}

func TestBook_PublishFailureDoesNotFailBooking(t *testing.T) {
	svc := newTestBookingService(BookingDeps{
		Links:    linkRepoReturning(openLink("tok")),
		Meetings: &mockMeetingRepository{},
		Advisors: &mockAdvisorRepository{},
		Publisher: &mockPublisher{
			publishFn: func(meeting *model.Meeting, advisorEmail string) error {
				return errors.New("broker down")
			},
		},
	}, monday)

	_, err := svc.Book(context.Background(), BookingInput{
		LinkToken:   "tok",
		Start:       monday,
		ClientEmail: "client@example.com",
	})
	if err != nil {
		t.Fatalf("expected booking to succeed despite publish failure, got %v", err)
	}
}

// memoryMeetingStore emulates the transactional booking unit: one mutex plays
// the role of the row lock, so concurrent Book calls serialize exactly as they
// would against Postgres.
type memoryMeetingStore struct {
	mu         sync.Mutex
	usageLimit *int
	meetings   []model.Meeting
}

func (s *memoryMeetingStore) Book(ctx context.Context, meeting *model.Meeting) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.usageLimit != nil && *s.usageLimit <= 0 {
		return repository.ErrLinkExhausted
	}
	for i := range s.meetings {
		if s.meetings[i].Overlaps(meeting.StartTime, meeting.EndTime) {
			return repository.ErrSlotTaken
		}
	}

	s.meetings = append(s.meetings, *meeting)
	if s.usageLimit != nil {
		*s.usageLimit--
	}
	return nil
}

func (s *memoryMeetingStore) ListByLink(ctx context.Context, token string, from, to time.Time) ([]model.Meeting, error) {
	return nil, nil
}

func (s *memoryMeetingStore) ListByAdvisor(ctx context.Context, advisorID int64) ([]model.Meeting, error) {
	return nil, nil
}

func TestBook_ConcurrentSameSlotSingleWinner(t *testing.T) {
	store := &memoryMeetingStore{}
	svc := newTestBookingService(BookingDeps{
		Links:    linkRepoReturning(openLink("tok")),
		Meetings: store,
		Advisors: &mockAdvisorRepository{},
	}, monday)

	const attempts = 8
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Book(context.Background(), BookingInput{
				LinkToken:   "tok",
				Start:       monday,
				ClientEmail: "client@example.com",
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var committed, conflicts int
	for err := range results {
		switch {
		case err == nil:
			committed++
		case errors.Is(err, repository.ErrSlotTaken):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if committed != 1 {
		t.Fatalf("expected exactly 1 committed booking, got %d", committed)
	}
	if conflicts != attempts-1 {
		t.Fatalf("expected %d conflicts, got %d", attempts-1, conflicts)
	}
}

func TestBook_ConcurrentDisjointSlotsHonorUsageLimit(t *testing.T) {
	const limit = 3
	remaining := limit
	store := &memoryMeetingStore{usageLimit: &remaining}

	link := openLink("tok")
	usage := limit
	link.UsageLimit = &usage

	svc := newTestBookingService(BookingDeps{
		Links:    linkRepoReturning(link),
		Meetings: store,
		Advisors: &mockAdvisorRepository{},
	}, monday)

	const attempts = 8
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		start := monday.Add(time.Duration(i) * time.Hour)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Book(context.Background(), BookingInput{
				LinkToken:   "tok",
				Start:       start,
				ClientEmail: "client@example.com",
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var committed, exhausted int
	for err := range results {
		switch {
		case err == nil:
			committed++
		case errors.Is(err, repository.ErrLinkExhausted):
			exhausted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if committed != limit {
		t.Fatalf("expected exactly %d committed bookings, got %d", limit, committed)
	}
	if exhausted != attempts-limit {
		t.Fatalf("expected %d exhausted rejections, got %d", attempts-limit, exhausted)
	}
	if len(store.meetings) != limit {
		t.Fatalf("expected %d stored meetings, got %d", limit, len(store.meetings))
	}
}
