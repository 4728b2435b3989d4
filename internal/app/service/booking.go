package service

import (
	"context"
	"errors"
	"time"

	"github.com/jmadden452/SlotLink/internal/app/model"
	"github.com/jmadden452/SlotLink/internal/app/repository"
	"github.com/jmadden452/SlotLink/internal/infra/metrics"
	"go.uber.org/zap"
)

var (
	// ErrInvalidArgument signals a request that fails policy validation
	// before any persistence side effect.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidRange signals a window whose start does not precede its end.
	ErrInvalidRange = errors.New("start time must be before end time")
)

// BookingInput carries a booking attempt from an external client. End may be
// zero, in which case it is derived from the link's meeting length; when set
// it must match exactly. Enrichment fields arrive pre-resolved by the
// enrichment pipeline and are stored verbatim.
type BookingInput struct {
	LinkToken        string
	Start            time.Time
	End              time.Time
	ClientEmail      string
	ClientProfileURL *string
	Answers          []string
	Enrichment       Enrichment
}

// EventPublisher emits post-commit booking events. Implementations must not
// be able to fail the booking: errors are logged and dropped.
type EventPublisher interface {
	Publish(meeting *model.Meeting, advisorEmail string) error
}

// BookingService validates and atomically commits bookings against a link.
type BookingService interface {
	Book(ctx context.Context, input BookingInput) (*model.Meeting, error)
}

type bookingService struct {
	links     repository.LinkRepository
	meetings  repository.MeetingRepository
	advisors  repository.AdvisorRepository
	publisher EventPublisher
	cache     *SlotCache
	logger    *zap.Logger
	now       func() time.Time
}

// BookingDeps groups dependencies for the booking service. Publisher and
// Cache are optional.
type BookingDeps struct {
	Links     repository.LinkRepository
	Meetings  repository.MeetingRepository
	Advisors  repository.AdvisorRepository
	Publisher EventPublisher
	Cache     *SlotCache
	Logger    *zap.Logger
}

// NewBookingService returns the booking transactor.
func NewBookingService(deps BookingDeps) BookingService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &bookingService{
		links:     deps.Links,
		meetings:  deps.Meetings,
		advisors:  deps.Advisors,
		publisher: deps.Publisher,
		cache:     deps.Cache,
		logger:    logger,
		now:       time.Now,
	}
}

// Book runs the precondition chain in order (link exists, not expired, usage
// remaining, slot free; first failure wins) and commits the meeting together
// with the usage decrement as one storage transaction. A prior availability
// read is never trusted: the checks run again here against current state.
// Notification and cache invalidation happen strictly after commit and cannot
// fail the booking.
func (s *bookingService) Book(ctx context.Context, input BookingInput) (*model.Meeting, error) {
	if input.LinkToken == "" || input.ClientEmail == "" || input.Start.IsZero() {
		return nil, ErrInvalidArgument
	}

	link, err := s.links.GetByToken(ctx, input.LinkToken)
	if err != nil {
		s.reject(err)
		return nil, err
	}

	now := s.now()
	if link.Expired(now) {
		s.reject(repository.ErrLinkExpired)
		return nil, repository.ErrLinkExpired
	}
	if link.Exhausted() {
		s.reject(repository.ErrLinkExhausted)
		return nil, repository.ErrLinkExhausted
	}

	end := input.Start.Add(time.Duration(link.MeetingLengthMin) * time.Minute)
	if !input.End.IsZero() && !input.End.Equal(end) {
		return nil, ErrInvalidArgument
	}
	if len(input.Answers) > len(link.Questions) {
		return nil, ErrInvalidArgument
	}

	meeting := &model.Meeting{
		AdvisorID:        link.AdvisorID,
		LinkToken:        link.Token,
		StartTime:        input.Start,
		EndTime:          end,
		ClientEmail:      input.ClientEmail,
		ClientProfileURL: input.ClientProfileURL,
		Answers:          input.Answers,
		CRMNotes:         input.Enrichment.CRMNotes,
		ProfileSummary:   input.Enrichment.ProfileSummary,
	}

	if err := s.meetings.Book(ctx, meeting); err != nil {
		s.reject(err)
		return nil, err
	}

	metrics.BookingsCommitted.Inc()
	s.logger.Info("meeting booked",
		zap.String("link_token", meeting.LinkToken),
		zap.Int64("meeting_id", meeting.ID),
		zap.Time("start", meeting.StartTime),
		zap.String("client_email", meeting.ClientEmail),
	)

	s.cache.Invalidate(ctx, meeting.LinkToken)
	s.publish(ctx, meeting)

	return meeting, nil
}

// publish emits the post-commit booking event. Best effort only.
func (s *bookingService) publish(ctx context.Context, meeting *model.Meeting) {
	if s.publisher == nil {
		return
	}

	advisorEmail := ""
	if advisor, err := s.advisors.GetByID(ctx, meeting.AdvisorID); err == nil {
		advisorEmail = advisor.Email
	}

	if err := s.publisher.Publish(meeting, advisorEmail); err != nil {
		s.logger.Warn("failed to publish booking event",
			zap.Int64("meeting_id", meeting.ID),
			zap.Error(err),
		)
	}
}

func (s *bookingService) reject(err error) {
	switch {
	case errors.Is(err, repository.ErrLinkNotFound):
		metrics.BookingsRejected.WithLabelValues("not_found").Inc()
	case errors.Is(err, repository.ErrLinkExpired):
		metrics.BookingsRejected.WithLabelValues("expired").Inc()
	case errors.Is(err, repository.ErrLinkExhausted):
		metrics.BookingsRejected.WithLabelValues("limit_reached").Inc()
	case errors.Is(err, repository.ErrSlotTaken):
		metrics.BookingsRejected.WithLabelValues("slot_conflict").Inc()
	default:
		metrics.BookingsRejected.WithLabelValues("internal").Inc()
	}
}
