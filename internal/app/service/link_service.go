package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmadden452/SlotLink/internal/app/model"
	"github.com/jmadden452/SlotLink/internal/app/repository"
)

// LinkService defines behaviour-level operations on scheduling links.
type LinkService interface {
	CreateLink(ctx context.Context, advisorID int64, input CreateLinkInput) (*model.SchedulingLink, error)
	ListLinks(ctx context.Context, advisorID int64) ([]model.SchedulingLink, error)
	Directory(ctx context.Context) ([]AdvisorDirectoryEntry, error)
	SeedTokenFilter(ctx context.Context) error
}

// CreateLinkInput captures data required to create a scheduling link.
type CreateLinkInput struct {
	UsageLimit          *int
	ExpiresAt           *time.Time
	MeetingLengthMin    int
	AdvanceScheduleDays int
	Questions           []string
}

// AdvisorDirectoryEntry groups an advisor's public links for the directory
// listing.
type AdvisorDirectoryEntry struct {
	AdvisorName  string                 `json:"advisor_name"`
	AdvisorEmail string                 `json:"advisor_email"`
	Links        []model.SchedulingLink `json:"links"`
}

type linkService struct {
	links    repository.LinkRepository
	advisors repository.AdvisorRepository
	tokens   *TokenFilter
}

// NewLinkService returns a service implementation backed by the given
// repositories. The token filter is optional.
func NewLinkService(links repository.LinkRepository, advisors repository.AdvisorRepository, tokens *TokenFilter) LinkService {
	return &linkService{links: links, advisors: advisors, tokens: tokens}
}

func (s *linkService) CreateLink(ctx context.Context, advisorID int64, input CreateLinkInput) (*model.SchedulingLink, error) {
	if input.MeetingLengthMin < 1 {
		return nil, ErrInvalidArgument
	}
	if input.AdvanceScheduleDays < 0 {
		return nil, ErrInvalidArgument
	}
	if input.UsageLimit != nil && *input.UsageLimit < 1 {
		return nil, ErrInvalidArgument
	}

	questions := input.Questions
	if questions == nil {
		questions = []string{}
	}

	link := &model.SchedulingLink{
		AdvisorID:           advisorID,
		Token:               uuid.New().String(),
		UsageLimit:          input.UsageLimit,
		ExpiresAt:           input.ExpiresAt,
		MeetingLengthMin:    input.MeetingLengthMin,
		AdvanceScheduleDays: input.AdvanceScheduleDays,
		Questions:           questions,
	}

	if err := s.links.Create(ctx, link); err != nil {
		return nil, fmt.Errorf("create link: %w", err)
	}

	if s.tokens != nil {
		s.tokens.Add(link.Token)
	}
	return link, nil
}

func (s *linkService) ListLinks(ctx context.Context, advisorID int64) ([]model.SchedulingLink, error) {
	links, err := s.links.ListByAdvisor(ctx, advisorID)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	return links, nil
}

// Directory returns every link grouped by its advisor, for the public
// listing page.
func (s *linkService) Directory(ctx context.Context) ([]AdvisorDirectoryEntry, error) {
	links, err := s.links.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all links: %w", err)
	}

	var entries []AdvisorDirectoryEntry
	index := make(map[int64]int)
	for _, link := range links {
		pos, ok := index[link.AdvisorID]
		if !ok {
			advisor, err := s.advisors.GetByID(ctx, link.AdvisorID)
			if err != nil {
				continue
			}
			pos = len(entries)
			index[link.AdvisorID] = pos
			entries = append(entries, AdvisorDirectoryEntry{
				AdvisorName:  advisor.Name,
				AdvisorEmail: advisor.Email,
			})
		}
		entries[pos].Links = append(entries[pos].Links, link)
	}

	return entries, nil
}

// SeedTokenFilter loads every issued token into the bloom prefilter. Called
// once at startup.
func (s *linkService) SeedTokenFilter(ctx context.Context) error {
	if s.tokens == nil {
		return nil
	}

	links, err := s.links.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("seed token filter: %w", err)
	}

	tokens := make([]string, 0, len(links))
	for _, link := range links {
		tokens = append(tokens, link.Token)
	}
	s.tokens.Seed(tokens)
	return nil
}
