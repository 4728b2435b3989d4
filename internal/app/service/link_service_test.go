package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmadden452/SlotLink/internal/app/model"
)

func TestLinkService_CreateLink(t *testing.T) {
	filter := NewTokenFilter()
	repo := &mockLinkRepository{
		createFn: func(ctx context.Context, link *model.SchedulingLink) error {
			if link.Token == "" {
				t.Fatal("expected token to be set")
			}
			if link.AdvisorID != 7 {
				t.Fatalf("expected advisor 7, got %d", link.AdvisorID)
			}
			link.ID = 1
			return nil
		},
	}

	svc := NewLinkService(repo, &mockAdvisorRepository{}, filter)
	link, err := svc.CreateLink(context.Background(), 7, CreateLinkInput{
		MeetingLengthMin:    30,
		AdvanceScheduleDays: 14,
	})
	if err != nil {
		t.Fatalf("CreateLink error: %v", err)
	}
	if link.Questions == nil || len(link.Questions) != 0 {
		t.Fatal("expected nil questions to normalize to an empty list")
	}
	if !filter.MightContain(link.Token) {
		t.Fatal("expected new token in the prefilter")
	}
}

func TestLinkService_CreateLink_Validation(t *testing.T) {
	svc := NewLinkService(&mockLinkRepository{}, &mockAdvisorRepository{}, nil)

	zero := 0
	cases := []struct {
		name  string
		input CreateLinkInput
	}{
		{"zero meeting length", CreateLinkInput{MeetingLengthMin: 0}},
		{"negative horizon", CreateLinkInput{MeetingLengthMin: 30, AdvanceScheduleDays: -1}},
		{"zero usage limit", CreateLinkInput{MeetingLengthMin: 30, UsageLimit: &zero}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateLink(context.Background(), 7, tc.input)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestLinkService_CreateLink_KeepsPolicyFields(t *testing.T) {
	expires := time.Now().Add(24 * time.Hour)
	limit := 5

	var stored *model.SchedulingLink
	repo := &mockLinkRepository{
		createFn: func(ctx context.Context, link *model.SchedulingLink) error {
			stored = link
			return nil
		},
	}

	svc := NewLinkService(repo, &mockAdvisorRepository{}, nil)
	_, err := svc.CreateLink(context.Background(), 7, CreateLinkInput{
		UsageLimit:          &limit,
		ExpiresAt:           &expires,
		MeetingLengthMin:    45,
		AdvanceScheduleDays: 7,
		Questions:           []string{"Goals?"},
	})
	if err != nil {
		t.Fatalf("CreateLink error: %v", err)
	}
	if stored.UsageLimit == nil || *stored.UsageLimit != 5 {
		t.Fatal("expected usage limit to persist")
	}
	if stored.ExpiresAt == nil || !stored.ExpiresAt.Equal(expires) {
		t.Fatal("expected expiration to persist")
	}
	if len(stored.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(stored.Questions))
	}
}

func TestLinkService_Directory_GroupsByAdvisor(t *testing.T) {
	links := &mockLinkRepository{
		listAllFn: func(ctx context.Context) ([]model.SchedulingLink, error) {
			return []model.SchedulingLink{
				{AdvisorID: 1, Token: "a1"},
				{AdvisorID: 2, Token: "b1"},
				{AdvisorID: 1, Token: "a2"},
			}, nil
		},
	}
	advisors := &mockAdvisorRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.Advisor, error) {
			if id == 1 {
				return &model.Advisor{ID: 1, Name: "Alice", Email: "alice@example.com"}, nil
			}
			return &model.Advisor{ID: 2, Name: "Bob", Email: "bob@example.com"}, nil
		},
	}

	svc := NewLinkService(links, advisors, nil)
	entries, err := svc.Directory(context.Background())
	if err != nil {
		t.Fatalf("Directory error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 advisors, got %d", len(entries))
	}
	if entries[0].AdvisorName != "Alice" || len(entries[0].Links) != 2 {
		t.Fatalf("expected Alice with 2 links, got %s with %d", entries[0].AdvisorName, len(entries[0].Links))
	}
	if entries[1].AdvisorName != "Bob" || len(entries[1].Links) != 1 {
		t.Fatalf("expected Bob with 1 link, got %s with %d", entries[1].AdvisorName, len(entries[1].Links))
	}
}

func TestLinkService_Directory_SkipsOrphanedLinks(t *testing.T) {
	links := &mockLinkRepository{
		listAllFn: func(ctx context.Context) ([]model.SchedulingLink, error) {
			return []model.SchedulingLink{{AdvisorID: 99, Token: "orphan"}}, nil
		},
	}

	svc := NewLinkService(links, &mockAdvisorRepository{}, nil)
	entries, err := svc.Directory(context.Background())
	if err != nil {
		t.Fatalf("Directory error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected orphaned link dropped, got %d entries", len(entries))
	}
}

func TestLinkService_SeedTokenFilter(t *testing.T) {
	filter := NewTokenFilter()
	links := &mockLinkRepository{
		listAllFn: func(ctx context.Context) ([]model.SchedulingLink, error) {
			return []model.SchedulingLink{{Token: "tok-1"}, {Token: "tok-2"}}, nil
		},
	}

	svc := NewLinkService(links, &mockAdvisorRepository{}, filter)
	if err := svc.SeedTokenFilter(context.Background()); err != nil {
		t.Fatalf("SeedTokenFilter error: %v", err)
	}
	if !filter.MightContain("tok-1") || !filter.MightContain("tok-2") {
		t.Fatal("expected seeded tokens in the prefilter")
	}
}

func TestLinkService_ListLinks(t *testing.T) {
	links := &mockLinkRepository{
		listByAdvisorFn: func(ctx context.Context, advisorID int64) ([]model.SchedulingLink, error) {
			return []model.SchedulingLink{{Token: "a"}, {Token: "b"}}, nil
		},
	}

	svc := NewLinkService(links, &mockAdvisorRepository{}, nil)
	list, err := svc.ListLinks(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListLinks error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 links, got %d", len(list))
	}
}

func TestTokenFilter_FreshTokenVisibleWithoutReseed(t *testing.T) {
	filter := NewTokenFilter()
	filter.Seed([]string{"existing"})
	filter.Add("fresh")

	if !filter.MightContain("existing") {
		t.Fatal("expected seeded token to be visible")
	}
	if !filter.MightContain("fresh") {
		t.Fatal("expected added token to be visible")
	}
}
