package service

import (
	"context"
	"errors"
	"testing"
)

type stubSource struct {
	name   string
	result Enrichment
	err    error
	calls  int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Lookup(ctx context.Context, email string, profileURL *string) (Enrichment, error) {
	s.calls++
	return s.result, s.err
}

func strptr(s string) *string { return &s }

func TestEnrichmentPipeline_FirstNonEmptyWins(t *testing.T) {
	crm := &stubSource{name: "crm", result: Enrichment{CRMNotes: strptr("met at conference")}}
	profile := &stubSource{name: "profile", result: Enrichment{ProfileSummary: strptr("engineer")}}

	pipeline := NewEnrichmentPipeline(nil, crm, profile)
	result := pipeline.Resolve(context.Background(), "client@example.com", nil)

	if result.CRMNotes == nil || *result.CRMNotes != "met at conference" {
		t.Fatal("expected first-ranked source to win")
	}
	if result.ProfileSummary != nil {
		t.Fatal("expected lower-ranked source to be ignored")
	}
	if profile.calls != 0 {
		t.Fatalf("expected profile source untouched, got %d calls", profile.calls)
	}
}

func TestEnrichmentPipeline_FallsThroughErrorsAndEmpties(t *testing.T) {
	failing := &stubSource{name: "crm", err: errors.New("timeout")}
	empty := &stubSource{name: "directory"}
	profile := &stubSource{name: "profile", result: Enrichment{ProfileSummary: strptr("engineer")}}

	pipeline := NewEnrichmentPipeline(nil, failing, empty, profile)
	result := pipeline.Resolve(context.Background(), "client@example.com", nil)

	if result.ProfileSummary == nil || *result.ProfileSummary != "engineer" {
		t.Fatal("expected fallback source to win")
	}
	if failing.calls != 1 || empty.calls != 1 {
		t.Fatal("expected every earlier source to be consulted once")
	}
}

func TestEnrichmentPipeline_AllSourcesEmpty(t *testing.T) {
	pipeline := NewEnrichmentPipeline(nil, &stubSource{name: "a"}, &stubSource{name: "b"})
	result := pipeline.Resolve(context.Background(), "client@example.com", nil)
	if !result.Empty() {
		t.Fatal("expected empty enrichment")
	}
}

func TestEnrichmentPipeline_NilPipeline(t *testing.T) {
	var pipeline *EnrichmentPipeline
	result := pipeline.Resolve(context.Background(), "client@example.com", nil)
	if !result.Empty() {
		t.Fatal("expected nil pipeline to resolve empty")
	}
}

func TestEnrichment_Empty(t *testing.T) {
	if !(Enrichment{}).Empty() {
		t.Fatal("expected zero enrichment to be empty")
	}
	if (Enrichment{CRMNotes: strptr("x")}).Empty() {
		t.Fatal("expected enrichment with notes to be non-empty")
	}
	if (Enrichment{ProfileSummary: strptr("y")}).Empty() {
		t.Fatal("expected enrichment with summary to be non-empty")
	}
}
