package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const enrichmentTimeout = 3 * time.Second

// Enrichment holds optional booking context resolved from external contact
// data. Both fields may be nil; absence and lookup failure are
// indistinguishable downstream.
type Enrichment struct {
	CRMNotes       *string
	ProfileSummary *string
}

// Empty reports whether the enrichment carries no material.
func (e Enrichment) Empty() bool {
	return e.CRMNotes == nil && e.ProfileSummary == nil
}

// EnrichmentSource looks up booking context for a client in one external
// system. Implementations live at the collaborator boundary; the core never
// calls external services directly.
type EnrichmentSource interface {
	Name() string
	Lookup(ctx context.Context, email string, profileURL *string) (Enrichment, error)
}

// EnrichmentPipeline evaluates an explicit, ranked source list once per
// booking. The first source that yields material wins; errors and empty
// results fall through to the next source. The pipeline is strictly best
// effort: it is bounded by a timeout and can only ever return an empty
// Enrichment, never an error.
type EnrichmentPipeline struct {
	sources []EnrichmentSource
	timeout time.Duration
	logger  *zap.Logger
}

// NewEnrichmentPipeline builds a pipeline over the given sources, ranked
// highest priority first.
func NewEnrichmentPipeline(logger *zap.Logger, sources ...EnrichmentSource) *EnrichmentPipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrichmentPipeline{
		sources: sources,
		timeout: enrichmentTimeout,
		logger:  logger,
	}
}

// Resolve walks the ranked source list and returns the first non-empty
// enrichment, or an empty one when every source fails or has nothing.
func (p *EnrichmentPipeline) Resolve(ctx context.Context, email string, profileURL *string) Enrichment {
	if p == nil {
		return Enrichment{}
	}

	for _, src := range p.sources {
		lookupCtx, cancel := context.WithTimeout(ctx, p.timeout)
		result, err := src.Lookup(lookupCtx, email, profileURL)
		cancel()

		if err != nil {
			p.logger.Debug("enrichment source failed",
				zap.String("source", src.Name()),
				zap.String("email", email),
				zap.Error(err),
			)
			continue
		}
		if result.Empty() {
			continue
		}

		p.logger.Debug("enrichment resolved",
			zap.String("source", src.Name()),
			zap.String("email", email),
		)
		return result
	}

	return Enrichment{}
}
