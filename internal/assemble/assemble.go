// Package assemble orchestrates the full digest pipeline: fetch, merge,
// dedupe, filter, rank, enrich, validate, and gate against previously
// sent content.
package assemble

import (
	"context"
	"time"

	"daily5/internal/core"
	"daily5/internal/dedupe"
	"daily5/internal/fetchers"
	"daily5/internal/logger"
	"daily5/internal/recency"
	"daily5/internal/relevance"
	"daily5/internal/templates"
	"daily5/internal/validate"
	"daily5/internal/verify"
)

// Enricher turns ranked raw candidates into reader-facing items.
type Enricher interface {
	Enrich(ctx context.Context, candidates []core.ScoredItem, profile core.UserProfile, evidence core.Evidence) ([]core.GeneratedItem, error)
}

// EvidenceSource supplies behavioral evidence for a user.
type EvidenceSource interface {
	UserEvidence(ctx context.Context, username string) core.Evidence
}

// Config bounds one assembly run.
type Config struct {
	Budget         time.Duration // Wall-clock budget for the whole run
	MaxAge         time.Duration // Recency window for fetched items
	TopK           int           // Candidates handed to enrichment
	EnrichRetries  int           // Extra enrichment attempts after a failed validation
	MaxConcurrency int           // Fetcher fan-out bound
	VerifyURLs     bool          // Gate the batch on URL reachability
	Strict         bool          // Promote all validation errors to hard rejects
}

func (c Config) withDefaults() Config {
	if c.Budget <= 0 {
		c.Budget = 90 * time.Second
	}
	if c.MaxAge <= 0 {
		c.MaxAge = 72 * time.Hour
	}
	if c.TopK <= 0 {
		c.TopK = 12
	}
	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = 5
	}
	return c
}

// Stats reports what happened during one run.
type Stats struct {
	Fetched        int
	SourcesOK      int
	SourcesFailed  int
	AfterCollapse  int
	AfterRecency   int
	EnrichAttempts int
	UsedFallback   bool
	DroppedAsSent  int
}

// Batch is the outcome of one assembly run. An empty Items slice with a
// non-empty Reason means the run degraded below the minimum batch size;
// that is a signal, not an error.
type Batch struct {
	Items      []core.GeneratedItem
	Validation core.ValidationResult
	Stats      Stats
	Reason     string
}

// Assembler wires the pipeline stages together.
type Assembler struct {
	fetchers  []fetchers.Fetcher
	dedupe    *dedupe.Manager
	validator *validate.Validator
	verifier  *verify.Verifier
	enricher  Enricher
	evidence  EvidenceSource
	cfg       Config
	now       func() time.Time
}

func NewAssembler(f []fetchers.Fetcher, d *dedupe.Manager, v *validate.Validator, vr *verify.Verifier, e Enricher, ev EvidenceSource, cfg Config) *Assembler {
	return &Assembler{
		fetchers:  f,
		dedupe:    d,
		validator: v,
		verifier:  vr,
		enricher:  e,
		evidence:  ev,
		cfg:       cfg.withDefaults(),
		now:       time.Now,
	}
}

// Assemble produces the Daily 5 for one user. Items are not recorded as
// sent here; call ConfirmDelivery after the email actually goes out.
func (a *Assembler) Assemble(ctx context.Context, profile core.UserProfile) (*Batch, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Budget)
	defer cancel()

	batch := &Batch{}

	var evidence core.Evidence
	if a.evidence != nil {
		evidence = a.evidence.UserEvidence(ctx, profile.GitHubUsername)
	}

	result := fetchers.FetchAll(ctx, a.fetchers, profile.Interests, a.cfg.MaxConcurrency)
	batch.Stats.Fetched = len(result.Items)
	batch.Stats.SourcesOK = result.SourcesOK
	batch.Stats.SourcesFailed = result.SourcesFailed

	items := dedupe.CollapseBatch(result.Items)
	batch.Stats.AfterCollapse = len(items)

	items = recency.Filter(items, a.cfg.MaxAge, a.now())
	batch.Stats.AfterRecency = len(items)

	ranked := relevance.Rank(items, profile.Interests)
	candidates := relevance.TopK(ranked, a.cfg.TopK)

	generated := a.generate(ctx, candidates, profile, evidence, batch)

	if a.cfg.VerifyURLs && a.verifier != nil && !batch.Stats.UsedFallback {
		verified := a.verifier.VerifyAll(ctx, generated)
		if !verified.AllVerified {
			logger.Warn("Batch failed URL verification, using fallback",
				"failed", len(verified.FailedItems))
			generated = a.fallback(profile, evidence, batch)
		}
	}

	before := len(generated)
	generated = a.dedupe.FilterNew(profile.Email, generated)
	batch.Stats.DroppedAsSent = before - len(generated)

	if len(generated) > validate.MaxBatchSize {
		generated = generated[:validate.MaxBatchSize]
	}
	if len(generated) < validate.MinBatchSize {
		batch.Reason = "fewer than the minimum publishable items after deduplication"
		logger.Warn("Assembly degraded to empty batch", "user", profile.Email, "items", len(generated))
		return batch, nil
	}

	batch.Items = generated
	return batch, nil
}

// generate runs enrichment with a retry budget and falls back to
// deterministic templates when no attempt validates.
func (a *Assembler) generate(ctx context.Context, candidates []core.ScoredItem, profile core.UserProfile, evidence core.Evidence, batch *Batch) []core.GeneratedItem {
	if a.enricher == nil || len(candidates) == 0 {
		return a.fallback(profile, evidence, batch)
	}

	attempts := a.cfg.EnrichRetries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			break
		}
		batch.Stats.EnrichAttempts++

		generated, err := a.enricher.Enrich(ctx, candidates, profile, evidence)
		if err != nil {
			logger.Warn("Enrichment failed", "attempt", attempt, "error", err.Error())
			continue
		}
		if len(generated) > validate.MaxBatchSize {
			generated = generated[:validate.MaxBatchSize]
		}

		result := a.validator.ValidateBatch(generated, evidence, a.cfg.Strict)
		if result.Valid {
			batch.Validation = result
			return generated
		}
		logger.Warn("Enriched batch failed validation", "attempt", attempt, "errors", len(result.Errors))
	}

	return a.fallback(profile, evidence, batch)
}

func (a *Assembler) fallback(profile core.UserProfile, evidence core.Evidence, batch *Batch) []core.GeneratedItem {
	batch.Stats.UsedFallback = true
	items := templates.Generate(profile, evidence, validate.MaxBatchSize, a.now())
	batch.Validation = a.validator.ValidateBatch(items, evidence, a.cfg.Strict)
	return items
}

// ConfirmDelivery records the delivered items into the dedup cache.
// Call exactly once per successful send.
func (a *Assembler) ConfirmDelivery(profile core.UserProfile, items []core.GeneratedItem) error {
	return a.dedupe.RecordSent(profile.Email, items)
}
