// Package pipeline orchestrates one fetch-normalize-aggregate-pivot-join-
// export run over the configured monitoring sites.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/water-quality-etl/internal/domain"
	"github.com/couchcryptid/water-quality-etl/internal/observability"
)

// Fetcher retrieves raw observations and station metadata from the portal.
type Fetcher interface {
	FetchObservations(ctx context.Context, siteIDs []string) ([]domain.Observation, error)
	FetchSiteMetadata(ctx context.Context, siteIDs []string) ([]domain.SiteMetadata, error)
}

// Exporter writes the long and wide CSV artifacts.
type Exporter interface {
	WriteLong(path string, aggs []domain.AggregatedObservation) error
	WriteWide(path string, records []domain.EnrichedRecord, variables []string) error
}

// Options holds per-run pipeline policy.
type Options struct {
	Sites                    []string
	LongCSVPath              string
	WideCSVPath              string
	MaxSampleDepth           float64
	SubstituteDetectionLimit bool
}

// Summary reports what one run did.
type Summary struct {
	ObservationsFetched  int
	SitesFetched         int
	Recognized           int
	ExcludedUnrecognized int
	ExcludedUnmapped     int
	NonNumericValues     int
	Substituted          int
	Aggregates           int
	WideRecords          int
	StartedAt            time.Time
	FinishedAt           time.Time
}

// Pipeline runs the batch sequence once. Purely sequential; the only
// blocking work is the two portal fetches.
type Pipeline struct {
	fetcher  Fetcher
	exporter Exporter
	logger   *slog.Logger
	metrics  *observability.Metrics
	clock    clockwork.Clock
	opts     Options
}

// New creates a Pipeline with the given stages and observability.
func New(f Fetcher, e Exporter, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	return &Pipeline{
		fetcher:  f,
		exporter: e,
		logger:   logger,
		metrics:  metrics,
		clock:    clockwork.NewRealClock(),
		opts:     opts,
	}
}

// SetClock swaps the time source so tests can freeze run timestamps.
// Pass nil to reset to real time.
func (p *Pipeline) SetClock(c clockwork.Clock) {
	if c == nil {
		p.clock = clockwork.NewRealClock()
		return
	}
	p.clock = c
}

// Run executes the full sequence. A fetch failure aborts before any file is
// written; no partial output is produced.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	summary := Summary{StartedAt: p.clock.Now()}
	p.logger.Info("run started", "sites", p.opts.Sites)

	observations, err := p.fetcher.FetchObservations(ctx, p.opts.Sites)
	if err != nil {
		p.metrics.LastRunSuccess.Set(0)
		return summary, fmt.Errorf("fetch observations: %w", err)
	}
	sites, err := p.fetcher.FetchSiteMetadata(ctx, p.opts.Sites)
	if err != nil {
		p.metrics.LastRunSuccess.Set(0)
		return summary, fmt.Errorf("fetch site metadata: %w", err)
	}

	summary.ObservationsFetched = len(observations)
	summary.SitesFetched = len(sites)
	p.metrics.ObservationsFetched.Add(float64(len(observations)))
	p.metrics.SitesFetched.Add(float64(len(sites)))
	p.logger.Info("fetched", "observations", len(observations), "stations", len(sites))

	normalized := p.normalize(observations, &summary)
	p.logger.Info("normalized",
		"recognized", summary.Recognized,
		"excluded_unrecognized", summary.ExcludedUnrecognized,
		"excluded_unmapped", summary.ExcludedUnmapped,
		"non_numeric", summary.NonNumericValues,
		"substituted", summary.Substituted,
	)

	aggregates := domain.Aggregate(normalized, p.opts.MaxSampleDepth)
	summary.Aggregates = len(aggregates)
	p.metrics.AggregatesProduced.Add(float64(len(aggregates)))
	p.logger.Info("aggregated", "rows", len(aggregates), "max_depth", p.opts.MaxSampleDepth)

	wide, err := domain.Pivot(aggregates)
	if err != nil {
		p.metrics.LastRunSuccess.Set(0)
		return summary, fmt.Errorf("pivot: %w", err)
	}
	summary.WideRecords = len(wide)
	p.metrics.WideRecordsProduced.Add(float64(len(wide)))

	enriched, err := domain.JoinSiteMetadata(wide, sites)
	if err != nil {
		p.metrics.LastRunSuccess.Set(0)
		return summary, fmt.Errorf("join site metadata: %w", err)
	}

	if err := p.exporter.WriteLong(p.opts.LongCSVPath, aggregates); err != nil {
		p.metrics.LastRunSuccess.Set(0)
		return summary, fmt.Errorf("export long: %w", err)
	}
	if err := p.exporter.WriteWide(p.opts.WideCSVPath, enriched, domain.Variables(aggregates)); err != nil {
		p.metrics.LastRunSuccess.Set(0)
		return summary, fmt.Errorf("export wide: %w", err)
	}

	summary.FinishedAt = p.clock.Now()
	p.metrics.RunDuration.Observe(summary.FinishedAt.Sub(summary.StartedAt).Seconds())
	p.metrics.LastRunSuccess.Set(1)
	p.logger.Info("run complete",
		"aggregates", summary.Aggregates,
		"wide_records", summary.WideRecords,
		"duration", summary.FinishedAt.Sub(summary.StartedAt),
	)
	return summary, nil
}

// normalize applies the allow-list filter, variable mapping, numeric
// coercion, and the opt-in below-detection substitution, counting what each
// step dropped or changed.
func (p *Pipeline) normalize(observations []domain.Observation, summary *Summary) []domain.NormalizedObservation {
	normalized := make([]domain.NormalizedObservation, 0, len(observations))
	for _, obs := range observations {
		if !domain.RecognizedCharacteristic(obs.Characteristic) {
			summary.ExcludedUnrecognized++
			p.metrics.RowsExcluded.WithLabelValues("unrecognized").Inc()
			continue
		}
		n, ok := domain.NormalizeObservation(obs)
		if !ok {
			summary.ExcludedUnmapped++
			p.metrics.RowsExcluded.WithLabelValues("unmapped").Inc()
			continue
		}
		if !n.Value.Valid {
			summary.NonNumericValues++
			p.metrics.NonNumericValues.Inc()
		}
		if p.opts.SubstituteDetectionLimit && !n.Value.Valid {
			n = domain.SubstituteBelowDetection(n)
			if n.Value.Valid {
				summary.Substituted++
				p.metrics.Substitutions.Inc()
			}
		}
		normalized = append(normalized, n)
	}
	summary.Recognized = len(normalized)
	return normalized
}
