package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/weather-flat-etl/internal/domain"
	"github.com/couchcryptid/weather-flat-etl/internal/observability"
)

// HistoricalSource supplies raw ECCC observation records.
type HistoricalSource interface {
	FetchHistorical(ctx context.Context) ([]domain.RawObservation, error)
}

// ForecastSource supplies raw Open-Meteo daily forecast records.
type ForecastSource interface {
	FetchForecast(ctx context.Context) ([]domain.RawForecast, error)
}

// TableWriter persists the flat table and returns the path it wrote to.
type TableWriter interface {
	WriteTable(rows []domain.FlatRow) (string, error)
}

// Hook forwards the finished flat table to a downstream consumer. Publish
// must not mutate the table. A failed hook does not invalidate the run; the
// table on disk is still correct.
type Hook interface {
	Name() string
	Publish(ctx context.Context, rows []domain.FlatRow) error
}

// Pipeline runs the one-shot normalize-merge-export sequence. Stages are
// strictly sequential: the merge never starts until both sources have been
// fetched and normalized, and a fetch failure aborts the run before the
// merge (fail-fast).
type Pipeline struct {
	historical HistoricalSource
	forecast   ForecastSource
	writer     TableWriter
	hooks      []Hook
	logger     *slog.Logger
	metrics    *observability.Metrics
	sampleSize int
}

// New creates a Pipeline with the given stages and observability. hooks may
// be empty.
func New(h HistoricalSource, f ForecastSource, w TableWriter, hooks []Hook, logger *slog.Logger, metrics *observability.Metrics, sampleSize int) *Pipeline {
	return &Pipeline{
		historical: h,
		forecast:   f,
		writer:     w,
		hooks:      hooks,
		logger:     logger,
		metrics:    metrics,
		sampleSize: sampleSize,
	}
}

// Run executes one complete ETL cycle and returns the diagnostics summary.
// On a persist failure the summary still describes the correctly computed
// in-memory table.
func (p *Pipeline) Run(ctx context.Context) (domain.Summary, error) {
	start := time.Now()
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	rawHist, err := p.fetchHistorical(ctx)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("fetch historical: %w", err)
	}
	rawFc, err := p.fetchForecast(ctx)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("fetch forecast: %w", err)
	}

	hist, histStats := domain.NormalizeHistorical(rawHist, p.logger)
	p.recordNormalize("eccc", histStats)

	fc, fcStats := domain.NormalizeForecast(rawFc, p.logger)
	p.recordNormalize("openmeteo", fcStats)

	flat := domain.Merge(hist, fc)
	summary := domain.Summarize(flat, p.sampleSize)

	p.metrics.MergedRows.Set(float64(summary.TotalRows))
	p.metrics.ForecastCoverage.Set(float64(summary.ForecastRows))
	p.logger.Info("merge complete",
		"total_rows", summary.TotalRows,
		"distinct_dates", summary.DistinctDates,
		"forecast_rows", summary.ForecastRows,
	)

	path, err := p.writer.WriteTable(flat)
	if err != nil {
		return summary, fmt.Errorf("persist flat table: %w", err)
	}
	p.logger.Info("flat table persisted", "path", path, "rows", summary.TotalRows)

	for _, hook := range p.hooks {
		if err := hook.Publish(ctx, flat); err != nil {
			p.metrics.HookPublishes.WithLabelValues(hook.Name(), "error").Inc()
			p.logger.Warn("downstream publish failed", "hook", hook.Name(), "error", err)
			continue
		}
		p.metrics.HookPublishes.WithLabelValues(hook.Name(), "success").Inc()
		p.logger.Info("downstream publish complete", "hook", hook.Name(), "rows", summary.TotalRows)
	}

	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	return summary, nil
}

func (p *Pipeline) fetchHistorical(ctx context.Context) ([]domain.RawObservation, error) {
	start := time.Now()
	records, err := p.historical.FetchHistorical(ctx)
	if err != nil {
		return nil, err
	}
	p.metrics.FetchDuration.WithLabelValues("eccc").Observe(time.Since(start).Seconds())
	p.metrics.RowsIngested.WithLabelValues("eccc").Add(float64(len(records)))
	return records, nil
}

func (p *Pipeline) fetchForecast(ctx context.Context) ([]domain.RawForecast, error) {
	start := time.Now()
	records, err := p.forecast.FetchForecast(ctx)
	if err != nil {
		return nil, err
	}
	p.metrics.FetchDuration.WithLabelValues("openmeteo").Observe(time.Since(start).Seconds())
	p.metrics.RowsIngested.WithLabelValues("openmeteo").Add(float64(len(records)))
	return records, nil
}

func (p *Pipeline) recordNormalize(source string, stats domain.NormalizeStats) {
	p.metrics.RowsDropped.WithLabelValues(source, "invalid").Add(float64(stats.Dropped))
	p.metrics.RowsDropped.WithLabelValues(source, "duplicate").Add(float64(stats.Duplicates))
	if stats.Dropped > 0 || stats.Duplicates > 0 {
		p.logger.Info("normalization finished with drops",
			"source", source,
			"input", stats.Input,
			"dropped", stats.Dropped,
			"duplicates", stats.Duplicates,
		)
	}
}
