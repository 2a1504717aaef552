package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/minhvo/earnscope/internal/contracts"
	"github.com/minhvo/earnscope/internal/period"
	"github.com/minhvo/earnscope/pkg/logger"
)

// WarmJob refreshes the hot read paths through the caching layer so the
// first request after a TTL expiry never pays the database round trip: the
// sector map, the period listings, and the latest comparison triad per
// frequency.
type WarmJob struct {
	source   contracts.DataSource
	logger   *logger.Logger
	schedule string
	timeout  time.Duration
}

// NewWarmJob creates the cache warm job. The schedule should fire at
// least twice per cache TTL so entries are refreshed before they expire.
func NewWarmJob(source contracts.DataSource, log *logger.Logger, schedule string) *WarmJob {
	return &WarmJob{
		source:   source,
		logger:   log,
		schedule: schedule,
		timeout:  2 * time.Minute,
	}
}

// Name returns the job name
func (j *WarmJob) Name() string {
	return "cache-warm"
}

// Schedule returns the cron schedule expression
func (j *WarmJob) Schedule() string {
	return j.schedule
}

// Run warms the sector map and the latest snapshot for each frequency.
func (j *WarmJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	assignments, err := j.source.SectorMap(ctx)
	if err != nil {
		return fmt.Errorf("warm sector map: %w", err)
	}
	j.logger.WithField("tickers", len(assignments)).Debug("Sector map warmed")

	for _, frequency := range []period.Frequency{period.Quarterly, period.Annual} {
		if err := j.warmLatest(ctx, frequency); err != nil {
			return err
		}
	}

	return nil
}

// warmLatest loads the newest period's comparison triad for one frequency.
func (j *WarmJob) warmLatest(ctx context.Context, frequency period.Frequency) error {
	periods, err := j.source.AvailablePeriods(ctx, frequency)
	if err != nil {
		return fmt.Errorf("warm periods %s: %w", frequency, err)
	}
	if len(periods) == 0 {
		j.logger.WithField("frequency", frequency).Debug("No periods to warm")
		return nil
	}

	latest := periods[0]
	comparisons, err := period.ResolveComparisons(frequency, latest)
	if err != nil {
		return fmt.Errorf("warm comparisons %s %s: %w", frequency, latest, err)
	}

	rows, err := j.source.Financials(ctx, frequency, comparisons.FetchSet())
	if err != nil {
		return fmt.Errorf("warm financials %s %s: %w", frequency, latest, err)
	}

	j.logger.WithFields(map[string]interface{}{
		"frequency": frequency,
		"period":    latest,
		"rows":      len(rows),
	}).Debug("Snapshot warmed")

	return nil
}
