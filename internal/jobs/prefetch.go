package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/models"
)

// PredictionCache is the part of the prediction cache the prefetch job
// drives.
type PredictionCache interface {
	Reload(ctx context.Context, r models.DateRange) ([]models.Prediction, error)
	Sweep() int
	Len() int
}

// PrefetchJob keeps the default prediction window warm so the first
// dashboard of the hour does not wait on the model.
type PrefetchJob struct {
	cache PredictionCache
	spec  string
	log   zerolog.Logger
	now   func() time.Time
}

func NewPrefetchJob(cache PredictionCache, spec string, log zerolog.Logger) *PrefetchJob {
	return &PrefetchJob{cache: cache, spec: spec, log: log, now: time.Now}
}

// RunOnce drops expired entries and reloads the window starting today.
func (j *PrefetchJob) RunOnce(ctx context.Context) error {
	swept := j.cache.Sweep()
	r := models.DefaultDateRange(j.now())
	preds, err := j.cache.Reload(ctx, r)
	if err != nil {
		return fmt.Errorf("prefetch %s: %w", r.Key(), err)
	}
	j.log.Info().
		Str("range", r.Key()).
		Int("records", len(preds)).
		Int("swept", swept).
		Int("cached_ranges", j.cache.Len()).
		Msg("default window prefetched")
	return nil
}

// Run prefetches once right away and then on every tick of the cron spec
// until ctx is done.
func (j *PrefetchJob) Run(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc(j.spec, func() {
		if err := j.RunOnce(ctx); err != nil {
			j.log.Error().Err(err).Msg("scheduled prefetch failed")
		}
	}); err != nil {
		return fmt.Errorf("schedule prefetch %q: %w", j.spec, err)
	}

	if err := j.RunOnce(ctx); err != nil {
		j.log.Error().Err(err).Msg("initial prefetch failed")
	}

	c.Start()
	j.log.Info().Str("spec", j.spec).Msg("prefetch scheduled")
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
