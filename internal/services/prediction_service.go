package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/metrics"
	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/models"
)

// PredictionFetcher returns the predictions for a date range.
type PredictionFetcher interface {
	FetchPredictions(ctx context.Context, r models.DateRange) ([]models.Prediction, error)
}

// PredictionService is the gateway to the prediction model.
type PredictionService interface {
	PredictionFetcher
	// FetchZoneData returns the summary shown for a single zone.
	FetchZoneData(ctx context.Context, zoneID string) (*models.ZoneData, error)
	// SourceName is "mock" or "remote".
	SourceName() string
}

// PredictionServiceConfig wires the dependencies of NewPredictionService.
// Runs and Metrics are optional.
type PredictionServiceConfig struct {
	Source        PredictionSource
	Zones         ZoneService
	Runs          RunService
	Metrics       *metrics.Recorder
	Logger        zerolog.Logger
	Generator     *Generator
	ZoneDataDelay time.Duration
}

type predictionService struct {
	source    PredictionSource
	zones     ZoneService
	runs      RunService
	metrics   *metrics.Recorder
	log       zerolog.Logger
	gen       *Generator
	zoneDelay time.Duration
}

func NewPredictionService(cfg PredictionServiceConfig) PredictionService {
	gen := cfg.Generator
	if gen == nil {
		gen = NewGenerator(0, nil)
	}
	return &predictionService{
		source:    cfg.Source,
		zones:     cfg.Zones,
		runs:      cfg.Runs,
		metrics:   cfg.Metrics,
		log:       cfg.Logger,
		gen:       gen,
		zoneDelay: cfg.ZoneDataDelay,
	}
}

func (s *predictionService) SourceName() string {
	return s.source.Name()
}

// FetchPredictions asks the source for r. Failures are logged, recorded in
// the run log and returned wrapped in ErrFetchPredictions.
func (s *predictionService) FetchPredictions(ctx context.Context, r models.DateRange) ([]models.Prediction, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	started := time.Now()
	resp, err := s.source.Predict(ctx, r)
	elapsed := time.Since(started)
	if err == nil && resp == nil {
		resp = &models.InferenceResponse{}
	}

	records := 0
	if err == nil {
		records = len(resp.Predictions)
	}
	s.metrics.ObserveFetch(s.source.Name(), elapsed, records, err)
	s.recordRun(ctx, r, started, elapsed, resp, err)

	if err != nil {
		s.log.Error().Err(err).Str("range", r.Key()).Msg("error fetching predictions")
		return nil, fmt.Errorf("%w: %w", ErrFetchPredictions, err)
	}
	s.log.Debug().
		Str("range", r.Key()).
		Int("records", records).
		Dur("elapsed", elapsed).
		Msg("predictions fetched")
	if resp.Predictions == nil {
		return []models.Prediction{}, nil
	}
	return resp.Predictions, nil
}

func (s *predictionService) recordRun(ctx context.Context, r models.DateRange, started time.Time, elapsed time.Duration, resp *models.InferenceResponse, fetchErr error) {
	if s.runs == nil {
		return
	}
	run := &models.PredictionRun{
		ExecutionID:    uuid.New().String(),
		Source:         s.source.Name(),
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		Status:         models.RunSuccess,
		StartedAt:      started.UTC(),
		DurationMillis: elapsed.Milliseconds(),
	}
	if fetchErr != nil {
		msg := fetchErr.Error()
		run.Status = models.RunFailed
		run.ErrorMessage = &msg
	} else {
		run.RecordsProduced = len(resp.Predictions)
		run.ModelVersion = resp.ModelVersion
	}
	// The run is recorded even when the request that triggered it is gone.
	if err := s.runs.RecordRun(context.WithoutCancel(ctx), run); err != nil {
		s.log.Warn().Err(err).Str("execution_id", run.ExecutionID).Msg("error recording prediction run")
	}
}

func (s *predictionService) FetchZoneData(ctx context.Context, zoneID string) (*models.ZoneData, error) {
	zone, err := s.zones.GetZone(ctx, zoneID)
	if err != nil {
		return nil, err
	}
	if err := sleepContext(ctx, s.zoneDelay); err != nil {
		return nil, err
	}
	return &models.ZoneData{
		ID: zone.ZoneID,
		Statistics: models.ZoneDataStatistics{
			CrimeCount:      s.gen.Intn(100) + 50,
			HighRiskAreas:   s.gen.Intn(5) + 1,
			MostCommonCrime: models.CrimeTheft,
		},
	}, nil
}
