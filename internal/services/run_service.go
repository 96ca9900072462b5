package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/models"
)

// DefaultRunLimit caps ListRuns when the caller passes no limit.
const DefaultRunLimit = 20

// RunService keeps the audit trail of prediction fetches.
type RunService interface {
	// RecordRun inserts one run, returning an error if the insert fails.
	RecordRun(ctx context.Context, run *models.PredictionRun) error
	// ListRuns returns the most recent runs first.
	ListRuns(ctx context.Context, limit int) ([]models.PredictionRun, error)
}

type runService struct {
	db *gorm.DB
}

func NewRunService(db *gorm.DB) RunService {
	return &runService{db: db}
}

func (s *runService) RecordRun(ctx context.Context, run *models.PredictionRun) error {
	return s.db.WithContext(ctx).Create(run).Error
}

func (s *runService) ListRuns(ctx context.Context, limit int) ([]models.PredictionRun, error) {
	if limit <= 0 {
		limit = DefaultRunLimit
	}
	var runs []models.PredictionRun
	err := s.db.WithContext(ctx).
		Order("started_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, err
	}
	return runs, nil
}
