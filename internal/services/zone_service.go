package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/models"
)

// ZoneService defines read operations over the LAPD division catalog.
type ZoneService interface {
	// ListZones returns every zone ordered by division code.
	ListZones(ctx context.Context) ([]models.Zone, error)
	// GetZone looks a zone up by id or by its display name.
	GetZone(ctx context.Context, idOrName string) (*models.Zone, error)
}

// zoneService is the concrete implementation of ZoneService.
type zoneService struct {
	db *gorm.DB
}

// NewZoneService injects the *gorm.DB dependency and returns a ZoneService
// ready for use.
func NewZoneService(db *gorm.DB) ZoneService {
	return &zoneService{db: db}
}

func (s *zoneService) ListZones(ctx context.Context) ([]models.Zone, error) {
	var zones []models.Zone
	if err := s.db.WithContext(ctx).Order("code ASC").Find(&zones).Error; err != nil {
		return nil, err
	}
	return zones, nil
}

func (s *zoneService) GetZone(ctx context.Context, idOrName string) (*models.Zone, error) {
	var zone models.Zone
	err := s.db.WithContext(ctx).
		Where("zone_id = ? OR LOWER(name) = LOWER(?)", idOrName, idOrName).
		First(&zone).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrZoneNotFound, idOrName)
	}
	if err != nil {
		return nil, err
	}
	return &zone, nil
}
