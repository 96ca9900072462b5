package database

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/models"
)

// Migrate creates or updates the zone catalog and run log tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Zone{}, &models.PredictionRun{})
}

// SeedZones inserts the given zones, leaving existing rows untouched.
func SeedZones(ctx context.Context, db *gorm.DB, zones []models.Zone) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, z := range zones {
			zone := z
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&zone).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
