package services

import (
	"slices"

	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/models"
)

// FilterPredictions keeps the predictions whose crime type, risk level and
// zone all belong to the matching filter set. Empty sets match everything.
// The date range is not applied here; it selects what gets fetched.
// Input order is preserved and preds is never modified.
func FilterPredictions(preds []models.Prediction, f models.PredictionFilters) []models.Prediction {
	out := make([]models.Prediction, 0, len(preds))
	for _, p := range preds {
		if len(f.CrimeTypes) > 0 && !slices.Contains(f.CrimeTypes, p.CrimeType) {
			continue
		}
		if len(f.RiskLevels) > 0 && !slices.Contains(f.RiskLevels, p.RiskLevel) {
			continue
		}
		if len(f.Zones) > 0 && !slices.Contains(f.Zones, p.Zone) {
			continue
		}
		out = append(out, p)
	}
	return out
}
