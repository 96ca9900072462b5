package models

import "time"

// SessionSnapshot is a consistent copy of one dashboard session.
type SessionSnapshot struct {
	ID                  string            `json:"id"`
	Predictions         []Prediction      `json:"predictions"`
	FilteredPredictions []Prediction      `json:"filteredPredictions"`
	Loading             bool              `json:"loading"`
	Error               *string           `json:"error"`
	Filters             PredictionFilters `json:"filters"`
	MapSettings         MapSettings       `json:"mapSettings"`
	UpdatedAt           time.Time         `json:"updatedAt"`
}

// AboutInfo backs the informational page.
type AboutInfo struct {
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	City         string      `json:"city"`
	ModelVersion string      `json:"modelVersion"`
	DataSource   string      `json:"dataSource"`
	WindowDays   int         `json:"windowDays"`
	CrimeTypes   []CrimeType `json:"crimeTypes"`
	RiskLevels   []RiskLevel `json:"riskLevels"`
	Zones        []string    `json:"zones"`
}
