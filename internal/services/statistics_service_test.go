package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/models"
)

func TestDashboardStats(t *testing.T) {
	got := DashboardStats(samplePredictions())
	assert.Equal(t, models.DashboardStats{
		TotalPredictions:    4,
		HighRiskCount:       2,
		TotalCrimeCount:     18,
		ZonesAffected:       3,
		MostCommonCrimeType: "ASSAULT",
	}, got)
}

func TestDashboardStatsEmpty(t *testing.T) {
	got := DashboardStats(nil)
	assert.Zero(t, got.TotalPredictions)
	assert.Zero(t, got.ZonesAffected)
	assert.Equal(t, models.NotAvailable, got.MostCommonCrimeType)
}

func TestMostCommonCrimeTypeTieKeepsFirstSeen(t *testing.T) {
	preds := []models.Prediction{
		{CrimeType: models.CrimeTheft, CrimeCount: 1},
		{CrimeType: models.CrimeAssault, CrimeCount: 10},
	}
	assert.Equal(t, "THEFT", MostCommonCrimeType(preds))
}

func TestCrimeTypeChart(t *testing.T) {
	got := CrimeTypeChart(samplePredictions())
	assert.Equal(t, []models.ChartPoint{
		{Name: "ASSAULT", Value: 14, Color: "#f87171"},
		{Name: "BURGLARY", Value: 3, Color: "#60a5fa"},
		{Name: "THEFT", Value: 1, Color: "#4ade80"},
	}, got)
	assert.Empty(t, CrimeTypeChart(nil))
}

func TestRiskLevelChart(t *testing.T) {
	preds := append(samplePredictions(), models.Prediction{RiskLevel: models.RiskHigh, CrimeCount: 4})
	got := RiskLevelChart(preds)
	require.Len(t, got, 4)
	assert.Equal(t, "LOW", got[0].Name)
	assert.Equal(t, "CRITICAL", got[3].Name)
	assert.Equal(t, 2, got[2].Value)
	assert.Equal(t, "#f87171", got[2].Color)

	onlyLow := RiskLevelChart([]models.Prediction{{RiskLevel: models.RiskLow}})
	assert.Equal(t, []models.ChartPoint{{Name: "LOW", Value: 1, Color: "#4ade80"}}, onlyLow)
}

func TestZoneStatistics(t *testing.T) {
	got := ZoneStatistics(samplePredictions(), models.LAPDDivisions)
	require.Len(t, got, 3)

	central := got[0]
	assert.Equal(t, "central", central.ZoneID)
	assert.Equal(t, "Central", central.ZoneName)
	assert.Equal(t, 10, central.TotalPredictedCrimes)
	assert.Equal(t, 1, central.CrimeTypeDistribution[models.CrimeTheft])
	assert.Equal(t, 9, central.CrimeTypeDistribution[models.CrimeAssault])
	assert.Len(t, central.CrimeTypeDistribution, len(models.CrimeTypes))
	assert.Equal(t, 1, central.RiskLevelDistribution[models.RiskLow])
	assert.Equal(t, 1, central.RiskLevelDistribution[models.RiskCritical])
	assert.Zero(t, central.RiskLevelDistribution[models.RiskHigh])
	assert.InDelta(t, 5.0, central.MeanCrimeCount, 1e-9)
	assert.InDelta(t, math.Sqrt(32), central.StdDevCrimeCount, 1e-9)

	assert.Equal(t, "Harbor", got[1].ZoneName)
	assert.InDelta(t, 5.0, got[1].MeanCrimeCount, 1e-9)
	assert.Zero(t, got[1].StdDevCrimeCount)
	assert.Equal(t, "Hollywood", got[2].ZoneName)
}

func TestZoneStatisticsUnknownZoneAndTies(t *testing.T) {
	preds := []models.Prediction{
		{Zone: "Downtown Core", CrimeType: models.CrimeOther, RiskLevel: models.RiskLow, CrimeCount: 2},
		{Zone: "Central", CrimeType: models.CrimeOther, RiskLevel: models.RiskLow, CrimeCount: 2},
	}
	got := ZoneStatistics(preds, nil)
	require.Len(t, got, 2)
	assert.Equal(t, "central", got[0].ZoneID)
	assert.Equal(t, "downtown-core", got[1].ZoneID)
}

func TestBuildPredictionStatsEmpty(t *testing.T) {
	got := BuildPredictionStats([]models.Prediction{}, models.LAPDDivisions)
	assert.Equal(t, models.NotAvailable, got.Dashboard.MostCommonCrimeType)
	assert.NotNil(t, got.CrimeTypeChart)
	assert.NotNil(t, got.RiskLevelChart)
	assert.NotNil(t, got.Zones)
	assert.Empty(t, got.Zones)
}
