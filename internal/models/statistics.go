package models

// NotAvailable is shown instead of a crime type when there is no data.
const NotAvailable = "N/A"

// DashboardStats backs the summary cards of the dashboard.
type DashboardStats struct {
	TotalPredictions    int    `json:"totalPredictions"`
	HighRiskCount       int    `json:"highRiskCount"`
	TotalCrimeCount     int    `json:"totalCrimeCount"`
	ZonesAffected       int    `json:"zonesAffected"`
	MostCommonCrimeType string `json:"mostCommonCrimeType"`
}

// ChartPoint is one bar or pie slice.
type ChartPoint struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

type ZoneStatistics struct {
	ZoneID                string            `json:"zoneId"`
	ZoneName              string            `json:"zoneName"`
	TotalPredictedCrimes  int               `json:"totalPredictedCrimes"`
	CrimeTypeDistribution map[CrimeType]int `json:"crimeTypeDistribution"`
	RiskLevelDistribution map[RiskLevel]int `json:"riskLevelDistribution"`
	MeanCrimeCount        float64           `json:"meanCrimeCount"`
	StdDevCrimeCount      float64           `json:"stdDevCrimeCount"`
}

// PredictionStats is everything the chart view renders.
type PredictionStats struct {
	Dashboard      DashboardStats   `json:"dashboard"`
	CrimeTypeChart []ChartPoint     `json:"crimeTypeChart"`
	RiskLevelChart []ChartPoint     `json:"riskLevelChart"`
	Zones          []ZoneStatistics `json:"zones"`
}
