package services

import (
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/models"
)

var crimeTypeColors = map[models.CrimeType]string{
	models.CrimeAssault:      "#f87171",
	models.CrimeBurglary:     "#60a5fa",
	models.CrimeTheft:        "#4ade80",
	models.CrimeRobbery:      "#f59e0b",
	models.CrimeVehicleTheft: "#8b5cf6",
	models.CrimeHomicide:     "#ef4444",
	models.CrimeVandalism:    "#a78bfa",
	models.CrimeOther:        "#9ca3af",
}

var riskLevelChartColors = map[models.RiskLevel]string{
	models.RiskLow:      "#4ade80",
	models.RiskMedium:   "#f59e0b",
	models.RiskHigh:     "#f87171",
	models.RiskCritical: "#ef4444",
}

// BuildPredictionStats computes everything the chart view shows for preds.
// zones resolves zone names to catalog ids and may be empty.
func BuildPredictionStats(preds []models.Prediction, zones []models.Zone) models.PredictionStats {
	return models.PredictionStats{
		Dashboard:      DashboardStats(preds),
		CrimeTypeChart: CrimeTypeChart(preds),
		RiskLevelChart: RiskLevelChart(preds),
		Zones:          ZoneStatistics(preds, zones),
	}
}

func DashboardStats(preds []models.Prediction) models.DashboardStats {
	out := models.DashboardStats{
		TotalPredictions:    len(preds),
		MostCommonCrimeType: MostCommonCrimeType(preds),
	}
	zones := make(map[string]struct{})
	for _, p := range preds {
		if p.RiskLevel.IsHigh() {
			out.HighRiskCount++
		}
		out.TotalCrimeCount += p.CrimeCount
		zones[p.Zone] = struct{}{}
	}
	out.ZonesAffected = len(zones)
	return out
}

// MostCommonCrimeType counts records, not crime counts. Ties go to the type
// seen first; an empty input yields "N/A".
func MostCommonCrimeType(preds []models.Prediction) string {
	if len(preds) == 0 {
		return models.NotAvailable
	}
	counts := make(map[models.CrimeType]int)
	var order []models.CrimeType
	for _, p := range preds {
		if counts[p.CrimeType] == 0 {
			order = append(order, p.CrimeType)
		}
		counts[p.CrimeType]++
	}
	best := order[0]
	for _, ct := range order[1:] {
		if counts[ct] > counts[best] {
			best = ct
		}
	}
	return string(best)
}

// CrimeTypeChart sums crime counts per type, drops empty types and sorts by
// value, largest first.
func CrimeTypeChart(preds []models.Prediction) []models.ChartPoint {
	sums := make(map[models.CrimeType]int)
	for _, p := range preds {
		sums[p.CrimeType] += p.CrimeCount
	}
	points := make([]models.ChartPoint, 0, len(sums))
	for _, ct := range models.CrimeTypes {
		if sums[ct] > 0 {
			points = append(points, models.ChartPoint{Name: string(ct), Value: sums[ct], Color: crimeTypeColors[ct]})
		}
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Value > points[j].Value })
	return points
}

// RiskLevelChart counts records per level in level order, dropping empty
// levels.
func RiskLevelChart(preds []models.Prediction) []models.ChartPoint {
	counts := make(map[models.RiskLevel]int)
	for _, p := range preds {
		counts[p.RiskLevel]++
	}
	points := make([]models.ChartPoint, 0, len(models.RiskLevels))
	for _, rl := range models.RiskLevels {
		if counts[rl] > 0 {
			points = append(points, models.ChartPoint{Name: string(rl), Value: counts[rl], Color: riskLevelChartColors[rl]})
		}
	}
	return points
}

// ZoneStatistics groups preds by zone, busiest zone first.
func ZoneStatistics(preds []models.Prediction, zones []models.Zone) []models.ZoneStatistics {
	ids := make(map[string]string, len(zones))
	for _, z := range zones {
		ids[z.Name] = z.ZoneID
	}

	byZone := make(map[string]*models.ZoneStatistics)
	samples := make(map[string][]float64)
	var names []string
	for _, p := range preds {
		zs, ok := byZone[p.Zone]
		if !ok {
			id, known := ids[p.Zone]
			if !known {
				id = zoneSlug(p.Zone)
			}
			zs = &models.ZoneStatistics{
				ZoneID:                id,
				ZoneName:              p.Zone,
				CrimeTypeDistribution: make(map[models.CrimeType]int, len(models.CrimeTypes)),
				RiskLevelDistribution: make(map[models.RiskLevel]int, len(models.RiskLevels)),
			}
			for _, ct := range models.CrimeTypes {
				zs.CrimeTypeDistribution[ct] = 0
			}
			for _, rl := range models.RiskLevels {
				zs.RiskLevelDistribution[rl] = 0
			}
			byZone[p.Zone] = zs
			names = append(names, p.Zone)
		}
		zs.TotalPredictedCrimes += p.CrimeCount
		zs.CrimeTypeDistribution[p.CrimeType] += p.CrimeCount
		zs.RiskLevelDistribution[p.RiskLevel]++
		samples[p.Zone] = append(samples[p.Zone], float64(p.CrimeCount))
	}

	out := make([]models.ZoneStatistics, 0, len(names))
	for _, name := range names {
		zs := byZone[name]
		xs := samples[name]
		if len(xs) > 1 {
			zs.MeanCrimeCount, zs.StdDevCrimeCount = stat.MeanStdDev(xs, nil)
		} else {
			zs.MeanCrimeCount = xs[0]
		}
		out = append(out, *zs)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalPredictedCrimes != out[j].TotalPredictedCrimes {
			return out[i].TotalPredictedCrimes > out[j].TotalPredictedCrimes
		}
		return out[i].ZoneName < out[j].ZoneName
	})
	return out
}

func zoneSlug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
