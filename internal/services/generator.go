package services

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/models"
)

// Los Angeles bounding box used for generated coordinates.
const (
	laMinLat = 33.7
	laMaxLat = 34.3
	laMinLng = -118.6
	laMaxLng = -118.1

	// HIGH and CRITICAL predictions are pushed towards south-central LA.
	highRiskLatOffset = -0.1
	highRiskLngOffset = 0.1

	minGenerated = 30
	maxGenerated = 49
)

// Generator produces random predictions standing in for model output. It is
// safe for concurrent use.
type Generator struct {
	mu    sync.Mutex
	rng   *rand.Rand
	zones []string
}

// NewGenerator seeds the generator. A zero seed uses the current time.
func NewGenerator(seed int64, zones []string) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if len(zones) == 0 {
		zones = models.DivisionNames()
	}
	return &Generator{
		rng:   rand.New(rand.NewSource(seed)),
		zones: zones,
	}
}

// Generate returns between 30 and 49 predictions dated at the start of r.
func (g *Generator) Generate(r models.DateRange) []models.Prediction {
	g.mu.Lock()
	defer g.mu.Unlock()

	count := g.rng.Intn(maxGenerated-minGenerated+1) + minGenerated
	preds := make([]models.Prediction, 0, count)
	for i := 0; i < count; i++ {
		risk := models.RiskLevels[g.rng.Intn(len(models.RiskLevels))]
		crimeType := models.CrimeTypes[g.rng.Intn(len(models.CrimeTypes))]
		zone := g.zones[g.rng.Intn(len(g.zones))]

		var latOffset, lngOffset float64
		if risk.IsHigh() {
			latOffset = highRiskLatOffset
			lngOffset = highRiskLngOffset
		}

		preds = append(preds, models.Prediction{
			ID:         fmt.Sprintf("pred-%d", i),
			Zone:       zone,
			Date:       r.StartDate,
			CrimeCount: g.crimeCount(risk),
			CrimeType:  crimeType,
			Latitude:   laMinLat + g.rng.Float64()*(laMaxLat-laMinLat) + latOffset,
			Longitude:  laMinLng + g.rng.Float64()*(laMaxLng-laMinLng) + lngOffset,
			RiskLevel:  risk,
		})
	}
	return preds
}

// crimeCount grows with the risk level: LOW 1, MEDIUM 2-4, HIGH 3-7,
// CRITICAL 5-11.
func (g *Generator) crimeCount(risk models.RiskLevel) int {
	switch risk {
	case models.RiskMedium:
		return g.rng.Intn(3) + 2
	case models.RiskHigh:
		return g.rng.Intn(5) + 3
	case models.RiskCritical:
		return g.rng.Intn(7) + 5
	default:
		return 1
	}
}

// Intn exposes the generator's source for other mocked values.
func (g *Generator) Intn(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Intn(n)
}
