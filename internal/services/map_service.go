package services

import (
	"github.com/golang/geo/s2"

	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/models"
)

const (
	laCenterLat    = 34.0522
	laCenterLng    = -118.2437
	defaultMapZoom = 11

	// Each predicted crime adds this many meters to a circle's radius.
	metersPerCrime = 100
)

var riskMapColors = map[models.RiskLevel]string{
	models.RiskLow:      "#22c55e",
	models.RiskMedium:   "#f59e0b",
	models.RiskHigh:     "#ff3f30",
	models.RiskCritical: "#dc2626",
}

const defaultMarkerColor = "#6377f5"

// RiskColor returns the map color of a risk level.
func RiskColor(r models.RiskLevel) string {
	if c, ok := riskMapColors[r]; ok {
		return c
	}
	return defaultMarkerColor
}

// BuildMapView lays out preds for the map page. Layers disabled in settings
// are left empty.
func BuildMapView(preds []models.Prediction, settings models.MapSettings, zones []models.Zone) models.MapView {
	view := models.MapView{
		Center:   models.LatLng{Lat: laCenterLat, Lng: laCenterLng},
		Zoom:     defaultMapZoom,
		Settings: settings,
		Markers:  []models.MapMarker{},
		Circles:  []models.MapCircle{},
		Heatmap:  []models.HeatmapPoint{},
		Zones:    []models.ZoneBoundary{},
		Bounds:   PredictionBounds(preds),
	}

	if settings.ShowPredictionMarkers {
		for _, p := range preds {
			pos := models.LatLng{Lat: p.Latitude, Lng: p.Longitude}
			color := RiskColor(p.RiskLevel)
			view.Markers = append(view.Markers, models.MapMarker{
				ID:         p.ID,
				Position:   pos,
				Color:      color,
				Zone:       p.Zone,
				Date:       p.Date,
				RiskLevel:  p.RiskLevel,
				CrimeType:  p.CrimeType,
				CrimeCount: p.CrimeCount,
			})
			view.Circles = append(view.Circles, models.MapCircle{
				Center:       pos,
				RadiusMeters: float64(p.CrimeCount * metersPerCrime),
				Color:        color,
				FillOpacity:  0.2,
				Opacity:      0.5,
			})
		}
	}

	if settings.ShowHeatmap {
		view.Heatmap = Heatmap(preds)
	}

	if settings.ShowZoneBoundaries {
		for _, z := range zones {
			view.Zones = append(view.Zones, ZoneBoundary(z))
		}
	}
	return view
}

// Heatmap weights each prediction by its crime count relative to the
// largest count in preds.
func Heatmap(preds []models.Prediction) []models.HeatmapPoint {
	maxCount := 0
	for _, p := range preds {
		maxCount = max(maxCount, p.CrimeCount)
	}
	points := make([]models.HeatmapPoint, 0, len(preds))
	if maxCount == 0 {
		return points
	}
	for _, p := range preds {
		points = append(points, models.HeatmapPoint{
			Lat:       p.Latitude,
			Lng:       p.Longitude,
			Intensity: float64(p.CrimeCount) / float64(maxCount),
		})
	}
	return points
}

// PredictionBounds returns the smallest lat/lng box covering preds, or nil
// when there is nothing to show.
func PredictionBounds(preds []models.Prediction) *models.MapBounds {
	if len(preds) == 0 {
		return nil
	}
	rect := s2.EmptyRect()
	for _, p := range preds {
		rect = rect.AddPoint(s2.LatLngFromDegrees(p.Latitude, p.Longitude))
	}
	return &models.MapBounds{
		SouthWest: toLatLng(rect.Lo()),
		NorthEast: toLatLng(rect.Hi()),
	}
}

// ZoneBoundary converts a catalog zone into its map outline with the
// center of its bounding box.
func ZoneBoundary(z models.Zone) models.ZoneBoundary {
	rect := s2.EmptyRect()
	points := make([]models.LatLng, 0, len(z.Boundaries))
	for _, b := range z.Boundaries {
		ll := s2.LatLngFromDegrees(b[0], b[1])
		rect = rect.AddPoint(ll)
		points = append(points, models.LatLng{Lat: b[0], Lng: b[1]})
	}
	out := models.ZoneBoundary{
		ZoneID: z.ZoneID,
		Name:   z.Name,
		Code:   z.Code,
		Points: points,
	}
	if !rect.IsEmpty() {
		out.Center = toLatLng(rect.Center())
	}
	return out
}

func toLatLng(ll s2.LatLng) models.LatLng {
	return models.LatLng{Lat: ll.Lat.Degrees(), Lng: ll.Lng.Degrees()}
}
