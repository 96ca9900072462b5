package controllers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/models"
)

// parseFilters reads prediction filters from the query string. Sets are
// comma separated; a missing date bound falls back to the default window.
func parseFilters(c echo.Context, now time.Time) (models.PredictionFilters, error) {
	f := models.DefaultFilters(now)
	if v := c.QueryParam("startDate"); v != "" {
		f.DateRange.StartDate = v
	}
	if v := c.QueryParam("endDate"); v != "" {
		f.DateRange.EndDate = v
	}
	if err := f.DateRange.Validate(); err != nil {
		return f, err
	}

	for _, raw := range splitList(c.QueryParam("crimeTypes")) {
		ct, err := models.ParseCrimeType(raw)
		if err != nil {
			return f, err
		}
		f.CrimeTypes = append(f.CrimeTypes, ct)
	}
	for _, raw := range splitList(c.QueryParam("riskLevels")) {
		rl, err := models.ParseRiskLevel(raw)
		if err != nil {
			return f, err
		}
		f.RiskLevels = append(f.RiskLevels, rl)
	}
	f.Zones = append(f.Zones, splitList(c.QueryParam("zones"))...)
	return f, nil
}

// parseMapSettings starts from the defaults and applies any showX flags.
func parseMapSettings(c echo.Context) (models.MapSettings, error) {
	var patch models.MapSettingsPatch
	for name, dst := range map[string]**bool{
		"showHeatmap":           &patch.ShowHeatmap,
		"showZoneBoundaries":    &patch.ShowZoneBoundaries,
		"showPredictionMarkers": &patch.ShowPredictionMarkers,
	} {
		v := c.QueryParam(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return models.MapSettings{}, fmt.Errorf("invalid %s: %q", name, v)
		}
		*dst = &b
	}
	return patch.Apply(models.DefaultMapSettings()), nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
