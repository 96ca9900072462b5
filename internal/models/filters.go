package models

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// DateLayout is the wire format of every date in the API.
const DateLayout = "2006-01-02"

// WindowDays is the length of a prediction window. The default range and
// the previous/next navigation both move in steps of this size.
const WindowDays = 8

var ErrInvalidDateRange = errors.New("invalid date range")

// DateRange is an inclusive window of days.
type DateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// DefaultDateRange returns today .. today+7.
func DefaultDateRange(now time.Time) DateRange {
	return DateRange{
		StartDate: now.Format(DateLayout),
		EndDate:   now.AddDate(0, 0, WindowDays-1).Format(DateLayout),
	}
}

// Parse returns both bounds as times, checking that start is not after end.
func (d DateRange) Parse() (time.Time, time.Time, error) {
	start, err := time.Parse(DateLayout, d.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start date %q", ErrInvalidDateRange, d.StartDate)
	}
	end, err := time.Parse(DateLayout, d.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end date %q", ErrInvalidDateRange, d.EndDate)
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s is after %s", ErrInvalidDateRange, d.StartDate, d.EndDate)
	}
	return start, end, nil
}

func (d DateRange) Validate() error {
	_, _, err := d.Parse()
	return err
}

// Shift moves both bounds by days.
func (d DateRange) Shift(days int) (DateRange, error) {
	start, end, err := d.Parse()
	if err != nil {
		return DateRange{}, err
	}
	return DateRange{
		StartDate: start.AddDate(0, 0, days).Format(DateLayout),
		EndDate:   end.AddDate(0, 0, days).Format(DateLayout),
	}, nil
}

// Key identifies the range in caches and logs.
func (d DateRange) Key() string {
	return d.StartDate + "/" + d.EndDate
}

// PredictionFilters selects which fetched predictions are shown. An empty
// set places no restriction on its dimension.
type PredictionFilters struct {
	CrimeTypes []CrimeType `json:"crimeTypes"`
	RiskLevels []RiskLevel `json:"riskLevels"`
	Zones      []string    `json:"zones"`
	DateRange  DateRange   `json:"dateRange"`
}

func DefaultFilters(now time.Time) PredictionFilters {
	return PredictionFilters{
		CrimeTypes: []CrimeType{},
		RiskLevels: []RiskLevel{},
		Zones:      []string{},
		DateRange:  DefaultDateRange(now),
	}
}

// Clone returns a deep copy so callers cannot alias stored sets.
func (f PredictionFilters) Clone() PredictionFilters {
	return PredictionFilters{
		CrimeTypes: cloneOrEmpty(f.CrimeTypes),
		RiskLevels: cloneOrEmpty(f.RiskLevels),
		Zones:      cloneOrEmpty(f.Zones),
		DateRange:  f.DateRange,
	}
}

func cloneOrEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return slices.Clone(s)
}

// PredictionFiltersPatch is a partial update. Nil fields are left untouched.
type PredictionFiltersPatch struct {
	CrimeTypes *[]CrimeType `json:"crimeTypes,omitempty"`
	RiskLevels *[]RiskLevel `json:"riskLevels,omitempty"`
	Zones      *[]string    `json:"zones,omitempty"`
	DateRange  *DateRange   `json:"dateRange,omitempty"`
}

// Apply merges the patch into f and returns the result.
func (p PredictionFiltersPatch) Apply(f PredictionFilters) PredictionFilters {
	out := f.Clone()
	if p.CrimeTypes != nil {
		out.CrimeTypes = cloneOrEmpty(*p.CrimeTypes)
	}
	if p.RiskLevels != nil {
		out.RiskLevels = cloneOrEmpty(*p.RiskLevels)
	}
	if p.Zones != nil {
		out.Zones = cloneOrEmpty(*p.Zones)
	}
	if p.DateRange != nil {
		out.DateRange = *p.DateRange
	}
	return out
}

// MapSettings toggles the layers drawn on the map view.
type MapSettings struct {
	ShowHeatmap           bool `json:"showHeatmap"`
	ShowZoneBoundaries    bool `json:"showZoneBoundaries"`
	ShowPredictionMarkers bool `json:"showPredictionMarkers"`
}

func DefaultMapSettings() MapSettings {
	return MapSettings{
		ShowHeatmap:           true,
		ShowZoneBoundaries:    true,
		ShowPredictionMarkers: true,
	}
}

type MapSettingsPatch struct {
	ShowHeatmap           *bool `json:"showHeatmap,omitempty"`
	ShowZoneBoundaries    *bool `json:"showZoneBoundaries,omitempty"`
	ShowPredictionMarkers *bool `json:"showPredictionMarkers,omitempty"`
}

func (p MapSettingsPatch) Apply(s MapSettings) MapSettings {
	if p.ShowHeatmap != nil {
		s.ShowHeatmap = *p.ShowHeatmap
	}
	if p.ShowZoneBoundaries != nil {
		s.ShowZoneBoundaries = *p.ShowZoneBoundaries
	}
	if p.ShowPredictionMarkers != nil {
		s.ShowPredictionMarkers = *p.ShowPredictionMarkers
	}
	return s
}
