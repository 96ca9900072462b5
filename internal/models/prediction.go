package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownEnum is returned when a crime type or risk level string does
// not match any known value.
var ErrUnknownEnum = errors.New("unknown enum value")

// CrimeType classifies a predicted crime.
type CrimeType string

const (
	CrimeAssault      CrimeType = "ASSAULT"
	CrimeBurglary     CrimeType = "BURGLARY"
	CrimeTheft        CrimeType = "THEFT"
	CrimeRobbery      CrimeType = "ROBBERY"
	CrimeVehicleTheft CrimeType = "VEHICLE_THEFT"
	CrimeHomicide     CrimeType = "HOMICIDE"
	CrimeVandalism    CrimeType = "VANDALISM"
	CrimeOther        CrimeType = "OTHER"
)

// CrimeTypes lists every crime type in display order.
var CrimeTypes = []CrimeType{
	CrimeAssault,
	CrimeBurglary,
	CrimeTheft,
	CrimeRobbery,
	CrimeVehicleTheft,
	CrimeHomicide,
	CrimeVandalism,
	CrimeOther,
}

// ParseCrimeType matches s against the known crime types ignoring case.
// Spaces and dashes are accepted in place of underscores.
func ParseCrimeType(s string) (CrimeType, error) {
	norm := normalizeEnum(s)
	for _, ct := range CrimeTypes {
		if string(ct) == norm {
			return ct, nil
		}
	}
	return "", fmt.Errorf("%w: crime type %q", ErrUnknownEnum, s)
}

// UnmarshalText lets JSON bodies and map keys carry lower-case values.
func (c *CrimeType) UnmarshalText(b []byte) error {
	ct, err := ParseCrimeType(string(b))
	if err != nil {
		return err
	}
	*c = ct
	return nil
}

// RiskLevel is the ordinal severity of a prediction.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// RiskLevels lists every risk level from least to most severe.
var RiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh, RiskCritical}

// ParseRiskLevel matches s against the known risk levels ignoring case.
func ParseRiskLevel(s string) (RiskLevel, error) {
	norm := normalizeEnum(s)
	for _, rl := range RiskLevels {
		if string(rl) == norm {
			return rl, nil
		}
	}
	return "", fmt.Errorf("%w: risk level %q", ErrUnknownEnum, s)
}

func (r *RiskLevel) UnmarshalText(b []byte) error {
	rl, err := ParseRiskLevel(string(b))
	if err != nil {
		return err
	}
	*r = rl
	return nil
}

// Rank returns 0 for LOW up to 3 for CRITICAL, or -1 for unknown values.
func (r RiskLevel) Rank() int {
	for i, rl := range RiskLevels {
		if rl == r {
			return i
		}
	}
	return -1
}

// IsHigh reports whether the level is HIGH or CRITICAL.
func (r RiskLevel) IsHigh() bool {
	return r == RiskHigh || r == RiskCritical
}

func normalizeEnum(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

// Prediction is one forecasted crime record for a zone and date.
type Prediction struct {
	ID         string    `json:"id"`
	Zone       string    `json:"zone"`
	Date       string    `json:"date"`
	CrimeCount int       `json:"crimeCount"`
	CrimeType  CrimeType `json:"crimeType"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	RiskLevel  RiskLevel `json:"riskLevel"`
}

// InferenceResponse is the payload returned by the prediction model endpoint.
type InferenceResponse struct {
	Predictions  []Prediction `json:"predictions"`
	Timestamp    time.Time    `json:"timestamp"`
	ModelVersion string       `json:"modelVersion"`
}

// InferenceRequest is the body posted to the prediction model endpoint.
type InferenceRequest struct {
	Inputs DateRange `json:"inputs"`
}
