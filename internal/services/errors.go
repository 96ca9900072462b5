package services

import (
	"errors"

	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/models"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrZoneNotFound         = errors.New("zone not found")
	ErrInvalidDateRange     = models.ErrInvalidDateRange
	ErrDateRangeOutOfBounds = errors.New("date range beyond the prediction horizon")
	ErrFetchPredictions     = errors.New("failed to fetch predictions")
	ErrInvalidFilter        = errors.New("invalid filter")
)

// FetchErrorMessage is stored on a session whose last fetch failed.
const FetchErrorMessage = "Failed to fetch predictions. Please try again later."
