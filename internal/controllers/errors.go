package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/models"
	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/services"
)

// errorStatus maps service errors onto HTTP statuses and the message shown
// to the client.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrInvalidDateRange),
		errors.Is(err, services.ErrInvalidFilter),
		errors.Is(err, models.ErrUnknownEnum):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrSessionNotFound):
		return http.StatusNotFound, "Session not found"
	case errors.Is(err, services.ErrZoneNotFound):
		return http.StatusNotFound, "Zone not found"
	case errors.Is(err, services.ErrDateRangeOutOfBounds):
		return http.StatusConflict, err.Error()
	case errors.Is(err, services.ErrFetchPredictions):
		return http.StatusBadGateway, services.FetchErrorMessage
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Request timed out"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func respondError(c echo.Context, err error) error {
	status, msg := errorStatus(err)
	return c.JSON(status, map[string]string{"error": msg})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
}
