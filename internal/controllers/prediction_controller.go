package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/models"
	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/services"
)

// PredictionController serves predictions without a session. Every request
// carries its own filters in the query string.
type PredictionController struct {
	preds services.CachedFetcher
	zones services.ZoneService
	now   func() time.Time
}

// NewPredictionController creates a new instance of PredictionController
func NewPredictionController(preds services.CachedFetcher, zones services.ZoneService) *PredictionController {
	return &PredictionController{preds: preds, zones: zones, now: time.Now}
}

// Register registers the routes for the prediction controller
func (ctrl *PredictionController) Register(g *echo.Group) {
	g.GET("/predictions", ctrl.GetPredictions)
	g.GET("/predictions/stats", ctrl.GetStats)
	g.GET("/predictions/map", ctrl.GetMap)
	g.DELETE("/predictions/cache", ctrl.InvalidateCache)
}

type predictionsResponse struct {
	Filters     models.PredictionFilters `json:"filters"`
	Total       int                      `json:"total"`
	Predictions []models.Prediction      `json:"predictions"`
}

// GetPredictions handles GET /predictions
func (ctrl *PredictionController) GetPredictions(c echo.Context) error {
	filters, preds, err := ctrl.fetch(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, predictionsResponse{
		Filters:     filters,
		Total:       len(preds),
		Predictions: preds,
	})
}

// GetStats handles GET /predictions/stats
func (ctrl *PredictionController) GetStats(c echo.Context) error {
	_, preds, err := ctrl.fetch(c)
	if err != nil {
		return respondError(c, err)
	}
	zones, err := ctrl.zones.ListZones(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, services.BuildPredictionStats(preds, zones))
}

// GetMap handles GET /predictions/map
func (ctrl *PredictionController) GetMap(c echo.Context) error {
	settings, err := parseMapSettings(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	_, preds, err := ctrl.fetch(c)
	if err != nil {
		return respondError(c, err)
	}
	zones, err := ctrl.zones.ListZones(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, services.BuildMapView(preds, settings, zones))
}

// InvalidateCache handles DELETE /predictions/cache?startDate&endDate. The
// next read of that window fetches fresh predictions.
func (ctrl *PredictionController) InvalidateCache(c echo.Context) error {
	filters, err := parseFilters(c, ctrl.now())
	if err != nil {
		return respondError(c, err)
	}
	ctrl.preds.Invalidate(filters.DateRange)
	return c.NoContent(http.StatusNoContent)
}

func (ctrl *PredictionController) fetch(c echo.Context) (models.PredictionFilters, []models.Prediction, error) {
	filters, err := parseFilters(c, ctrl.now())
	if err != nil {
		return filters, nil, err
	}
	all, err := ctrl.preds.FetchPredictions(c.Request().Context(), filters.DateRange)
	if err != nil {
		return filters, nil, err
	}
	return filters, services.FilterPredictions(all, filters), nil
}
